package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autopartzone_orders_placed_total",
		Help: "Orders successfully created",
	})

	OrdersRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autopartzone_orders_rejected_total",
		Help: "Order placements rejected, by reason",
	}, []string{"reason"})

	PaymentConfirmations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autopartzone_payment_confirmations_total",
		Help: "Successful payment confirmations",
	})

	StockRestored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autopartzone_stock_restorations_total",
		Help: "Stock restorations from cancellations and refunds",
	})
)
