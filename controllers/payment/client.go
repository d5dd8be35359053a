package paymentControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aam-bd/autopartzone-api/apperrors"
)

// ProcessorClient talks to the external payment processor over its JSON API.
type ProcessorClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewProcessorClient(baseURL, apiKey string) *ProcessorClient {
	return &ProcessorClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"` // created, succeeded, failed
	CardLast4    string `json:"card_last4,omitempty"`
	Error        *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type Refund struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Amount float64 `json:"amount"`
}

// CreateIntent requests a payment intent for the given amount.
func (p *ProcessorClient) CreateIntent(amount float64, currency string, metadata map[string]string) (*Intent, error) {
	payload := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"metadata": metadata,
	}
	var intent Intent
	if err := p.do("POST", "/v1/intents", payload, &intent); err != nil {
		return nil, err
	}
	if intent.Error != nil {
		return nil, apperrors.External(fmt.Errorf("processor error: %s", intent.Error.Message))
	}
	if intent.ID == "" {
		return nil, apperrors.External(fmt.Errorf("processor returned empty intent id"))
	}
	return &intent, nil
}

// GetIntent fetches the processor's current view of an intent.
func (p *ProcessorClient) GetIntent(ref string) (*Intent, error) {
	var intent Intent
	if err := p.do("GET", "/v1/intents/"+ref, nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CreateRefund asks the processor to refund an intent, fully or partially.
func (p *ProcessorClient) CreateRefund(intentRef string, amount float64, reason string) (*Refund, error) {
	payload := map[string]interface{}{
		"intent_id": intentRef,
		"amount":    amount,
		"reason":    reason,
	}
	var refund Refund
	if err := p.do("POST", "/v1/refunds", payload, &refund); err != nil {
		return nil, err
	}
	if refund.ID == "" {
		return nil, apperrors.External(fmt.Errorf("processor returned empty refund id"))
	}
	return &refund, nil
}

func (p *ProcessorClient) do(method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, p.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.HTTP.Do(req)
	if err != nil {
		return apperrors.External(fmt.Errorf("failed to reach payment processor: %w", err))
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.External(fmt.Errorf("processor API error (%d): %s", resp.StatusCode, string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.External(fmt.Errorf("failed to parse processor response: %w", err))
	}
	return nil
}
