// Package audit appends best-effort audit records. A failed write must never
// block or roll back the operation being audited, so errors are logged and
// swallowed.
package audit

import (
	"gorm.io/gorm"

	"github.com/aam-bd/autopartzone-api/models"
	"github.com/aam-bd/autopartzone-api/pkg/logger"
)

func Record(db *gorm.DB, actorID, action, resource, resourceID, details string, success bool) {
	entry := models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		Success:    success,
	}
	if err := db.Create(&entry).Error; err != nil {
		logger.Error().
			Err(err).
			Str("action", action).
			Str("resource_id", resourceID).
			Msg("failed to write audit record")
	}
}
