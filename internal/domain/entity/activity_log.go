package entity

import (
	"encoding/json"
	"time"
)

// Acciones auditadas.
const (
	ActionSettlementGenerationRun = "SETTLEMENT_GENERATION_RUN"
	EntityTypeSystem              = "SYSTEM"
)

// ActivityLog entrada de auditoría. CompanyID/UserID vacíos = acción de sistema.
type ActivityLog struct {
	ID         string
	CompanyID  string
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Metadata   json.RawMessage
	CreatedAt  time.Time
}
