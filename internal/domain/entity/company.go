package entity

import "time"

// Estados de Company.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
	CompanyStatusInactive  = "inactive"
)

// Company representa un transportista/tenant del sistema (multi-tenant).
type Company struct {
	ID        string
	Name      string
	DOTNumber string // USDOT
	MCNumber  string // Motor Carrier number
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive indica si la empresa participa en procesos programados.
func (c *Company) IsActive() bool {
	return c != nil && c.Status == CompanyStatusActive
}
