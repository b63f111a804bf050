package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de disponibilidad del conductor.
const (
	DriverStatusAvailable  = "AVAILABLE"
	DriverStatusOnDuty     = "ON_DUTY"
	DriverStatusDriving    = "DRIVING"
	DriverStatusOffDuty    = "OFF_DUTY"
	DriverStatusOnLeave    = "ON_LEAVE"
	DriverStatusInactive   = "INACTIVE"
	DriverStatusTerminated = "TERMINATED"
)

// ActiveDriverStatuses estados que cuentan como conductor activo para liquidar.
var ActiveDriverStatuses = []string{
	DriverStatusAvailable,
	DriverStatusOnDuty,
	DriverStatusDriving,
	DriverStatusOffDuty,
}

// Tipos de pago.
const (
	PayTypePerMile    = "PER_MILE"
	PayTypePercentage = "PERCENTAGE"
	PayTypePerLoad    = "PER_LOAD"
)

// Driver operador contratado por una Company. El nombre vive en el User vinculado.
type Driver struct {
	ID           string
	CompanyID    string
	UserID       string
	DriverNumber string
	Status       string
	PayType      string
	PayRate      decimal.Decimal
	FirstName    string // desde users (solo lectura)
	LastName     string // desde users (solo lectura)
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive true si el estado está en ActiveDriverStatuses y no está borrado.
func (d *Driver) IsActive() bool {
	if d == nil || d.DeletedAt != nil {
		return false
	}
	for _, s := range ActiveDriverStatuses {
		if d.Status == s {
			return true
		}
	}
	return false
}

// FullName "Nombre Apellido" o el número de conductor si no hay nombre.
func (d *Driver) FullName() string {
	switch {
	case d.FirstName != "" && d.LastName != "":
		return d.FirstName + " " + d.LastName
	case d.FirstName != "":
		return d.FirstName
	case d.LastName != "":
		return d.LastName
	default:
		return d.DriverNumber
	}
}
