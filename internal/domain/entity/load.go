package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una carga.
const (
	LoadStatusPending   = "PENDING"
	LoadStatusAssigned  = "ASSIGNED"
	LoadStatusInTransit = "IN_TRANSIT"
	LoadStatusDelivered = "DELIVERED"
	LoadStatusInvoiced  = "INVOICED"
	LoadStatusPaid      = "PAID"
	LoadStatusCancelled = "CANCELLED"
)

// Load movimiento de carga asignado a un conductor.
type Load struct {
	ID           string
	CompanyID    string
	DriverID     string
	LoadNumber   string
	Status       string
	PickupCity   string
	DeliveryCity string
	DeliveredAt  *time.Time
	Revenue      decimal.Decimal
	DriverPay    decimal.Decimal
	TotalMiles   decimal.Decimal
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
