package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una liquidación.
const (
	SettlementStatusPending  = "PENDING"
	SettlementStatusApproved = "APPROVED"
	SettlementStatusPaid     = "PAID"
)

// Settlement estado de pago de un conductor para un periodo.
// (DriverID, PeriodStart, PeriodEnd) es único.
type Settlement struct {
	ID               string
	CompanyID        string
	DriverID         string
	SettlementNumber string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	GrossPay         decimal.Decimal
	Deductions       decimal.Decimal
	NetPay           decimal.Decimal
	Status           string
	LoadIDs          []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SettlementLine carga incluida en una liquidación (para el estado de cuenta).
type SettlementLine struct {
	LoadID       string
	LoadNumber   string
	PickupCity   string
	DeliveryCity string
	DeliveredAt  *time.Time
	Miles        decimal.Decimal
	Pay          decimal.Decimal
}
