package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateSettlementsRequest disparo manual. Sin periodo = semana anterior.
// CompanyID solo lo respeta un ADMIN; el resto queda limitado a su empresa.
type GenerateSettlementsRequest struct {
	CompanyID   string     `json:"companyId" validate:"omitempty,uuid"`
	PeriodStart *time.Time `json:"periodStart" validate:"required_with=PeriodEnd"`
	PeriodEnd   *time.Time `json:"periodEnd" validate:"required_with=PeriodStart"`
}

// RunErrorResponse error de una corrida.
type RunErrorResponse struct {
	CompanyID string `json:"companyId"`
	DriverID  string `json:"driverId,omitempty"`
	Error     string `json:"error"`
}

// GenerateSettlementsResponse resumen para el operador.
type GenerateSettlementsResponse struct {
	RunID                string             `json:"runId"`
	Success              bool               `json:"success"`
	TotalCompanies       int                `json:"totalCompanies"`
	TotalDrivers         int                `json:"totalDrivers"`
	SettlementsGenerated int                `json:"settlementsGenerated"`
	SkippedExisting      int                `json:"skippedExisting"`
	ErrorCount           int                `json:"errorCount"`
	Errors               []RunErrorResponse `json:"errors"`
	PeriodStart          time.Time          `json:"periodStart"`
	PeriodEnd            time.Time          `json:"periodEnd"`
	StartTime            time.Time          `json:"startTime"`
	EndTime              time.Time          `json:"endTime"`
	DurationMs           int64              `json:"durationMs"`
}

// SettlementResponse salida de una liquidación.
type SettlementResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"companyId"`
	DriverID         string          `json:"driverId"`
	SettlementNumber string          `json:"settlementNumber"`
	PeriodStart      time.Time       `json:"periodStart"`
	PeriodEnd        time.Time       `json:"periodEnd"`
	GrossPay         decimal.Decimal `json:"grossPay"`
	Deductions       decimal.Decimal `json:"deductions"`
	NetPay           decimal.Decimal `json:"netPay"`
	Status           string          `json:"status"`
	LoadIDs          []string        `json:"loadIds"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// SettlementListResponse lista paginada de liquidaciones.
type SettlementListResponse struct {
	Items []SettlementResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// EligibleDriverResponse conductor que entraría en la próxima corrida.
type EligibleDriverResponse struct {
	ID           string `json:"id"`
	DriverNumber string `json:"driverNumber"`
	Name         string `json:"name"`
	Status       string `json:"status"`
}
