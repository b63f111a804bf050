package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
)

// SettlementListFilter filtros del listado por empresa.
type SettlementListFilter struct {
	CompanyID string
	DriverID  string
	From      *time.Time // PeriodStart >= From
	To        *time.Time // PeriodEnd <= To
	Limit     int
	Offset    int
}

// SettlementRepository define el puerto de persistencia para Settlement.
type SettlementRepository interface {
	// Create inserta la liquidación y sus cargas. domain.ErrDuplicate si ya existe
	// una para (driver_id, period_start, period_end).
	Create(ctx context.Context, s *entity.Settlement) error
	// ExistsForPeriod igualdad estricta sobre los límites del periodo.
	ExistsForPeriod(ctx context.Context, driverID string, start, end time.Time) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.Settlement, error)
	List(ctx context.Context, f SettlementListFilter) ([]*entity.Settlement, int, error)
}
