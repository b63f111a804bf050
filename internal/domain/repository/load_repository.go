package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
)

// LoadFilter criterio de cargas completadas de un conductor en un periodo.
// DeliveredFrom/DeliveredTo son inclusivos; las cargas borradas se excluyen siempre.
type LoadFilter struct {
	DriverID      string
	Statuses      []string
	DeliveredFrom time.Time
	DeliveredTo   time.Time
}

// LoadRepository define el puerto de persistencia (lectura) para Load.
type LoadRepository interface {
	CountCompleted(ctx context.Context, f LoadFilter) (int, error)
	ListCompleted(ctx context.Context, f LoadFilter) ([]*entity.Load, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Load, error)
}
