package repository

import (
	"context"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
)

// DriverRepository define el puerto de persistencia para Driver.
type DriverRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Driver, error)
	// ListActiveByCompany conductores no borrados de la empresa cuyo estado está en statuses.
	ListActiveByCompany(ctx context.Context, companyID string, statuses []string) ([]*entity.Driver, error)
}
