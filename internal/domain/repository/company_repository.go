package repository

import (
	"context"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// ListActive devuelve las empresas con status = active, ordenadas por nombre.
	ListActive(ctx context.Context) ([]*entity.Company, error)
}
