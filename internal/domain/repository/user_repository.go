package repository

import (
	"context"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ListByCompanyAndRoles usuarios de la empresa con alguno de los roles.
	ListByCompanyAndRoles(ctx context.Context, companyID string, roles []entity.Role) ([]*entity.User, error)
}
