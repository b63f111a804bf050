package notification

import (
	"context"

	"github.com/jhoicas/tms-settlements/internal/domain"
	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
)

// UseCase bandeja de notificaciones del usuario autenticado.
type UseCase struct {
	repo repository.NotificationRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.NotificationRepository) *UseCase {
	return &UseCase{repo: repo}
}

// List notificaciones del usuario, más recientes primero.
func (uc *UseCase) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.repo.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

// MarkRead marca como leída una notificación propia.
func (uc *UseCase) MarkRead(ctx context.Context, userID, id string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.repo.MarkRead(ctx, userID, id)
}
