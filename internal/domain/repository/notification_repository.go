package repository

import (
	"context"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia para Notification.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error)
	// MarkRead devuelve domain.ErrNotFound si la notificación no es del usuario.
	MarkRead(ctx context.Context, userID, id string) error
}
