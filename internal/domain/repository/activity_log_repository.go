package repository

import (
	"context"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
)

// ActivityLogRepository define el puerto de persistencia para la auditoría.
type ActivityLogRepository interface {
	Create(ctx context.Context, l *entity.ActivityLog) error
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*entity.ActivityLog, error)
}
