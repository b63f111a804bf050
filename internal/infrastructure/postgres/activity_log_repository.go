package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo auditoría sobre la tabla activity_logs.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador.
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Create persiste una entrada. company_id y user_id son opcionales (corridas de sistema).
func (r *ActivityLogRepo) Create(ctx context.Context, l *entity.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (id, company_id, user_id, action, entity_type, entity_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8)`
	_, err := r.q.Exec(ctx, query,
		l.ID, nullIfEmpty(l.CompanyID), nullIfEmpty(l.UserID), l.Action, l.EntityType, l.EntityID,
		string(l.Metadata), l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// ListByAction entradas de una acción, más recientes primero.
func (r *ActivityLogRepo) ListByAction(ctx context.Context, action string, limit, offset int) ([]*entity.ActivityLog, error) {
	query := `
		SELECT id, COALESCE(company_id::text, ''), COALESCE(user_id::text, ''), action, entity_type, entity_id,
		       COALESCE(metadata::text, '{}'), created_at
		  FROM activity_logs
		 WHERE action = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, action, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.ActivityLog
	for rows.Next() {
		var l entity.ActivityLog
		var meta string
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.UserID, &l.Action, &l.EntityType, &l.EntityID, &meta, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		l.Metadata = []byte(meta)
		list = append(list, &l)
	}
	return list, rows.Err()
}
