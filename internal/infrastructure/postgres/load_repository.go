package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
)

var _ repository.LoadRepository = (*LoadRepo)(nil)

const loadSelect = `
	SELECT id, company_id, driver_id::text, load_number, status,
	       COALESCE(pickup_city, ''), COALESCE(delivery_city, ''), delivered_at,
	       revenue, driver_pay, total_miles, deleted_at, created_at, updated_at
	  FROM loads`

// Cargas completadas: estado en la política, entregadas dentro del periodo (ambos extremos inclusivos).
const completedWhere = `
	 WHERE driver_id = $1
	   AND deleted_at IS NULL
	   AND status = ANY($2)
	   AND delivered_at >= $3
	   AND delivered_at <= $4`

// LoadRepo implementación de LoadRepository (usable con pool o tx).
type LoadRepo struct {
	q Querier
}

// NewLoadRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLoadRepository(q Querier) *LoadRepo {
	return &LoadRepo{q: q}
}

// CountCompleted cuenta las cargas completadas del conductor en el periodo.
func (r *LoadRepo) CountCompleted(ctx context.Context, f repository.LoadFilter) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM loads`+completedWhere,
		f.DriverID, f.Statuses, f.DeliveredFrom, f.DeliveredTo,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed loads: %w", err)
	}
	return n, nil
}

// ListCompleted cargas completadas del conductor en el periodo, por fecha de entrega.
func (r *LoadRepo) ListCompleted(ctx context.Context, f repository.LoadFilter) ([]*entity.Load, error) {
	rows, err := r.q.Query(ctx, loadSelect+completedWhere+` ORDER BY delivered_at, id`,
		f.DriverID, f.Statuses, f.DeliveredFrom, f.DeliveredTo,
	)
	if err != nil {
		return nil, fmt.Errorf("list completed loads: %w", err)
	}
	return collectLoads(rows)
}

// ListByIDs cargas por ID (para el estado de cuenta de una liquidación).
func (r *LoadRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Load, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, loadSelect+` WHERE id = ANY($1::uuid[]) ORDER BY delivered_at, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list loads by id: %w", err)
	}
	return collectLoads(rows)
}

func collectLoads(rows pgx.Rows) ([]*entity.Load, error) {
	defer rows.Close()
	var list []*entity.Load
	for rows.Next() {
		var l entity.Load
		if err := rows.Scan(
			&l.ID, &l.CompanyID, &l.DriverID, &l.LoadNumber, &l.Status,
			&l.PickupCity, &l.DeliveryCity, &l.DeliveredAt,
			&l.Revenue, &l.DriverPay, &l.TotalMiles, &l.DeletedAt, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan load: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
