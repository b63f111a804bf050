package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/tms-settlements/internal/domain"
	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
)

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

// uqSettlementDriverPeriod única clave que significa "ya liquidado" (ver migración 000001).
const uqSettlementDriverPeriod = "uq_settlements_driver_period"

const settlementSelect = `
	SELECT s.id, s.company_id, s.driver_id, s.settlement_number, s.period_start, s.period_end,
	       s.gross_pay, s.deductions, s.net_pay, s.status, s.created_at, s.updated_at,
	       COALESCE((SELECT array_agg(sl.load_id::text ORDER BY sl.load_id)
	                   FROM settlement_loads sl WHERE sl.settlement_id = s.id), '{}')`

// SettlementRepo implementación de SettlementRepository (usable con pool o tx).
type SettlementRepo struct {
	q Querier
}

// NewSettlementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettlementRepository(q Querier) *SettlementRepo {
	return &SettlementRepo{q: q}
}

// Create persiste la cabecera y la relación con sus cargas. Debe ejecutarse dentro de
// una tx para que ambas escrituras sean atómicas.
func (r *SettlementRepo) Create(ctx context.Context, s *entity.Settlement) error {
	query := `
		INSERT INTO settlements (id, company_id, driver_id, settlement_number, period_start, period_end,
		                         gross_pay, deductions, net_pay, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.DriverID, s.SettlementNumber, s.PeriodStart, s.PeriodEnd,
		s.GrossPay, s.Deductions, s.NetPay, s.Status, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolationOn(err, uqSettlementDriverPeriod) {
			return fmt.Errorf("%w: settlement for driver %s and period", domain.ErrDuplicate, s.DriverID)
		}
		return fmt.Errorf("insert settlement: %w", err)
	}
	if len(s.LoadIDs) == 0 {
		return nil
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO settlement_loads (settlement_id, load_id)
		SELECT $1, unnest($2::uuid[])`, s.ID, s.LoadIDs)
	if err != nil {
		return fmt.Errorf("insert settlement loads: %w", err)
	}
	return nil
}

// ExistsForPeriod igualdad estricta sobre (driver, period_start, period_end).
func (r *SettlementRepo) ExistsForPeriod(ctx context.Context, driverID string, start, end time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM settlements
			 WHERE driver_id    = $1
			   AND period_start = $2
			   AND period_end   = $3
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, driverID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("check settlement exists: %w", err)
	}
	return exists, nil
}

// GetByID obtiene una liquidación con sus cargas. (nil, nil) si no existe.
func (r *SettlementRepo) GetByID(ctx context.Context, id string) (*entity.Settlement, error) {
	var s entity.Settlement
	err := r.q.QueryRow(ctx, settlementSelect+` FROM settlements s WHERE s.id = $1`, id).Scan(settlementDest(&s)...)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settlement: %w", err)
	}
	return &s, nil
}

// List liquidaciones de una empresa con filtros opcionales, más recientes primero.
// Devuelve también el total sin paginar.
func (r *SettlementRepo) List(ctx context.Context, f repository.SettlementListFilter) ([]*entity.Settlement, int, error) {
	where := []string{"s.company_id = $1"}
	args := []any{f.CompanyID}
	if f.DriverID != "" {
		args = append(args, f.DriverID)
		where = append(where, fmt.Sprintf("s.driver_id = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("s.period_start >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("s.period_end <= $%d", len(args)))
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM settlements s`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count settlements: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := settlementSelect + ` FROM settlements s` + cond +
		fmt.Sprintf(" ORDER BY s.period_end DESC, s.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Settlement
	for rows.Next() {
		var s entity.Settlement
		if err := rows.Scan(settlementDest(&s)...); err != nil {
			return nil, 0, fmt.Errorf("scan settlement: %w", err)
		}
		list = append(list, &s)
	}
	return list, total, rows.Err()
}

func settlementDest(s *entity.Settlement) []any {
	return []any{
		&s.ID, &s.CompanyID, &s.DriverID, &s.SettlementNumber, &s.PeriodStart, &s.PeriodEnd,
		&s.GrossPay, &s.Deductions, &s.NetPay, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		&s.LoadIDs,
	}
}
