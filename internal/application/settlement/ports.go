package settlement

import (
	"context"
	"time"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
)

// SettlementBuilder calcula y persiste la liquidación de un conductor para un periodo.
// Debe devolver una liquidación con ID y número, o un error atribuible a ese conductor.
// domain.ErrDuplicate indica que otra corrida ya la creó (violación de unicidad).
type SettlementBuilder interface {
	Build(ctx context.Context, driverID string, periodStart, periodEnd time.Time) (*entity.Settlement, error)
}

// Notifier avisa la creación de una liquidación. Best-effort: nunca devuelve error.
type Notifier interface {
	SettlementGenerated(ctx context.Context, companyID string, driver *entity.Driver, s *entity.Settlement)
}

// RunLocker serializa corridas entre procesos. TryLock devuelve domain.ErrLockNotAcquired
// si otra corrida tiene el lock; release libera solo si el lock sigue siendo propio.
type RunLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// SettlementTxRunner ejecuta fn dentro de una transacción con repos atados a ella.
type SettlementTxRunner interface {
	RunSettlement(ctx context.Context, fn func(
		loadRepo repository.LoadRepository,
		settlementRepo repository.SettlementRepository,
	) error) error
}

// StatementPDFGenerator genera el estado de cuenta (PDF) de una liquidación.
type StatementPDFGenerator interface {
	GenerateStatementPDF(
		ctx context.Context,
		s *entity.Settlement,
		company *entity.Company,
		driver *entity.Driver,
		lines []entity.SettlementLine,
	) ([]byte, error)
}
