package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tms-settlements/internal/domain"
	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
)

// ErrInsufficientData el conductor no tiene cargas liquidables en el periodo.
var ErrInsufficientData = errors.New("insufficient data")

// LoadPayBuilder implementación por defecto de SettlementBuilder: suma el pago de las
// cargas completadas (entregadas, facturadas o pagadas) del periodo y persiste la
// liquidación con sus cargas en una sola transacción. Paga siempre el conjunto manual;
// la política de la corrida solo decide qué conductores entran.
type LoadPayBuilder struct {
	drivers repository.DriverRepository
	tx      SettlementTxRunner
	clock   func() time.Time
}

var _ SettlementBuilder = (*LoadPayBuilder)(nil)

// NewLoadPayBuilder construye el builder.
func NewLoadPayBuilder(drivers repository.DriverRepository, tx SettlementTxRunner) *LoadPayBuilder {
	return &LoadPayBuilder{drivers: drivers, tx: tx, clock: time.Now}
}

// Build calcula y persiste la liquidación.
func (b *LoadPayBuilder) Build(ctx context.Context, driverID string, periodStart, periodEnd time.Time) (*entity.Settlement, error) {
	driver, err := b.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("obtener conductor: %w", err)
	}
	if driver == nil {
		return nil, domain.ErrNotFound
	}

	var out *entity.Settlement
	err = b.tx.RunSettlement(ctx, func(loadRepo repository.LoadRepository, settlementRepo repository.SettlementRepository) error {
		loads, err := loadRepo.ListCompleted(ctx, repository.LoadFilter{
			DriverID:      driverID,
			Statuses:      PolicyManual.LoadStatuses,
			DeliveredFrom: periodStart,
			DeliveredTo:   periodEnd,
		})
		if err != nil {
			return fmt.Errorf("listar cargas: %w", err)
		}
		if len(loads) == 0 {
			return ErrInsufficientData
		}

		gross := decimal.Zero
		loadIDs := make([]string, 0, len(loads))
		for _, l := range loads {
			gross = gross.Add(LoadPay(driver, l))
			loadIDs = append(loadIDs, l.ID)
		}
		deductions := decimal.Zero

		now := b.clock()
		id := uuid.New().String()
		s := &entity.Settlement{
			ID:               id,
			CompanyID:        driver.CompanyID,
			DriverID:         driver.ID,
			SettlementNumber: settlementNumber(driver, periodEnd, id),
			PeriodStart:      periodStart,
			PeriodEnd:        periodEnd,
			GrossPay:         gross.Round(2),
			Deductions:       deductions,
			NetPay:           gross.Sub(deductions).Round(2),
			Status:           entity.SettlementStatusPending,
			LoadIDs:          loadIDs,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := settlementRepo.Create(ctx, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadPay pago del conductor por una carga. DriverPay explícito tiene prioridad;
// si no, se deriva de la tarifa del conductor.
func LoadPay(d *entity.Driver, l *entity.Load) decimal.Decimal {
	if l.DriverPay.IsPositive() {
		return l.DriverPay
	}
	switch d.PayType {
	case entity.PayTypePerMile:
		return d.PayRate.Mul(l.TotalMiles).Round(2)
	case entity.PayTypePercentage:
		return l.Revenue.Mul(d.PayRate).Div(decimal.NewFromInt(100)).Round(2)
	case entity.PayTypePerLoad:
		return d.PayRate
	default:
		return decimal.Zero
	}
}

// settlementNumber STL-<fin de periodo>-<conductor>-<ID completo en hex>. El número de
// conductor solo es único por empresa; el ID de la liquidación hace único el número global.
func settlementNumber(d *entity.Driver, periodEnd time.Time, id string) string {
	who := d.DriverNumber
	if who == "" {
		who = d.ID[:min(8, len(d.ID))]
	}
	suffix := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	return fmt.Sprintf("STL-%s-%s-%s", periodEnd.Format("20060102"), who, suffix)
}
