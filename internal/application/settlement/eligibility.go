package settlement

import (
	"context"
	"fmt"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
	domainsettlement "github.com/jhoicas/tms-settlements/internal/domain/settlement"
	"github.com/jhoicas/tms-settlements/pkg/logger"
)

// EligibilityPolicy conjunto de estados de carga que cuentan como "completada".
type EligibilityPolicy struct {
	Name         string
	LoadStatuses []string
}

var (
	// PolicyScheduled corrida programada: solo cargas entregadas.
	PolicyScheduled = EligibilityPolicy{
		Name:         "scheduled",
		LoadStatuses: []string{entity.LoadStatusDelivered},
	}
	// PolicyManual disparo manual: entregadas, facturadas o pagadas.
	PolicyManual = EligibilityPolicy{
		Name:         "manual",
		LoadStatuses: []string{entity.LoadStatusDelivered, entity.LoadStatusInvoiced, entity.LoadStatusPaid},
	}
)

// EligibilityFilter decide qué conductores de una empresa se liquidan en un periodo. Solo lectura.
type EligibilityFilter struct {
	drivers repository.DriverRepository
	loads   repository.LoadRepository
	log     *logger.Logger
}

// NewEligibilityFilter construye el filtro.
func NewEligibilityFilter(drivers repository.DriverRepository, loads repository.LoadRepository, log *logger.Logger) *EligibilityFilter {
	return &EligibilityFilter{drivers: drivers, loads: loads, log: log}
}

// Candidates conductores activos y no borrados de la empresa.
func (f *EligibilityFilter) Candidates(ctx context.Context, companyID string) ([]*entity.Driver, error) {
	list, err := f.drivers.ListActiveByCompany(ctx, companyID, entity.ActiveDriverStatuses)
	if err != nil {
		return nil, fmt.Errorf("listar conductores activos: %w", err)
	}
	return list, nil
}

// QualifyingLoads cuenta las cargas del conductor con estado en la política y entregadas dentro del periodo.
func (f *EligibilityFilter) QualifyingLoads(ctx context.Context, driverID string, p domainsettlement.Period, policy EligibilityPolicy) (int, error) {
	n, err := f.loads.CountCompleted(ctx, repository.LoadFilter{
		DriverID:      driverID,
		Statuses:      policy.LoadStatuses,
		DeliveredFrom: p.Start,
		DeliveredTo:   p.End,
	})
	if err != nil {
		return 0, fmt.Errorf("contar cargas completadas: %w", err)
	}
	return n, nil
}

// EligibleDrivers conductores de la empresa con al menos una carga completada en el periodo.
// Los conductores sin cargas se omiten (no es error).
func (f *EligibilityFilter) EligibleDrivers(ctx context.Context, companyID string, p domainsettlement.Period, policy EligibilityPolicy) ([]*entity.Driver, error) {
	candidates, err := f.Candidates(ctx, companyID)
	if err != nil {
		return nil, err
	}
	eligible := make([]*entity.Driver, 0, len(candidates))
	for _, d := range candidates {
		n, err := f.QualifyingLoads(ctx, d.ID, p, policy)
		if err != nil {
			return nil, fmt.Errorf("conductor %s: %w", d.ID, err)
		}
		if n == 0 {
			f.log.Debug().Str("driver_id", d.ID).Str("period", p.String()).Msg("conductor sin cargas completadas, se omite")
			continue
		}
		eligible = append(eligible, d)
	}
	return eligible, nil
}
