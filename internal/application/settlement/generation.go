package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tms-settlements/internal/domain"
	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
	domainsettlement "github.com/jhoicas/tms-settlements/internal/domain/settlement"
	"github.com/jhoicas/tms-settlements/pkg/logger"
)

// SystemScope companyId usado en errores fatales (fuera del ciclo por empresa).
const SystemScope = "system"

// runLockKey lock global: una sola corrida de generación a la vez.
const runLockKey = "settlement-generation"

// Trigger origen de la corrida.
type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
)

// RunInput parámetros de una corrida. CompanyID vacío = todas las empresas activas;
// sin PeriodStart/PeriodEnd se usa la semana anterior.
type RunInput struct {
	CompanyID   string
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	Policy      EligibilityPolicy
	Trigger     Trigger
	RequestedBy string // user ID en disparos manuales
}

// RunError error acumulado de una corrida. DriverID vacío = error a nivel empresa o sistema.
type RunError struct {
	CompanyID string `json:"companyId"`
	DriverID  string `json:"driverId,omitempty"`
	Error     string `json:"error"`
}

// Result resumen de una corrida; también es el contenido de la auditoría.
type Result struct {
	RunID                string     `json:"runId"`
	Trigger              Trigger    `json:"trigger"`
	Success              bool       `json:"success"`
	TotalCompanies       int        `json:"totalCompanies"`
	TotalDrivers         int        `json:"totalDrivers"`
	SettlementsGenerated int        `json:"settlementsGenerated"`
	SkippedExisting      int        `json:"skippedExisting"`
	Errors               []RunError `json:"errors"`
	PeriodStart          time.Time  `json:"periodStart"`
	PeriodEnd            time.Time  `json:"periodEnd"`
	StartTime            time.Time  `json:"startTime"`
	EndTime              time.Time  `json:"endTime"`
	DurationMs           int64      `json:"durationMs"`
}

func (r *Result) addError(companyID, driverID string, err error) {
	r.Errors = append(r.Errors, RunError{CompanyID: companyID, DriverID: driverID, Error: err.Error()})
}

// Deps dependencias del servicio de generación.
type Deps struct {
	Companies   repository.CompanyRepository
	Settlements repository.SettlementRepository
	Filter      *EligibilityFilter
	Builder     SettlementBuilder
	Notifier    Notifier
	Audit       *ExecutionLog
	Locker      RunLocker // nil = sin lock de corrida
	LockTTL     time.Duration
	Location    *time.Location // zona del periodo por defecto; nil = UTC
	Clock       func() time.Time
	Log         *logger.Logger
}

// Service genera liquidaciones por periodo: empresas -> conductores elegibles ->
// guarda de idempotencia -> builder -> avisos. Secuencial; los errores se acumulan
// en el Result en el alcance más estrecho posible.
type Service struct {
	deps Deps
}

// NewService construye el servicio aplicando valores por defecto.
func NewService(deps Deps) *Service {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.LockTTL <= 0 {
		deps.LockTTL = 30 * time.Minute
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &Service{deps: deps}
}

// RunScheduled entrada programada: todas las empresas activas, semana anterior, solo cargas entregadas.
func (s *Service) RunScheduled(ctx context.Context) *Result {
	return s.Run(ctx, RunInput{Policy: PolicyScheduled, Trigger: TriggerScheduled})
}

// RunManual entrada manual (acción administrativa). Valida el periodo antes de correr:
// un periodo incompleto o invertido devuelve domain.ErrInvalidInput sin ejecutar nada.
func (s *Service) RunManual(ctx context.Context, companyID string, start, end *time.Time, requestedBy string) (*Result, error) {
	if _, err := domainsettlement.ResolvePeriod(start, end, s.now()); err != nil {
		return nil, err
	}
	return s.Run(ctx, RunInput{
		CompanyID:   companyID,
		PeriodStart: start,
		PeriodEnd:   end,
		Policy:      PolicyManual,
		Trigger:     TriggerManual,
		RequestedBy: requestedBy,
	}), nil
}

// Preview conductores de la empresa que una corrida manual liquidaría en el periodo.
// Solo lectura: no toma el lock ni verifica liquidaciones existentes.
func (s *Service) Preview(ctx context.Context, companyID string, start, end *time.Time) ([]*entity.Driver, domainsettlement.Period, error) {
	period, err := domainsettlement.ResolvePeriod(start, end, s.now())
	if err != nil {
		return nil, domainsettlement.Period{}, err
	}
	drivers, err := s.deps.Filter.EligibleDrivers(ctx, companyID, period, PolicyManual)
	if err != nil {
		return nil, period, err
	}
	return drivers, period, nil
}

// Run ejecuta una corrida completa. Nunca devuelve error: el llamador inspecciona
// Result.Success y Result.Errors.
func (s *Service) Run(ctx context.Context, in RunInput) *Result {
	startTime := s.deps.Clock()
	res := &Result{
		RunID:     uuid.New().String(),
		Trigger:   in.Trigger,
		Errors:    []RunError{},
		StartTime: startTime,
	}
	log := s.deps.Log.With().Str("run_id", res.RunID).Str("trigger", string(in.Trigger)).Logger()

	period, err := domainsettlement.ResolvePeriod(in.PeriodStart, in.PeriodEnd, s.now())
	if err != nil {
		return s.fatal(res, log, err)
	}
	res.PeriodStart, res.PeriodEnd = period.Start, period.End
	if len(in.Policy.LoadStatuses) == 0 {
		in.Policy = PolicyScheduled
	}
	log = log.With().Str("period", period.String()).Str("policy", in.Policy.Name).Logger()

	if s.deps.Locker != nil {
		release, err := s.deps.Locker.TryLock(ctx, runLockKey, s.deps.LockTTL)
		switch {
		case errors.Is(err, domain.ErrLockNotAcquired):
			return s.fatal(res, log, err)
		case err != nil:
			// La unicidad (driver, periodo) en la DB sigue protegiendo contra duplicados.
			log.Warn().Err(err).Msg("lock de corrida no disponible, se continúa sin lock")
		default:
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					log.Warn().Err(err).Msg("liberar lock de corrida")
				}
			}()
		}
	}

	companies, err := s.companies(ctx, in.CompanyID)
	if err != nil {
		return s.fatal(res, log, err)
	}
	res.TotalCompanies = len(companies)
	log.Info().Int("companies", len(companies)).Msg("iniciando generación de liquidaciones")

	for _, company := range companies {
		s.processCompany(ctx, log, company, period, in.Policy, res)
	}

	s.finish(res)
	if res.TotalCompanies > 0 {
		// La auditoría se escribe aunque el contexto de la corrida haya vencido.
		s.deps.Audit.Record(context.WithoutCancel(ctx), res, in)
	}
	log.Info().
		Bool("success", res.Success).
		Int("drivers", res.TotalDrivers).
		Int("generated", res.SettlementsGenerated).
		Int("skipped_existing", res.SkippedExisting).
		Int("errors", len(res.Errors)).
		Int64("duration_ms", res.DurationMs).
		Msg("generación de liquidaciones finalizada")
	return res
}

// companies empresas a procesar: una concreta (si existe y está activa) o todas las activas.
func (s *Service) companies(ctx context.Context, companyID string) ([]*entity.Company, error) {
	if companyID == "" {
		return s.deps.Companies.ListActive(ctx)
	}
	c, err := s.deps.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive() {
		return nil, nil
	}
	return []*entity.Company{c}, nil
}

func (s *Service) processCompany(ctx context.Context, parent zerolog.Logger, company *entity.Company, p domainsettlement.Period, policy EligibilityPolicy, res *Result) {
	log := parent.With().Str("company_id", company.ID).Logger()

	drivers, err := s.deps.Filter.Candidates(ctx, company.ID)
	if err != nil {
		log.Error().Err(err).Msg("error procesando empresa")
		res.addError(company.ID, "", err)
		return
	}
	res.TotalDrivers += len(drivers)

	for _, d := range drivers {
		if err := ctx.Err(); err != nil {
			res.addError(company.ID, d.ID, err)
			continue
		}
		s.processDriver(ctx, log.With().Str("driver_id", d.ID).Logger(), company, d, p, policy, res)
	}
}

func (s *Service) processDriver(ctx context.Context, log zerolog.Logger, company *entity.Company, d *entity.Driver, p domainsettlement.Period, policy EligibilityPolicy, res *Result) {
	n, err := s.deps.Filter.QualifyingLoads(ctx, d.ID, p, policy)
	if err != nil {
		log.Error().Err(err).Msg("error evaluando elegibilidad")
		res.addError(company.ID, d.ID, err)
		return
	}
	if n == 0 {
		log.Debug().Msg("sin cargas completadas en el periodo, se omite")
		return
	}

	exists, err := s.deps.Settlements.ExistsForPeriod(ctx, d.ID, p.Start, p.End)
	if err != nil {
		log.Error().Err(err).Msg("error verificando liquidación existente")
		res.addError(company.ID, d.ID, err)
		return
	}
	if exists {
		log.Info().Msg("liquidación ya existe para el periodo, se omite")
		res.SkippedExisting++
		return
	}

	st, err := s.deps.Builder.Build(ctx, d.ID, p.Start, p.End)
	if errors.Is(err, domain.ErrDuplicate) {
		log.Info().Msg("liquidación creada por otra corrida, se omite")
		res.SkippedExisting++
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("error generando liquidación")
		res.addError(company.ID, d.ID, err)
		return
	}
	if st == nil || st.ID == "" || st.SettlementNumber == "" {
		err := errors.New("builder devolvió una liquidación incompleta")
		log.Error().Err(err).Msg("error generando liquidación")
		res.addError(company.ID, d.ID, err)
		return
	}

	res.SettlementsGenerated++
	log.Info().
		Str("settlement_id", st.ID).
		Str("settlement_number", st.SettlementNumber).
		Str("net_pay", st.NetPay.StringFixed(2)).
		Int("loads", n).
		Msg("liquidación generada")

	if s.deps.Notifier != nil {
		s.deps.Notifier.SettlementGenerated(ctx, company.ID, d, st)
	}
}

// fatal corta la corrida: cero conteos, un único error de sistema y sin auditoría.
func (s *Service) fatal(res *Result, log zerolog.Logger, err error) *Result {
	log.Error().Err(err).Msg("error fatal en generación de liquidaciones")
	res.TotalCompanies = 0
	res.TotalDrivers = 0
	res.SettlementsGenerated = 0
	res.SkippedExisting = 0
	res.Errors = []RunError{{CompanyID: SystemScope, Error: err.Error()}}
	s.finish(res)
	return res
}

func (s *Service) finish(res *Result) {
	res.EndTime = s.deps.Clock()
	res.DurationMs = res.EndTime.Sub(res.StartTime).Milliseconds()
	res.Success = len(res.Errors) == 0
}

func (s *Service) now() time.Time {
	return s.deps.Clock().In(s.deps.Location)
}
