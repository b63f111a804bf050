package settlement

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
	"github.com/jhoicas/tms-settlements/pkg/logger"
)

// runAudit metadata persistida en activity_logs para cada corrida.
type runAudit struct {
	*Result
	Policy      string `json:"policy"`
	CompanyID   string `json:"companyId,omitempty"`
	RequestedBy string `json:"requestedBy,omitempty"`
}

// ExecutionLog escribe una entrada de auditoría por corrida.
type ExecutionLog struct {
	repo repository.ActivityLogRepository
	log  *logger.Logger
}

// NewExecutionLog construye el registro de ejecuciones.
func NewExecutionLog(repo repository.ActivityLogRepository, log *logger.Logger) *ExecutionLog {
	return &ExecutionLog{repo: repo, log: log}
}

// Record persiste el resumen de la corrida. Un fallo se registra en log y no afecta el resultado.
func (e *ExecutionLog) Record(ctx context.Context, res *Result, in RunInput) {
	if e == nil || e.repo == nil {
		return
	}
	meta, err := json.Marshal(runAudit{
		Result:      res,
		Policy:      in.Policy.Name,
		CompanyID:   in.CompanyID,
		RequestedBy: in.RequestedBy,
	})
	if err != nil {
		e.log.Error().Err(err).Str("run_id", res.RunID).Msg("serializar auditoría de corrida")
		return
	}
	entry := &entity.ActivityLog{
		ID:         uuid.New().String(),
		CompanyID:  in.CompanyID,
		UserID:     in.RequestedBy,
		Action:     entity.ActionSettlementGenerationRun,
		EntityType: entity.EntityTypeSystem,
		EntityID:   res.RunID,
		Metadata:   meta,
		CreatedAt:  res.EndTime,
	}
	if err := e.repo.Create(ctx, entry); err != nil {
		e.log.Error().Err(err).Str("run_id", res.RunID).Msg("no se pudo registrar la auditoría de la corrida")
	}
}

// History corridas registradas, más recientes primero.
func (e *ExecutionLog) History(ctx context.Context, limit, offset int) ([]*entity.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return e.repo.ListByAction(ctx, entity.ActionSettlementGenerationRun, limit, offset)
}
