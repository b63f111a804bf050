// Package scheduler dispara la generación semanal de liquidaciones con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/tms-settlements/internal/application/settlement"
	"github.com/jhoicas/tms-settlements/pkg/logger"
)

// ScheduledRunner lo que el job necesita del servicio de generación.
type ScheduledRunner interface {
	RunScheduled(ctx context.Context) *settlement.Result
}

// SettlementJob registra la corrida programada en un cron. Una corrida que se solapa
// con la anterior se salta y un panic se recupera sin tumbar el proceso.
type SettlementJob struct {
	runner  ScheduledRunner
	cron    *cron.Cron
	spec    string
	timeout time.Duration
	log     *logger.Logger
}

// NewSettlementJob construye el job. spec es una expresión cron de 5 campos evaluada en loc.
func NewSettlementJob(runner ScheduledRunner, spec string, loc *time.Location, timeout time.Duration, log *logger.Logger) *SettlementJob {
	if loc == nil {
		loc = time.UTC
	}
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cl), cron.Recover(cl)),
	)
	return &SettlementJob{runner: runner, cron: c, spec: spec, timeout: timeout, log: log}
}

// Start registra la expresión y arranca el cron en segundo plano.
func (j *SettlementJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.run); err != nil {
		return fmt.Errorf("expresión cron inválida %q: %w", j.spec, err)
	}
	j.cron.Start()
	j.log.Info().Str("cron", j.spec).Msg("job de liquidaciones programado")
	return nil
}

// Stop detiene el cron y espera la corrida en curso hasta que ctx expire.
func (j *SettlementJob) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		j.log.Warn().Msg("cron detenido con una corrida de liquidaciones en curso")
	}
}

func (j *SettlementJob) run() {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}
	res := j.runner.RunScheduled(ctx)
	if !res.Success {
		j.log.Error().Str("run_id", res.RunID).Int("errors", len(res.Errors)).Msg("corrida programada con errores")
	}
}

// cronLogger adapta el logger de la app a cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
