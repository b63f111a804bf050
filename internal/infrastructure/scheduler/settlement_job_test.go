package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tms-settlements/internal/application/settlement"
	"github.com/jhoicas/tms-settlements/pkg/logger"
)

type countingRunner struct {
	calls       atomic.Int32
	hadDeadline atomic.Bool
}

func (r *countingRunner) RunScheduled(ctx context.Context) *settlement.Result {
	r.calls.Add(1)
	_, ok := ctx.Deadline()
	r.hadDeadline.Store(ok)
	return &settlement.Result{RunID: "r1", Success: true}
}

func TestSettlementJob_InvalidSpec(t *testing.T) {
	j := NewSettlementJob(&countingRunner{}, "not a cron", time.UTC, 0, logger.Nop())
	assert.Error(t, j.Start())
}

func TestSettlementJob_RunAppliesTimeout(t *testing.T) {
	r := &countingRunner{}
	j := NewSettlementJob(r, "0 2 * * 1", time.UTC, time.Minute, logger.Nop())

	j.run()

	assert.EqualValues(t, 1, r.calls.Load())
	assert.True(t, r.hadDeadline.Load())
}

func TestSettlementJob_StartStop(t *testing.T) {
	r := &countingRunner{}
	j := NewSettlementJob(r, "0 2 * * 1", time.UTC, 0, logger.Nop())
	require.NoError(t, j.Start())

	entries := j.cron.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, time.Monday, entries[0].Next.Weekday())
	assert.Equal(t, 2, entries[0].Next.Hour())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	j.Stop(ctx)
	assert.EqualValues(t, 0, r.calls.Load())
}
