package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/application/billing"
	"github.com/jhoicas/Cotiza-api/internal/application/jobs"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

type fakeSyncer struct {
	res   billing.SyncResult
	err   error
	calls atomic.Int32
}

func (f *fakeSyncer) SyncRecurring(ctx context.Context) (billing.SyncResult, error) {
	f.calls.Add(1)
	return f.res, f.err
}

var fixedNow = time.Date(2026, time.May, 1, 8, 0, 0, 0, time.UTC)

func TestRun_CombinaResultados(t *testing.T) {
	inv := &fakeSyncer{res: billing.SyncResult{Created: []string{"i1", "i2"}, Exhausted: 0}}
	exp := &fakeSyncer{res: billing.SyncResult{Created: []string{"e1"}, Exhausted: 1}}
	svc := jobs.NewRecurringSyncService(inv, exp, logger.Nop()).WithClock(func() time.Time { return fixedNow })

	out, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"i1", "i2"}, out.InvoicesCreated)
	assert.Equal(t, []string{"e1"}, out.ExpensesCreated)
	assert.Equal(t, 1, out.TemplatesExhausted)
	assert.Equal(t, fixedNow, out.RanAt)
}

func TestRun_ListasVaciasNoNil(t *testing.T) {
	svc := jobs.NewRecurringSyncService(&fakeSyncer{}, &fakeSyncer{}, nil)
	out, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, out.InvoicesCreated)
	assert.NotNil(t, out.ExpensesCreated)
}

func TestRun_ErrorEnFacturasNoSincronizaGastos(t *testing.T) {
	boom := errors.New("db caída")
	inv := &fakeSyncer{err: boom}
	exp := &fakeSyncer{}
	svc := jobs.NewRecurringSyncService(inv, exp, logger.Nop())

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(0), exp.calls.Load())
}

func TestLoop_CorreAlIniciarYTerminaConElContexto(t *testing.T) {
	inv := &fakeSyncer{}
	exp := &fakeSyncer{}
	svc := jobs.NewRecurringSyncService(inv, exp, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Loop(ctx, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool { return inv.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Loop no terminó al cancelar el contexto")
	}
}
