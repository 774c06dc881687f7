package dispatch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/on-the-ground/call_able_go/callable"
	"github.com/on-the-ground/call_able_go/callable/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type deployCmd struct {
	Service string
}

type haltCmd struct {
	Reason string
}

type rogueCmd struct{}

func TestTable_DispatchRoutesByType(t *testing.T) {
	ctx := context.Background()
	table := dispatch.NewTable(nil)

	dispatch.Allow[deployCmd](table)
	dispatch.Allow[haltCmd](table)

	var deployed, halted string
	require.NoError(t, dispatch.Register(table, func(_ context.Context, c deployCmd) error {
		deployed = c.Service
		return nil
	}))
	require.NoError(t, dispatch.Register(table, func(_ context.Context, c haltCmd) error {
		halted = c.Reason
		return nil
	}))

	require.NoError(t, table.Dispatch(ctx, deployCmd{Service: "billing"}))
	require.NoError(t, table.Dispatch(ctx, haltCmd{Reason: "maintenance"}))
	assert.Equal(t, "billing", deployed)
	assert.Equal(t, "maintenance", halted)

	// Outside the allow list.
	err := table.Dispatch(ctx, rogueCmd{})
	if !errors.Is(err, dispatch.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got: %v", err)
	}
}

type ctxKey struct{}

func TestTable_ParkAndReplayInOrder(t *testing.T) {
	table := dispatch.NewTable(nil)
	dispatch.Allow[deployCmd](table)

	ctx := context.WithValue(context.Background(), ctxKey{}, "replayed")

	err := table.Dispatch(ctx, deployCmd{Service: "first"})
	assert.ErrorIs(t, err, dispatch.ErrParked)
	err = table.Dispatch(ctx, deployCmd{Service: "second"})
	assert.ErrorIs(t, err, dispatch.ErrParked)
	assert.Equal(t, 2, table.Parked())

	var services []string
	var carried any
	require.NoError(t, dispatch.Register(table, func(c context.Context, cmd deployCmd) error {
		services = append(services, cmd.Service)
		carried = c.Value(ctxKey{})
		return nil
	}))

	assert.Equal(t, []string{"first", "second"}, services)
	assert.Equal(t, "replayed", carried)
	assert.Equal(t, 0, table.Parked())

	// Dispatch after registration runs directly.
	require.NoError(t, table.Dispatch(ctx, deployCmd{Service: "third"}))
	assert.Equal(t, []string{"first", "second", "third"}, services)
}

func TestTable_RegisterErrors(t *testing.T) {
	table := dispatch.NewTable(nil)

	err := dispatch.Register(table, func(context.Context, deployCmd) error { return nil })
	assert.ErrorIs(t, err, dispatch.ErrNotAllowed)

	dispatch.Allow[deployCmd](table)
	require.NoError(t, dispatch.Register(table, func(context.Context, deployCmd) error { return nil }))

	err = dispatch.Register(table, func(context.Context, deployCmd) error { return nil })
	assert.ErrorIs(t, err, dispatch.ErrDuplicateHandler)

	err = dispatch.Register[haltCmd](table, nil)
	assert.ErrorIs(t, err, callable.ErrNilPayload)
}

func TestTable_HandlerErrorPropagates(t *testing.T) {
	table := dispatch.NewTable(nil)
	dispatch.Allow[haltCmd](table)

	boom := errors.New("boom")
	require.NoError(t, dispatch.Register(table, func(context.Context, haltCmd) error {
		return boom
	}))

	err := table.Dispatch(context.Background(), haltCmd{})
	assert.ErrorIs(t, err, boom)
}

func TestTable_NilCommand(t *testing.T) {
	table := dispatch.NewTable(nil)
	err := table.Dispatch(context.Background(), nil)
	assert.ErrorIs(t, err, dispatch.ErrNilCommand)
}

func TestTable_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	table := dispatch.NewTable(zap.New(core))

	dispatch.Allow[deployCmd](table)
	_ = table.Dispatch(context.Background(), deployCmd{Service: "a"})
	require.NoError(t, dispatch.Register(table, func(context.Context, deployCmd) error { return nil }))

	if logs.FilterMessage("command parked").Len() != 1 {
		t.Fatalf("expected one parked log, got %d", logs.FilterMessage("command parked").Len())
	}
	if logs.FilterMessage("handler registered").Len() != 1 {
		t.Fatalf("expected one registration log, got %d", logs.FilterMessage("handler registered").Len())
	}
	assert.Equal(t, 1, logs.FilterMessage("parked command replayed").Len())
}
