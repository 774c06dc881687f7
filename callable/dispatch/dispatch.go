// Package dispatch routes commands to handles by concrete command
// type, with an allow list deciding which types the table implements.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/eapache/queue"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/call_able_go/callable"
)

var (
	// ErrNotImplemented reports a command type outside the allow list.
	ErrNotImplemented = errors.New("dispatch: not implemented")
	// ErrNotAllowed reports a registration for a type outside the allow list.
	ErrNotAllowed = errors.New("dispatch: command type not allowed")
	// ErrDuplicateHandler reports a second registration for one type.
	ErrDuplicateHandler = errors.New("dispatch: handler already registered")
	// ErrParked reports a command accepted before its handler exists; it
	// runs when the handler registers.
	ErrParked = errors.New("dispatch: command parked")
	// ErrNilCommand reports a nil command.
	ErrNilCommand = errors.New("dispatch: nil command")
)

// Table routes commands to handlers keyed by the command's concrete
// type. A type must be allowed before handlers are registered or
// commands dispatched for it. Dispatching an allowed type whose
// handler is not registered yet parks the command; registration
// replays the backlog in arrival order, on the registering goroutine.
//
// Handlers are stored behind the erased [callable.Invoker] surface, so
// one table carries commands of unrelated types.
type Table struct {
	id     string
	logger *zap.Logger

	mu       sync.RWMutex
	allowed  map[reflect.Type]struct{}
	handlers map[reflect.Type]callable.Invoker
	parked   map[reflect.Type]*queue.Queue
}

type parkedCommand struct {
	ctx     context.Context
	command any
}

// NewTable returns an empty table. A nil logger disables logging.
func NewTable(logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Table{
		id:       uuid.New().String(),
		allowed:  make(map[reflect.Type]struct{}),
		handlers: make(map[reflect.Type]callable.Invoker),
		parked:   make(map[reflect.Type]*queue.Queue),
	}
	t.logger = logger.With(zap.String("table_id", t.id))
	return t
}

// Allow adds T to the table's allow list. Allowing a type twice is a
// no-op.
func Allow[T any](t *Table) {
	ct := reflect.TypeFor[T]()
	t.mu.Lock()
	t.allowed[ct] = struct{}{}
	t.mu.Unlock()
	t.logger.Debug("command type allowed", zap.Stringer("command_type", ct))
}

// Register installs handler for command type T, then replays any
// parked T commands in arrival order. Replay failures are logged, not
// returned; the commands were already accepted as parked.
func Register[T any](t *Table, handler func(context.Context, T) error) error {
	ct := reflect.TypeFor[T]()
	h, err := callable.New[func(context.Context, T) error](handler)
	if err != nil {
		return err
	}

	t.mu.Lock()
	if _, ok := t.allowed[ct]; !ok {
		t.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrNotAllowed, ct)
	}
	if _, dup := t.handlers[ct]; dup {
		t.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrDuplicateHandler, ct)
	}
	t.handlers[ct] = h
	backlog := t.parked[ct]
	delete(t.parked, ct)
	t.mu.Unlock()

	t.logger.Info("handler registered", zap.Stringer("command_type", ct))
	for backlog != nil && backlog.Length() > 0 {
		pc := backlog.Remove().(parkedCommand)
		if err := run(h, pc.ctx, pc.command); err != nil {
			t.logger.Warn("replay failed",
				zap.Stringer("command_type", ct),
				zap.Error(err),
			)
		} else {
			t.logger.Debug("parked command replayed", zap.Stringer("command_type", ct))
		}
	}
	return nil
}

// Dispatch routes command by its concrete type. Types outside the
// allow list fail with ErrNotImplemented. Allowed types without a
// handler park the command and report ErrParked.
func (t *Table) Dispatch(ctx context.Context, command any) error {
	if command == nil {
		return ErrNilCommand
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ct := reflect.TypeOf(command)

	t.mu.Lock()
	if _, ok := t.allowed[ct]; !ok {
		t.mu.Unlock()
		t.logger.Warn("command not implemented", zap.Stringer("command_type", ct))
		return fmt.Errorf("%w: %v", ErrNotImplemented, ct)
	}
	h, ok := t.handlers[ct]
	if !ok {
		q := t.parked[ct]
		if q == nil {
			q = queue.New()
			t.parked[ct] = q
		}
		q.Add(parkedCommand{ctx: ctx, command: command})
		backlog := q.Length()
		t.mu.Unlock()
		t.logger.Info("command parked",
			zap.Stringer("command_type", ct),
			zap.Int("backlog", backlog),
		)
		return fmt.Errorf("%w: %v", ErrParked, ct)
	}
	t.mu.Unlock()

	return run(h, ctx, command)
}

// Parked reports how many commands are waiting for a handler.
func (t *Table) Parked() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, q := range t.parked {
		n += q.Length()
	}
	return n
}

func run(h callable.Invoker, ctx context.Context, command any) error {
	out := h.Invoke([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(command)})
	if err, ok := out[0].Interface().(error); ok && err != nil {
		return err
	}
	return nil
}
