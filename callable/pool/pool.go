// Package pool runs invocations of one handle across key-partitioned
// workers. Each worker owns its own clone of the handle, so functor
// state is per-partition and jobs sharing a key run in submission
// order.
package pool

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/on-the-ground/call_able_go/callable"
)

var (
	// ErrEmptyHandle reports a pool built over the empty handle.
	ErrEmptyHandle = errors.New("pool: empty handle")
	// ErrClosed reports a Submit after Close.
	ErrClosed = errors.New("pool: closed")
	// ErrArgMismatch reports submitted arguments that do not fit the
	// handle's signature.
	ErrArgMismatch = errors.New("pool: arguments do not fit signature")
	// ErrPanicked wraps a panic recovered from the target; it surfaces
	// in Result.Err, never as a worker crash.
	ErrPanicked = errors.New("pool: target panicked")
)

type job struct {
	ctx context.Context
	in  []reflect.Value
	out chan<- Result
}

// Pool fans invocations of one handle out to partitioned workers.
type Pool[F any] struct {
	id     string
	logger *zap.Logger
	sig    reflect.Type
	clones []callable.Func[F]
	queues []chan job
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New starts cfg.NumWorkers workers, each owning its own clone of
// handle. The pool must be released with Close. A nil logger disables
// logging.
func New[F any](handle callable.Func[F], cfg Config, logger *zap.Logger) (*Pool[F], error) {
	if handle.IsZero() {
		return nil, ErrEmptyHandle
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = NewConfig(cfg.NumWorkers, cfg.QueueDepth)

	p := &Pool[F]{
		id:     uuid.New().String(),
		sig:    handle.Signature(),
		clones: make([]callable.Func[F], cfg.NumWorkers),
		queues: make([]chan job, cfg.NumWorkers),
	}
	p.logger = logger.With(zap.String("pool_id", p.id))
	for i := range p.queues {
		p.clones[i] = handle.Clone()
		p.queues[i] = make(chan job, cfg.QueueDepth)
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("pool started",
		zap.Int("num_workers", cfg.NumWorkers),
		zap.Int("queue_depth", cfg.QueueDepth),
	)
	return p, nil
}

// Submit queues one invocation on the worker owning key's partition
// and returns a channel carrying the single Result. Arguments are
// checked against the handle's signature here, before queueing. Submit
// blocks only when the partition's queue is full, and gives up with
// ctx.Err() if ctx ends first.
func (p *Pool[F]) Submit(ctx context.Context, key string, args ...any) (<-chan Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in, err := p.typedArgs(args)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrClosed
	}

	out := make(chan Result, 1)
	idx := partition(key, len(p.queues))
	select {
	case p.queues[idx] <- job{ctx: ctx, in: in, out: out}:
		p.logger.Debug("job queued", zap.String("key", key), zap.Int("partition", idx))
		return out, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops intake, lets queued jobs finish, then releases each
// worker's clone, aggregating their teardown errors. Close is
// idempotent; calls after the first return nil.
func (p *Pool[F]) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	for _, q := range p.queues {
		close(q)
	}
	p.mu.Unlock()

	p.wg.Wait()
	var errs error
	for _, clone := range p.clones {
		errs = multierr.Append(errs, clone.Close())
	}
	if errs != nil {
		p.logger.Warn("pool closed with teardown errors", zap.Error(errs))
		return errs
	}
	p.logger.Info("pool closed")
	return nil
}

func (p *Pool[F]) worker(idx int) {
	defer p.wg.Done()
	handle := p.clones[idx]
	for j := range p.queues[idx] {
		j.out <- p.run(handle, j)
		close(j.out)
	}
}

func (p *Pool[F]) run(handle callable.Func[F], j job) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("target panicked", zap.Any("panic", r))
			res = Result{Err: fmt.Errorf("%w: %v", ErrPanicked, r), Span: window(start)}
		}
	}()
	if err := j.ctx.Err(); err != nil {
		return Result{Err: err, Span: window(start)}
	}
	return Result{Values: handle.Invoke(j.in), Span: window(start)}
}

// typedArgs erases args and checks them against the signature, so a
// shape error surfaces at Submit instead of on the worker.
func (p *Pool[F]) typedArgs(args []any) ([]reflect.Value, error) {
	if len(args) != p.sig.NumIn() {
		return nil, fmt.Errorf("%w: want %d args, have %d", ErrArgMismatch, p.sig.NumIn(), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		want := p.sig.In(i)
		if a == nil {
			if !nilable(want.Kind()) {
				return nil, fmt.Errorf("%w: nil for %v at %d", ErrArgMismatch, want, i)
			}
			in[i] = reflect.Zero(want)
			continue
		}
		v := reflect.ValueOf(a)
		if !v.Type().AssignableTo(want) {
			return nil, fmt.Errorf("%w: %v for %v at %d", ErrArgMismatch, v.Type(), want, i)
		}
		in[i] = v
	}
	return in, nil
}

func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}

func partition(key string, numQueues int) int {
	if numQueues == 1 {
		return 0
	}
	return int(xxhash.Sum64String(key) % uint64(numQueues))
}
