package pool

import (
	"errors"
	"reflect"
	"time"

	"github.com/rickb777/date/v2/timespan"

	"github.com/on-the-ground/call_able_go/shared/helper"
)

// ErrNoResult reports a [First] on an invocation without results.
var ErrNoResult = errors.New("pool: invocation has no results")

// Result is the outcome of one pooled invocation.
type Result struct {
	// Values holds the target's results when Err is nil.
	Values []reflect.Value
	// Err is non-nil when the pool rejected the job or the target panicked.
	Err error
	// Span covers the invocation from dequeue to completion.
	Span timespan.TimeSpan
}

func (r Result) first() (any, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if len(r.Values) == 0 {
		return nil, ErrNoResult
	}
	return r.Values[0].Interface(), nil
}

// First returns the first result of a successful invocation, asserted
// to T.
func First[T any](r Result) (T, error) {
	return helper.GetTypedValueOf[T](r.first)
}

// MustFirst is the panic-on-failure variant of [First].
func MustFirst[T any](r Result) T {
	return helper.MustGetTypedValue[T](r.first)
}

func window(start time.Time) timespan.TimeSpan {
	return timespan.BetweenTimes(start, time.Now())
}
