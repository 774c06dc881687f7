// Package memo tableizes pure handles: repeated argument packs replay
// the recorded results instead of recomputing them.
package memo

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/on-the-ground/call_able_go/callable"
)

var (
	// ErrEmptyHandle reports a Tableize of the empty handle.
	ErrEmptyHandle = errors.New("memo: empty handle")
	// ErrNoArguments reports a signature with nothing to key the table on.
	ErrNoArguments = errors.New("memo: signature has no arguments")
	// ErrUncacheableArg reports a parameter type that is neither
	// comparable nor a fmt.Stringer.
	ErrUncacheableArg = errors.New("memo: argument type is neither comparable nor fmt.Stringer")
)

// DefaultMaxEntries bounds the table when Tableize is given no bound.
const DefaultMaxEntries = 1 << 16

var stringerType = reflect.TypeFor[fmt.Stringer]()

// Tableize returns a handle that consults a bounded memo table before
// delegating to its own clone of h. The target must be pure: for a
// repeated argument pack the recorded results are replayed, never
// recomputed. Handles cloned from the result share one table.
//
// Each parameter type of F must be comparable or implement
// fmt.Stringer so the argument pack can key the table; Stringer takes
// precedence. Interface parameters are keyed by their dynamic value,
// and an unhashable dynamic value without a Stringer panics at call
// time the same way a map key would.
//
// A maxEntries of zero means DefaultMaxEntries.
func Tableize[F any](h callable.Func[F], maxEntries uint32) (callable.Func[F], error) {
	if h.IsZero() {
		return callable.Func[F]{}, ErrEmptyHandle
	}
	sig := h.Signature()
	if sig.NumIn() == 0 {
		return callable.Func[F]{}, fmt.Errorf("%w: %v", ErrNoArguments, sig)
	}
	for i := 0; i < sig.NumIn(); i++ {
		if in := sig.In(i); !in.Implements(stringerType) && !in.Comparable() {
			return callable.Func[F]{}, fmt.Errorf("%w: %v", ErrUncacheableArg, in)
		}
	}
	if maxEntries == 0 {
		maxEntries = DefaultMaxEntries
	}

	tbl := newTable(maxEntries)
	delegate := h.Clone()
	memoized := func(in []reflect.Value) []reflect.Value {
		keys := make([]any, len(in))
		for i, v := range in {
			keys[i] = tableKey(v)
		}
		if out, ok := tbl.load(keys); ok {
			return out
		}
		out := delegate.Invoke(in)
		tbl.store(keys, out)
		return out
	}
	return callable.New[F](reflect.MakeFunc(sig, memoized).Interface())
}

func tableKey(v reflect.Value) any {
	i := v.Interface()
	if stringer, ok := i.(fmt.Stringer); ok {
		return stringer.String()
	}
	return i
}
