package adapters

import (
	"fmt"
	"reflect"
)

// funcAdapter wraps a plain function value. Function values are
// immutable references, so Clone shares the target; variables captured
// by a closure stay shared across copies. Wrap state in a functor when
// copies must not share it.
type funcAdapter struct {
	fn reflect.Value
}

var _ Adapter = funcAdapter{}

func newFuncAdapter(sig reflect.Type, fn reflect.Value) (Adapter, error) {
	ft := fn.Type()
	if ft.IsVariadic() {
		return nil, fmt.Errorf("%w: %v", ErrVariadicSignature, ft)
	}
	if !compatible(sig, ft) {
		return nil, fmt.Errorf("%w: want %v, have %v", ErrSignatureMismatch, sig, ft)
	}
	return funcAdapter{fn: fn}, nil
}

func (a funcAdapter) Invoke(in []reflect.Value) []reflect.Value {
	return a.fn.Call(in)
}

func (a funcAdapter) Clone() Adapter {
	return a
}
