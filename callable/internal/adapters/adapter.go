// Package adapters holds the erased execution cores behind callable
// handles. Each adapter owns one wrapped target, invokes it with an
// erased argument pack, and knows how to duplicate itself so that
// handle copies never share mutable target state.
package adapters

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNotFunc reports a signature type parameter that is not a function type.
	ErrNotFunc = errors.New("callable: signature is not a function type")
	// ErrVariadicSignature reports a variadic signature or payload; the
	// erased argument pack carries a fixed arity only.
	ErrVariadicSignature = errors.New("callable: variadic signatures are not supported")
	// ErrNilPayload reports a nil target: a nil interface, function, or pointer.
	ErrNilPayload = errors.New("callable: nil payload")
	// ErrSignatureMismatch reports a target that cannot stand in for the
	// declared signature.
	ErrSignatureMismatch = errors.New("callable: payload does not satisfy signature")
	// ErrUnsupportedPayload reports a target of a shape no adapter accepts.
	ErrUnsupportedPayload = errors.New("callable: unsupported payload")
)

// Adapter is the erased core of a handle. Invoke runs the wrapped
// target; the caller guarantees the argument pack already matches the
// signature the adapter was selected for. Clone returns a copy sharing
// no mutable state with the receiver.
type Adapter interface {
	Invoke(in []reflect.Value) []reflect.Value
	Clone() Adapter
}

// checkSignature rejects signature types the erased core cannot carry.
func checkSignature(sig reflect.Type) error {
	if sig == nil || sig.Kind() != reflect.Func {
		return fmt.Errorf("%w: %v", ErrNotFunc, sig)
	}
	if sig.IsVariadic() {
		return fmt.Errorf("%w: %v", ErrVariadicSignature, sig)
	}
	return nil
}

// compatible reports whether a target of type have can serve a call
// surface of type want. Arguments flow from the surface into the
// target and results flow back out, so assignability runs in opposite
// directions on the two sides. Arity must match exactly.
func compatible(want, have reflect.Type) bool {
	if want.NumIn() != have.NumIn() || want.NumOut() != have.NumOut() {
		return false
	}
	for i := 0; i < want.NumIn(); i++ {
		if !want.In(i).AssignableTo(have.In(i)) {
			return false
		}
	}
	for i := 0; i < want.NumOut(); i++ {
		if !have.Out(i).AssignableTo(want.Out(i)) {
			return false
		}
	}
	return true
}
