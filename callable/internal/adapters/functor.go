package adapters

import (
	"fmt"
	"io"
	"reflect"
)

// callMethod is the method a functor payload must expose.
const callMethod = "Call"

// Cloner lets a functor override the shallow copy performed when its
// handle is cloned. CloneCallable must return a value of the functor's
// own type, or a non-nil pointer to one.
type Cloner interface {
	CloneCallable() any
}

// functorAdapter wraps any value exposing a compatible Call method.
// The payload is copied into adapter-owned storage at construction, so
// later mutation of the caller's value never reaches the adapter. The
// storage is a pointer, which keeps pointer-receiver methods reachable
// and lets Call mutate functor state across invocations.
type functorAdapter struct {
	store reflect.Value
	call  reflect.Value
}

var _ Adapter = functorAdapter{}

func newFunctorAdapter(sig reflect.Type, rv reflect.Value) (Adapter, error) {
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %v", ErrNilPayload, rv.Type())
		}
		rv = rv.Elem()
	}
	store := reflect.New(rv.Type())
	store.Elem().Set(rv)

	call := store.MethodByName(callMethod)
	if !call.IsValid() {
		return nil, fmt.Errorf("%w: %v has no %s method", ErrUnsupportedPayload, rv.Type(), callMethod)
	}
	ct := call.Type()
	if ct.IsVariadic() {
		return nil, fmt.Errorf("%w: %v.%s", ErrVariadicSignature, rv.Type(), callMethod)
	}
	if !compatible(sig, ct) {
		return nil, fmt.Errorf("%w: want %v, %v.%s is %v", ErrSignatureMismatch, sig, rv.Type(), callMethod, ct)
	}
	return functorAdapter{store: store, call: call}, nil
}

func (a functorAdapter) Invoke(in []reflect.Value) []reflect.Value {
	return a.call.Call(in)
}

func (a functorAdapter) Clone() Adapter {
	elem := a.store.Type().Elem()
	dst := reflect.New(elem)
	if c, ok := a.store.Interface().(Cloner); ok {
		dst.Elem().Set(cloneOf(c, elem))
	} else {
		dst.Elem().Set(a.store.Elem())
	}
	return functorAdapter{store: dst, call: dst.MethodByName(callMethod)}
}

// cloneOf runs the functor's own copy hook and pins its result to the
// stored type. A hook returning anything else is a contract violation.
func cloneOf(c Cloner, want reflect.Type) reflect.Value {
	cloned := c.CloneCallable()
	cv := reflect.ValueOf(cloned)
	if cv.Kind() == reflect.Pointer && cv.Type().Elem() == want {
		if cv.IsNil() {
			panic(fmt.Sprintf("callable: CloneCallable returned nil *%v", want))
		}
		cv = cv.Elem()
	}
	if !cv.IsValid() || cv.Type() != want {
		panic(fmt.Sprintf("callable: CloneCallable returned %T, want %v", cloned, want))
	}
	return cv
}

// Close releases resources held by a functor that implements io.Closer.
func (a functorAdapter) Close() error {
	if c, ok := a.store.Interface().(io.Closer); ok {
		return c.Close()
	}
	return nil
}
