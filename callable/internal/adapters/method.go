package adapters

import (
	"fmt"
	"reflect"
)

// Selector names an exported method to dispatch to. The handle's first
// parameter supplies the receiver and the remaining parameters are
// forwarded, so a selector over signature func(R, A) B routes to a
// method func (R) Name(A) B.
type Selector struct {
	Method string
}

// methodAdapter dispatches to a named method on its first argument.
// Concrete receiver types resolve to a method expression once, at
// construction. Interface receiver types resolve on the dynamic value
// of the first argument at every call, and may carry a name the
// interface itself does not declare; such names cannot be checked
// until a call supplies the dynamic type.
type methodAdapter struct {
	name  string
	eager reflect.Value
}

var _ Adapter = methodAdapter{}

func newMethodAdapter(sig reflect.Type, sel Selector) (Adapter, error) {
	if sel.Method == "" {
		return nil, fmt.Errorf("%w: empty method selector", ErrNilPayload)
	}
	if sig.NumIn() == 0 {
		return nil, fmt.Errorf("%w: %v has no receiver parameter for method %q", ErrSignatureMismatch, sig, sel.Method)
	}
	recv := sig.In(0)

	if recv.Kind() == reflect.Interface {
		// A name inside the interface's method set is checked now. Any
		// other name is deferred wholesale to the dynamic type: a value
		// lacking the method panics at call time.
		if m, ok := recv.MethodByName(sel.Method); ok {
			if m.Type.IsVariadic() {
				return nil, fmt.Errorf("%w: %v.%s", ErrVariadicSignature, recv, sel.Method)
			}
			if !compatible(withoutReceiver(sig), m.Type) {
				return nil, fmt.Errorf("%w: want %v, %v.%s is %v", ErrSignatureMismatch, sig, recv, sel.Method, m.Type)
			}
		}
		return methodAdapter{name: sel.Method}, nil
	}

	m, ok := recv.MethodByName(sel.Method)
	if !ok {
		return nil, fmt.Errorf("%w: %v has no method %q", ErrSignatureMismatch, recv, sel.Method)
	}
	mt := m.Func.Type()
	if mt.IsVariadic() {
		return nil, fmt.Errorf("%w: %v.%s", ErrVariadicSignature, recv, sel.Method)
	}
	if !compatible(sig, mt) {
		return nil, fmt.Errorf("%w: want %v, %v.%s is %v", ErrSignatureMismatch, sig, recv, sel.Method, mt)
	}
	return methodAdapter{name: sel.Method, eager: m.Func}, nil
}

// withoutReceiver strips the first parameter, yielding the shape an
// interface method reports through reflection.
func withoutReceiver(sig reflect.Type) reflect.Type {
	in := make([]reflect.Type, sig.NumIn()-1)
	for i := range in {
		in[i] = sig.In(i + 1)
	}
	out := make([]reflect.Type, sig.NumOut())
	for i := range out {
		out[i] = sig.Out(i)
	}
	return reflect.FuncOf(in, out, false)
}

func (a methodAdapter) Invoke(in []reflect.Value) []reflect.Value {
	if a.eager.IsValid() {
		return a.eager.Call(in)
	}
	// The receiver may arrive boxed in the interface or already
	// concrete, depending on the call surface.
	recv := in[0]
	if recv.Kind() == reflect.Interface {
		if recv.IsNil() {
			panic(fmt.Sprintf("callable: method %s on nil receiver", a.name))
		}
		recv = recv.Elem()
	}
	m := recv.MethodByName(a.name)
	if !m.IsValid() {
		panic(fmt.Sprintf("callable: %v has no method %s", recv.Type(), a.name))
	}
	return m.Call(in[1:])
}

func (a methodAdapter) Clone() Adapter {
	return a
}
