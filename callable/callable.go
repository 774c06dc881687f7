package callable

import (
	"io"
	"reflect"

	"github.com/on-the-ground/call_able_go/callable/internal/adapters"
)

const emptyHandleMsg = "callable: invoke on empty Func"

// Func is a polymorphic handle over any target callable with signature
// F. The zero Func is empty. Copy handles with Clone; plain assignment
// shares the underlying target.
type Func[F any] struct {
	core adapters.Adapter
	fn   F
}

// New wraps target in a handle with signature F. The target may be a
// function value, a [Selector] naming an exported method dispatched
// through the first parameter, or any value with a compatible Call
// method. A functor target is copied in, so the caller's value can
// change freely afterwards.
func New[F any](target any) (Func[F], error) {
	sig := reflect.TypeFor[F]()
	core, err := adapters.Select(sig, target)
	if err != nil {
		return Func[F]{}, err
	}
	return wrap[F](sig, core), nil
}

// MustNew is New for wiring done at package init time; it panics where
// New returns an error.
func MustNew[F any](target any) Func[F] {
	f, err := New[F](target)
	if err != nil {
		panic(err)
	}
	return f
}

// Of wraps a function value of the handle's own signature. Most shapes
// New reports as errors cannot be expressed here; the ones that can —
// a nil fn, a variadic F, a non-function F — panic.
func Of[F any](fn F) Func[F] {
	return MustNew[F](fn)
}

// MethodOf wraps the exported method named method, dispatched on the
// handle's first parameter. Concrete receiver types are resolved here.
// Interface receiver types are resolved on the dynamic value at each
// call, and the name may lie outside the interface's own method set;
// invoking with a dynamic value that lacks the method panics.
func MethodOf[F any](method string) (Func[F], error) {
	return New[F](Selector{Method: method})
}

// Fn returns the typed call surface built at construction. It panics
// on an empty handle.
func (f Func[F]) Fn() F {
	if f.core == nil {
		panic(emptyHandleMsg)
	}
	return f.fn
}

// Invoke runs the target with an erased argument pack whose length and
// element types must match Signature. It panics on an empty handle.
func (f Func[F]) Invoke(in []reflect.Value) []reflect.Value {
	if f.core == nil {
		panic(emptyHandleMsg)
	}
	return f.core.Invoke(in)
}

// Set re-targets the handle in place. On error the handle is left
// unchanged.
func (f *Func[F]) Set(target any) error {
	nf, err := New[F](target)
	if err != nil {
		return err
	}
	*f = nf
	return nil
}

// Clone returns an independent handle. Functor state owned by the
// handle is copied, through [Cloner] when the functor implements it.
// Function and method targets are stateless and stay shared. Cloning
// an empty handle yields an empty handle.
func (f Func[F]) Clone() Func[F] {
	if f.core == nil {
		return Func[F]{}
	}
	return wrap[F](reflect.TypeFor[F](), f.core.Clone())
}

// IsZero reports whether the handle is empty.
func (f Func[F]) IsZero() bool {
	return f.core == nil
}

// Signature reports the handle's function type F.
func (f Func[F]) Signature() reflect.Type {
	return reflect.TypeFor[F]()
}

// Close releases resources held by a wrapped functor that implements
// io.Closer. Handles over functions and method selectors own nothing;
// Close on them, and on the empty handle, returns nil.
func (f Func[F]) Close() error {
	if c, ok := f.core.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func wrap[F any](sig reflect.Type, core adapters.Adapter) Func[F] {
	return Func[F]{
		core: core,
		fn:   reflect.MakeFunc(sig, core.Invoke).Interface().(F),
	}
}
