// Package callable provides a polymorphic, value-semantic handle over
// anything that can be called with a given signature.
//
// Call-able Go wraps the three callable shapes Go offers — function
// values, named methods, and stateful functors — behind one generic
// handle, Func[F], so heterogeneous targets can be stored, copied, and
// invoked uniformly.
//
// # What is a handle?
//
// A handle is a small value that owns an erased copy of its target:
//   - a function value (including closures and bound methods),
//   - a Selector naming an exported method dispatched through the first
//     parameter,
//   - or any value exposing a compatible Call method (a functor).
//
// # Why value semantics?
//
// Copying a handle with Clone copies the functor state it owns, so two
// handles never share mutable target state by accident. A functor that
// needs a deeper copy than plain struct assignment implements Cloner.
// Function and method targets are stateless references and are shared
// by copies — variables captured by a closure stay shared, which is
// exactly how Go function values behave.
//
// Plain struct assignment of a handle shares the underlying target;
// this cannot be intercepted in Go. Use Clone when independence matters.
//
// # Emptiness
//
// The zero Func is empty: IsZero reports true, and both Fn and Invoke
// panic. Emptiness is a wiring bug, not a runtime condition, so it is
// never reported as an error. Set re-targets a handle in place and
// leaves it unchanged on failure.
//
// # Two call surfaces
//
// Fn returns a typed function with signature F, built once at
// construction; calling it costs one reflective dispatch. Invoke is the
// erased surface over []reflect.Value used by code that routes
// handles of differing signatures, such as Invoker collections.
//
// Example:
//
//	double := callable.Of(func(x int) int { return x * 2 })
//	n := double.Fn()(21) // 42
//
//	greet, err := callable.MethodOf[func(Greeter, string) string]("Greet")
//	if err != nil { ... }
//	msg := greet.Fn()(g, "hello")
//
// Handles are safe for concurrent invocation if and only if the
// wrapped target is; the handle itself adds no synchronization.
package callable
