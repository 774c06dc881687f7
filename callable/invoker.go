package callable

import (
	"reflect"

	"github.com/on-the-ground/call_able_go/callable/internal/adapters"
)

// Invoker is the erased view of a handle, for code that stores handles
// of differing signatures together and types the arguments itself.
type Invoker interface {
	Invoke(in []reflect.Value) []reflect.Value
	Signature() reflect.Type
	IsZero() bool
}

var _ Invoker = Func[func()]{}

// Selector routes a handle to the exported method it names. See [MethodOf].
type Selector = adapters.Selector

// Cloner lets a functor replace the shallow copy [Func.Clone] performs
// with its own deep copy. CloneCallable must return a value of the
// functor's own type, or a non-nil pointer to one.
type Cloner = adapters.Cloner

// Construction errors, matched with errors.Is.
var (
	ErrNotFunc            = adapters.ErrNotFunc
	ErrVariadicSignature  = adapters.ErrVariadicSignature
	ErrNilPayload         = adapters.ErrNilPayload
	ErrSignatureMismatch  = adapters.ErrSignatureMismatch
	ErrUnsupportedPayload = adapters.ErrUnsupportedPayload
)
