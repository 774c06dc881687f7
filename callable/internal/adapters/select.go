package adapters

import (
	"fmt"
	"reflect"
)

// Select picks the adapter matching the payload's shape: a Selector
// routes by method name, a function value is wrapped directly, and any
// other value must expose a compatible Call method.
func Select(sig reflect.Type, payload any) (Adapter, error) {
	if err := checkSignature(sig); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrNilPayload
	}
	if sel, ok := payload.(Selector); ok {
		return newMethodAdapter(sig, sel)
	}
	rv := reflect.ValueOf(payload)
	if rv.Kind() == reflect.Func {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %v", ErrNilPayload, rv.Type())
		}
		return newFuncAdapter(sig, rv)
	}
	return newFunctorAdapter(sig, rv)
}
