package helper

import (
	"fmt"
)

// GetTypedValueOf runs a getter returning an erased value and asserts
// the result to T. A failed assertion is reported as an error, never a
// panic.
func GetTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T

	res, err := getFn()
	if err != nil {
		return zero, fmt.Errorf("failed to get value: %w", err)
	}

	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type: %T", res)
	}

	return val, nil
}

// GetTypedValueOf2 is GetTypedValueOf for getters in the comma-ok
// shape, such as sync.Map lookups. ok is false when the getter misses
// or when the assertion to T fails.
func GetTypedValueOf2[T any](getFn func() (any, bool)) (res T, ok bool) {
	var raw any
	if raw, ok = getFn(); ok {
		res, ok = raw.(T)
	}
	return
}

// MustGetTypedValue is the panic-on-failure variant of GetTypedValueOf.
// Use when failure should be fatal (e.g., when the value is guaranteed
// to exist and hold the expected type).
func MustGetTypedValue[T any](getFn func() (any, error)) T {
	res, err := GetTypedValueOf[T](getFn)
	if err != nil {
		panic(err)
	}
	return res
}
