/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotAssignable is returned when a value cannot be stored in a location
// of a given type.
var ErrNotAssignable = errors.New("reflect: value not assignable")

// IsNil reports whether v is invalid or a nil value of a nillable kind.
func IsNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}

// Unwrap strips interface wrappers from v.
func Unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	return v
}

// ObjectOf returns the dynamic value held by v as an interface, or nil when
// v is invalid or a nil pointer/map/interface. Slices are returned as-is,
// even when nil, because an empty slice still carries its element type.
func ObjectOf(v reflect.Value) any {
	v = Unwrap(v)
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			return nil
		}
	}
	if !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

// HasIdentity reports whether v refers to shared storage that can be
// tracked by address: non-nil pointers to non-zero-sized values and
// non-nil maps. Everything else is a value type.
func HasIdentity(v reflect.Value) bool {
	v = Unwrap(v)
	if !v.IsValid() {
		return false
	}
	switch v.Kind() {
	case reflect.Pointer:
		return !v.IsNil() && v.Type().Elem().Size() > 0
	case reflect.Map:
		return !v.IsNil()
	}
	return false
}

// Same reports whether a and b denote the same object: identical addresses
// for pointers and maps, same backing array and length for slices, deep
// equality for everything else.
func Same(a, b any) bool {
	va, vb := Unwrap(reflect.ValueOf(a)), Unwrap(reflect.ValueOf(b))
	if IsNil(va) || IsNil(vb) {
		if va.IsValid() && va.Kind() == reflect.Slice && vb.IsValid() && vb.Kind() == reflect.Slice {
			return va.Type() == vb.Type() && va.Len() == vb.Len() && va.Len() == 0
		}
		return IsNil(va) && IsNil(vb)
	}
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Slice:
		return va.Len() == vb.Len() && (va.Len() == 0 || va.UnsafePointer() == vb.UnsafePointer())
	case reflect.Func:
		return false
	}
	return reflect.DeepEqual(va.Interface(), vb.Interface())
}

// Assign returns value converted to a value storable in a location of type t.
// A nil value yields the zero value of t. Numeric and string conversions
// between compatible basic kinds are applied.
func Assign(value any, t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, ErrReflectNilType
	}
	if value == nil {
		return reflect.Zero(t), nil
	}
	v, ok := value.(reflect.Value)
	if !ok {
		v = reflect.ValueOf(value)
	}
	return AssignValue(v, t)
}

// AssignValue is Assign for a reflect.Value.
func AssignValue(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(t), nil
	}
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if v.Kind() == reflect.Interface && !v.IsNil() {
		return AssignValue(v.Elem(), t)
	}
	if IsBasic(v.Kind()) && IsBasic(t.Kind()) && v.Type().ConvertibleTo(t) && sameFamily(v.Kind(), t.Kind()) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrNotAssignable, v.Type(), t)
}

// sameFamily keeps conversions lossless in spirit: numbers convert to
// numbers and strings to strings, never int to string.
func sameFamily(a, b reflect.Kind) bool {
	return family(a) == family(b)
}

func family(k reflect.Kind) int {
	switch k {
	case reflect.Bool:
		return 1
	case reflect.String:
		return 2
	case reflect.Complex64, reflect.Complex128:
		return 3
	default:
		return 4
	}
}
