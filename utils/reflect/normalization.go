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
	"reflect"

	"dirpx.dev/quantum/apis"
	"dirpx.dev/quantum/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTooDeep indicates that a pointer chain is deeper than MaxUnwrap.
	ErrReflectTooDeep = errors.New("reflect: pointer chain exceeds MaxUnwrap")
)

// Normalize unwraps pointers according to config (MaxUnwrap) and returns the
// innermost non-pointer type.
//
// Unwrapping policy:
//   - ptr -> Elem()
//   - default: return t
//
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	for i := 0; i < maxUnwrap; i++ {
		if t.Kind() != reflect.Pointer {
			return t, nil
		}
		t = t.Elem()
	}

	if t.Kind() != reflect.Pointer {
		return t, nil
	}
	return nil, ErrReflectTooDeep
}

// IsBasic reports whether k is a scalar kind (bool, numbers, string).
func IsBasic(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	}
	return false
}

// IsOpaque reports whether k is a kind that cannot be traversed and is
// therefore handled as an atomic value (functions, channels, raw pointers).
func IsOpaque(k reflect.Kind) bool {
	switch k {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

// IsStruct reports whether t is a struct type (not a pointer to one).
func IsStruct(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Struct
}
