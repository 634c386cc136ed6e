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

package descriptor

import (
	"errors"
	"reflect"

	"dirpx.dev/quantum/apis"
)

var (
	// ErrNotAddressable is returned when a mutation needs an addressable container.
	ErrNotAddressable = errors.New("quantum(descriptor): container is not addressable")
	// ErrNilContainer is returned when the container is nil or invalid.
	ErrNilContainer = errors.New("quantum(descriptor): nil container")
	// ErrIndexOutOfRange is returned when a collection index is out of bounds.
	ErrIndexOutOfRange = errors.New("quantum(descriptor): index out of range")
	// ErrNotSettable is returned by members without a setter.
	ErrNotSettable = errors.New("quantum(descriptor): member is read-only")
	// ErrDuplicateKey is returned when adding a key that already exists.
	ErrDuplicateKey = errors.New("quantum(descriptor): duplicate key")
	// ErrKeyNotFound is returned when removing a missing key.
	ErrKeyNotFound = errors.New("quantum(descriptor): key not found")
	// ErrItemNotFound is returned when removing a missing item.
	ErrItemNotFound = errors.New("quantum(descriptor): item not found")
	// ErrUnsupported is returned by operations a shape does not support.
	ErrUnsupported = errors.New("quantum(descriptor): operation not supported")
)

// NewPrimitive returns a descriptor for an atomic type.
func NewPrimitive(t reflect.Type) apis.Descriptor {
	return primitive{t: t}
}

type primitive struct {
	t reflect.Type
}

var _ apis.Descriptor = primitive{}

func (p primitive) Type() reflect.Type    { return p.t }
func (primitive) Category() apis.Category { return apis.Primitive }
func (p primitive) String() string        { return "primitive(" + typeString(p.t) + ")" }

// deref follows interfaces and pointers. A nil along the way yields an
// invalid value. Elements reached through a pointer are addressable.
func deref(v reflect.Value) reflect.Value {
	for v.IsValid() {
		switch v.Kind() {
		case reflect.Interface, reflect.Pointer:
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		default:
			return v
		}
	}
	return v
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
