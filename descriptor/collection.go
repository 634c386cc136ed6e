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
	"fmt"
	"reflect"

	"dirpx.dev/quantum/apis"
	uref "dirpx.dev/quantum/utils/reflect"
)

// NewSlice returns a list descriptor for a slice type t (or a pointer to one).
// Growing and shrinking replace the slice header, so the container must be
// addressable for Add, Insert, RemoveAt and Remove.
func NewSlice(t reflect.Type) apis.CollectionDescriptor {
	return &slice{t: t, elem: elemOf(t)}
}

// NewArray returns a fixed-size collection descriptor for an array type t.
// Items can be replaced but never added or removed.
func NewArray(t reflect.Type) apis.CollectionDescriptor {
	return &array{slice{t: t, elem: elemOf(t)}}
}

// NewSet returns a collection descriptor for a map[K]struct{} type t. Items
// are the keys in sorted order; the collection is not a list, so Add does not
// report a position.
func NewSet(t reflect.Type) apis.CollectionDescriptor {
	base := t
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	return &set{t: t, key: base.Key()}
}

func elemOf(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Elem()
}

type slice struct {
	t    reflect.Type
	elem reflect.Type
}

var _ apis.CollectionDescriptor = (*slice)(nil)

func (s *slice) Type() reflect.Type        { return s.t }
func (*slice) Category() apis.Category     { return apis.Collection }
func (s *slice) ElementType() reflect.Type { return s.elem }
func (*slice) IsList() bool                { return true }
func (*slice) IsFixedSize() bool           { return false }
func (*slice) HasInsert() bool             { return true }
func (*slice) HasRemoveAt() bool           { return true }

func (s *slice) Count(c reflect.Value) int {
	v := deref(c)
	if !v.IsValid() {
		return 0
	}
	return v.Len()
}

func (s *slice) Get(c reflect.Value, i int) reflect.Value {
	v := deref(c)
	if !v.IsValid() || i < 0 || i >= v.Len() {
		return reflect.Value{}
	}
	return v.Index(i)
}

func (s *slice) Items(c reflect.Value) []reflect.Value {
	v := deref(c)
	if !v.IsValid() {
		return nil
	}
	out := make([]reflect.Value, v.Len())
	for i := range out {
		out[i] = v.Index(i)
	}
	return out
}

func (s *slice) Set(c reflect.Value, i int, x reflect.Value) error {
	v := deref(c)
	if !v.IsValid() {
		return ErrNilContainer
	}
	if i < 0 || i >= v.Len() {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, v.Len())
	}
	item := v.Index(i)
	if !item.CanSet() {
		return ErrNotAddressable
	}
	av, err := uref.AssignValue(x, s.elem)
	if err != nil {
		return err
	}
	item.Set(av)
	return nil
}

func (s *slice) Add(c reflect.Value, x reflect.Value) error {
	v, err := settable(c)
	if err != nil {
		return err
	}
	av, err := uref.AssignValue(x, s.elem)
	if err != nil {
		return err
	}
	v.Set(reflect.Append(v, av))
	return nil
}

func (s *slice) Insert(c reflect.Value, i int, x reflect.Value) error {
	v, err := settable(c)
	if err != nil {
		return err
	}
	n := v.Len()
	if i < 0 || i > n {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, n)
	}
	av, err := uref.AssignValue(x, s.elem)
	if err != nil {
		return err
	}
	v.Set(reflect.Append(v, reflect.Zero(s.elem)))
	reflect.Copy(v.Slice(i+1, n+1), v.Slice(i, n))
	v.Index(i).Set(av)
	return nil
}

func (s *slice) RemoveAt(c reflect.Value, i int) error {
	v, err := settable(c)
	if err != nil {
		return err
	}
	n := v.Len()
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, n)
	}
	reflect.Copy(v.Slice(i, n-1), v.Slice(i+1, n))
	v.Index(n - 1).Set(reflect.Zero(s.elem))
	v.SetLen(n - 1)
	return nil
}

func (s *slice) Remove(c reflect.Value, x reflect.Value) error {
	v := deref(c)
	if !v.IsValid() {
		return ErrNilContainer
	}
	i := indexOf(v, x)
	if i < 0 {
		return ErrItemNotFound
	}
	return s.RemoveAt(c, i)
}

// indexOf returns the first position of x in v using object sameness.
func indexOf(v reflect.Value, x reflect.Value) int {
	want := uref.ObjectOf(x)
	for i := 0; i < v.Len(); i++ {
		if uref.Same(uref.ObjectOf(v.Index(i)), want) {
			return i
		}
	}
	return -1
}

func settable(c reflect.Value) (reflect.Value, error) {
	v := deref(c)
	if !v.IsValid() {
		return v, ErrNilContainer
	}
	if !v.CanSet() {
		return v, ErrNotAddressable
	}
	return v, nil
}

type array struct {
	slice
}

func (*array) IsList() bool      { return false }
func (*array) IsFixedSize() bool { return true }
func (*array) HasInsert() bool   { return false }
func (*array) HasRemoveAt() bool { return false }

func (a *array) Add(reflect.Value, reflect.Value) error {
	return fmt.Errorf("%w: add on %s", ErrUnsupported, a.t)
}

func (a *array) Insert(reflect.Value, int, reflect.Value) error {
	return fmt.Errorf("%w: insert on %s", ErrUnsupported, a.t)
}

func (a *array) RemoveAt(reflect.Value, int) error {
	return fmt.Errorf("%w: remove on %s", ErrUnsupported, a.t)
}

func (a *array) Remove(reflect.Value, reflect.Value) error {
	return fmt.Errorf("%w: remove on %s", ErrUnsupported, a.t)
}

type set struct {
	t   reflect.Type
	key reflect.Type
}

var _ apis.CollectionDescriptor = (*set)(nil)

func (s *set) Type() reflect.Type        { return s.t }
func (*set) Category() apis.Category     { return apis.Collection }
func (s *set) ElementType() reflect.Type { return s.key }
func (*set) IsList() bool                { return false }
func (*set) IsFixedSize() bool           { return false }
func (*set) HasInsert() bool             { return false }
func (*set) HasRemoveAt() bool           { return true }

func (s *set) Count(c reflect.Value) int {
	v := deref(c)
	if !v.IsValid() {
		return 0
	}
	return v.Len()
}

func (s *set) Get(c reflect.Value, i int) reflect.Value {
	v := deref(c)
	if !v.IsValid() {
		return reflect.Value{}
	}
	keys := SortedKeys(v)
	if i < 0 || i >= len(keys) {
		return reflect.Value{}
	}
	return keys[i]
}

func (s *set) Items(c reflect.Value) []reflect.Value {
	v := deref(c)
	if !v.IsValid() {
		return nil
	}
	return SortedKeys(v)
}

func (s *set) Set(c reflect.Value, i int, x reflect.Value) error {
	v := deref(c)
	if !v.IsValid() {
		return ErrNilContainer
	}
	keys := SortedKeys(v)
	if i < 0 || i >= len(keys) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(keys))
	}
	k, err := uref.AssignValue(x, s.key)
	if err != nil {
		return err
	}
	v.SetMapIndex(keys[i], reflect.Value{})
	v.SetMapIndex(k, reflect.Zero(v.Type().Elem()))
	return nil
}

func (s *set) Add(c reflect.Value, x reflect.Value) error {
	v := deref(c)
	if !v.IsValid() {
		return ErrNilContainer
	}
	if v.IsNil() {
		if !v.CanSet() {
			return ErrNotAddressable
		}
		v.Set(reflect.MakeMap(v.Type()))
	}
	k, err := uref.AssignValue(x, s.key)
	if err != nil {
		return err
	}
	v.SetMapIndex(k, reflect.Zero(v.Type().Elem()))
	return nil
}

func (s *set) Insert(reflect.Value, int, reflect.Value) error {
	return fmt.Errorf("%w: insert on %s", ErrUnsupported, s.t)
}

func (s *set) RemoveAt(c reflect.Value, i int) error {
	k := s.Get(c, i)
	if !k.IsValid() {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	deref(c).SetMapIndex(k, reflect.Value{})
	return nil
}

func (s *set) Remove(c reflect.Value, x reflect.Value) error {
	v := deref(c)
	if !v.IsValid() {
		return ErrNilContainer
	}
	k, err := uref.AssignValue(x, s.key)
	if err != nil {
		return err
	}
	if !v.MapIndex(k).IsValid() {
		return ErrItemNotFound
	}
	v.SetMapIndex(k, reflect.Value{})
	return nil
}
