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

// NewMap returns a dictionary descriptor for a map type t (or a pointer to one).
// A nil map is created on first write when the container is addressable.
func NewMap(t reflect.Type) apis.DictionaryDescriptor {
	base := t
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	return &dictionary{t: t, key: base.Key(), value: base.Elem()}
}

type dictionary struct {
	t     reflect.Type
	key   reflect.Type
	value reflect.Type
}

var _ apis.DictionaryDescriptor = (*dictionary)(nil)

func (d *dictionary) Type() reflect.Type      { return d.t }
func (*dictionary) Category() apis.Category   { return apis.Dictionary }
func (d *dictionary) KeyType() reflect.Type   { return d.key }
func (d *dictionary) ValueType() reflect.Type { return d.value }

func (d *dictionary) Keys(c reflect.Value) []reflect.Value {
	v := deref(c)
	if !v.IsValid() || v.IsNil() {
		return nil
	}
	return SortedKeys(v)
}

func (d *dictionary) Get(c reflect.Value, key reflect.Value) (reflect.Value, bool) {
	v := deref(c)
	if !v.IsValid() || v.IsNil() {
		return reflect.Value{}, false
	}
	k, err := uref.AssignValue(key, d.key)
	if err != nil {
		return reflect.Value{}, false
	}
	x := v.MapIndex(k)
	return x, x.IsValid()
}

func (d *dictionary) Set(c reflect.Value, key reflect.Value, x reflect.Value) error {
	v, k, err := d.prepare(c, key)
	if err != nil {
		return err
	}
	av, err := uref.AssignValue(x, d.value)
	if err != nil {
		return err
	}
	v.SetMapIndex(k, av)
	return nil
}

func (d *dictionary) Add(c reflect.Value, key reflect.Value, x reflect.Value) error {
	v, k, err := d.prepare(c, key)
	if err != nil {
		return err
	}
	if v.MapIndex(k).IsValid() {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, k)
	}
	av, err := uref.AssignValue(x, d.value)
	if err != nil {
		return err
	}
	v.SetMapIndex(k, av)
	return nil
}

func (d *dictionary) Remove(c reflect.Value, key reflect.Value) error {
	v := deref(c)
	if !v.IsValid() {
		return ErrNilContainer
	}
	k, err := uref.AssignValue(key, d.key)
	if err != nil {
		return err
	}
	if v.IsNil() || !v.MapIndex(k).IsValid() {
		return fmt.Errorf("%w: %v", ErrKeyNotFound, k)
	}
	v.SetMapIndex(k, reflect.Value{})
	return nil
}

func (d *dictionary) ContainsKey(c reflect.Value, key reflect.Value) bool {
	_, ok := d.Get(c, key)
	return ok
}

// prepare resolves the map (creating it when nil) and converts key.
func (d *dictionary) prepare(c reflect.Value, key reflect.Value) (reflect.Value, reflect.Value, error) {
	v := deref(c)
	if !v.IsValid() {
		return v, reflect.Value{}, ErrNilContainer
	}
	k, err := uref.AssignValue(key, d.key)
	if err != nil {
		return v, k, err
	}
	if v.IsNil() {
		if !v.CanSet() {
			return v, k, ErrNotAddressable
		}
		v.Set(reflect.MakeMap(v.Type()))
	}
	return v, k, nil
}
