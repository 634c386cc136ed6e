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

// NewObject returns a descriptor for t exposing members in the given order.
// Later members with a duplicate name are ignored.
func NewObject(t reflect.Type, members ...apis.MemberDescriptor) apis.ObjectDescriptor {
	o := &object{t: t, byName: make(map[string]int, len(members))}
	for _, m := range members {
		if m == nil {
			continue
		}
		if _, dup := o.byName[m.Name()]; dup {
			continue
		}
		o.byName[m.Name()] = len(o.members)
		o.members = append(o.members, m)
	}
	return o
}

type object struct {
	t       reflect.Type
	members []apis.MemberDescriptor
	byName  map[string]int
}

var _ apis.ObjectDescriptor = (*object)(nil)

func (o *object) Type() reflect.Type    { return o.t }
func (*object) Category() apis.Category { return apis.Object }

func (o *object) Members() []apis.MemberDescriptor {
	out := make([]apis.MemberDescriptor, len(o.members))
	copy(out, o.members)
	return out
}

func (o *object) Member(name string) (apis.MemberDescriptor, bool) {
	i, ok := o.byName[name]
	if !ok {
		return nil, false
	}
	return o.members[i], true
}

// NewField returns a member backed by a struct field.
// The container may be the struct itself or a pointer to it.
func NewField(name string, sf reflect.StructField) apis.MemberDescriptor {
	return &field{name: name, sf: sf}
}

type field struct {
	name string
	sf   reflect.StructField
}

var _ apis.MemberDescriptor = (*field)(nil)

func (f *field) Name() string       { return f.name }
func (f *field) Type() reflect.Type { return f.sf.Type }
func (f *field) CanSet() bool       { return f.sf.IsExported() }

func (f *field) Get(container reflect.Value) reflect.Value {
	s := deref(container)
	if !s.IsValid() || s.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	v, err := s.FieldByIndexErr(f.sf.Index)
	if err != nil {
		return reflect.Value{}
	}
	return v
}

func (f *field) Set(container reflect.Value, value reflect.Value) error {
	if !f.CanSet() {
		return fmt.Errorf("%w: %s", ErrNotSettable, f.name)
	}
	s := deref(container)
	if !s.IsValid() {
		return ErrNilContainer
	}
	v, err := s.FieldByIndexErr(f.sf.Index)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNilContainer, f.name, err)
	}
	if !v.CanSet() {
		return fmt.Errorf("%w: field %s", ErrNotAddressable, f.name)
	}
	av, err := uref.AssignValue(value, v.Type())
	if err != nil {
		return fmt.Errorf("quantum(descriptor): member %s: %w", f.name, err)
	}
	v.Set(av)
	return nil
}

// GetFunc reads a member value from its container.
type GetFunc func(container reflect.Value) reflect.Value

// SetFunc writes a member value into its container.
type SetFunc func(container reflect.Value, value reflect.Value) error

// NewAccessor returns a member backed by functions, for computed or
// getter/setter style members. A nil set makes the member read-only.
func NewAccessor(name string, t reflect.Type, get GetFunc, set SetFunc) apis.MemberDescriptor {
	return &accessor{name: name, t: t, get: get, set: set}
}

type accessor struct {
	name string
	t    reflect.Type
	get  GetFunc
	set  SetFunc
}

var _ apis.MemberDescriptor = (*accessor)(nil)

func (a *accessor) Name() string       { return a.name }
func (a *accessor) Type() reflect.Type { return a.t }
func (a *accessor) CanSet() bool       { return a.set != nil }

func (a *accessor) Get(container reflect.Value) reflect.Value {
	if a.get == nil {
		return reflect.Value{}
	}
	return a.get(container)
}

func (a *accessor) Set(container reflect.Value, value reflect.Value) error {
	if a.set == nil {
		return fmt.Errorf("%w: %s", ErrNotSettable, a.name)
	}
	av, err := uref.AssignValue(value, a.t)
	if err != nil {
		return fmt.Errorf("quantum(descriptor): member %s: %w", a.name, err)
	}
	return a.set(container, av)
}
