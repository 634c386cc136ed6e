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

package descriptor_test

import (
	"errors"
	"reflect"
	"testing"

	"dirpx.dev/quantum/apis"
	"dirpx.dev/quantum/descriptor"
)

type point struct {
	X, Y int
	name string
}

func fieldOf(t *testing.T, typ reflect.Type, name string) apis.MemberDescriptor {
	t.Helper()
	sf, ok := typ.FieldByName(name)
	if !ok {
		t.Fatalf("no field %s on %v", name, typ)
	}
	return descriptor.NewField(name, sf)
}

func TestObject_MembersOrderAndLookup(t *testing.T) {
	pt := reflect.TypeOf(point{})
	x, y := fieldOf(t, pt, "X"), fieldOf(t, pt, "Y")
	od := descriptor.NewObject(pt, x, y, x)

	if od.Category() != apis.Object {
		t.Fatalf("Category() = %v, want object", od.Category())
	}
	ms := od.Members()
	if len(ms) != 2 || ms[0].Name() != "X" || ms[1].Name() != "Y" {
		t.Fatalf("Members() = %v, want [X Y]", ms)
	}
	if _, ok := od.Member("Z"); ok {
		t.Fatalf("Member(Z) found, want missing")
	}
}

func TestField_GetSetThroughPointer(t *testing.T) {
	p := &point{X: 1}
	x := fieldOf(t, reflect.TypeOf(point{}), "X")

	if got := x.Get(reflect.ValueOf(p)).Int(); got != 1 {
		t.Fatalf("Get = %d, want 1", got)
	}
	if err := x.Set(reflect.ValueOf(p), reflect.ValueOf(int8(9))); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if p.X != 9 {
		t.Fatalf("p.X = %d, want 9", p.X)
	}
}

func TestField_SetOnValueIsNotAddressable(t *testing.T) {
	x := fieldOf(t, reflect.TypeOf(point{}), "X")
	err := x.Set(reflect.ValueOf(point{}), reflect.ValueOf(3))
	if !errors.Is(err, descriptor.ErrNotAddressable) {
		t.Fatalf("Set on value: err = %v, want ErrNotAddressable", err)
	}
}

func TestField_UnexportedIsReadOnly(t *testing.T) {
	n := fieldOf(t, reflect.TypeOf(point{}), "name")
	if n.CanSet() {
		t.Fatalf("CanSet() = true for unexported field")
	}
	if err := n.Set(reflect.ValueOf(&point{}), reflect.ValueOf("a")); !errors.Is(err, descriptor.ErrNotSettable) {
		t.Fatalf("Set: err = %v, want ErrNotSettable", err)
	}
}

func TestAccessor(t *testing.T) {
	p := &point{X: 2, Y: 3}
	sum := descriptor.NewAccessor("Sum", reflect.TypeOf(0),
		func(c reflect.Value) reflect.Value {
			pp := c.Interface().(*point)
			return reflect.ValueOf(pp.X + pp.Y)
		}, nil)
	if got := sum.Get(reflect.ValueOf(p)).Int(); got != 5 {
		t.Fatalf("Sum = %d, want 5", got)
	}
	if sum.CanSet() {
		t.Fatalf("read-only accessor reports CanSet")
	}
}

func TestSlice_Mutations(t *testing.T) {
	s := []int{1, 2, 3}
	v := reflect.ValueOf(&s)
	cd := descriptor.NewSlice(reflect.TypeOf(s))

	if !cd.IsList() || !cd.HasInsert() || !cd.HasRemoveAt() {
		t.Fatalf("slice capabilities mismatch")
	}
	if err := cd.Add(v, reflect.ValueOf(4)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := cd.Insert(v, 0, reflect.ValueOf(0)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := cd.RemoveAt(v, 2); err != nil {
		t.Fatalf("RemoveAt: %v", err)
	}
	if err := cd.Set(v, 1, reflect.ValueOf(10)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cd.Remove(v, reflect.ValueOf(4)); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	want := []int{0, 10, 3}
	if !reflect.DeepEqual(s, want) {
		t.Fatalf("s = %v, want %v", s, want)
	}
	if cd.Count(v) != 3 || cd.Get(v, 5).IsValid() {
		t.Fatalf("Count/Get bounds mismatch")
	}
	if err := cd.RemoveAt(v, 7); !errors.Is(err, descriptor.ErrIndexOutOfRange) {
		t.Fatalf("RemoveAt(7): err = %v", err)
	}
	if err := cd.Add(reflect.ValueOf(s), reflect.ValueOf(1)); !errors.Is(err, descriptor.ErrNotAddressable) {
		t.Fatalf("Add on value: err = %v", err)
	}
}

func TestSlice_RemoveByIdentity(t *testing.T) {
	a, b := &point{X: 1}, &point{X: 1}
	s := []*point{a, b}
	cd := descriptor.NewSlice(reflect.TypeOf(s))
	if err := cd.Remove(reflect.ValueOf(&s), reflect.ValueOf(b)); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(s) != 1 || s[0] != a {
		t.Fatalf("Remove removed the wrong item")
	}
}

func TestArray_FixedSize(t *testing.T) {
	arr := [2]string{"a", "b"}
	cd := descriptor.NewArray(reflect.TypeOf(arr))
	v := reflect.ValueOf(&arr)

	if cd.IsList() || !cd.IsFixedSize() || cd.HasInsert() || cd.HasRemoveAt() {
		t.Fatalf("array capabilities mismatch")
	}
	if err := cd.Set(v, 1, reflect.ValueOf("z")); err != nil || arr[1] != "z" {
		t.Fatalf("Set: %v, arr = %v", err, arr)
	}
	if err := cd.Add(v, reflect.ValueOf("c")); !errors.Is(err, descriptor.ErrUnsupported) {
		t.Fatalf("Add: err = %v, want ErrUnsupported", err)
	}
}

func TestSet_KeysAsItems(t *testing.T) {
	var m map[string]struct{}
	cd := descriptor.NewSet(reflect.TypeOf(m))
	v := reflect.ValueOf(&m)

	if cd.IsList() {
		t.Fatalf("set reports IsList")
	}
	for _, k := range []string{"b", "a", "c"} {
		if err := cd.Add(v, reflect.ValueOf(k)); err != nil {
			t.Fatalf("Add(%s): %v", k, err)
		}
	}
	if cd.Count(v) != 3 || cd.Get(v, 0).String() != "a" || cd.Get(v, 2).String() != "c" {
		t.Fatalf("set order mismatch: %v", m)
	}
	if err := cd.Remove(v, reflect.ValueOf("b")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := m["b"]; ok {
		t.Fatalf("b still present")
	}
}

func TestSet_PointerKeysWithEqualPointees(t *testing.T) {
	a, b := &point{X: 1}, &point{X: 1}
	m := map[*point]struct{}{a: {}, b: {}}
	cd := descriptor.NewSet(reflect.TypeOf(m))
	v := reflect.ValueOf(m)

	for range 50 {
		items := cd.Items(v)
		if len(items) != 2 {
			t.Fatalf("Items len = %d, want 2", len(items))
		}
		first, second := items[0].Interface(), items[1].Interface()
		if first == second {
			t.Fatalf("Items returned %p twice", first)
		}
		if got := cd.Get(v, 0).Interface(); got != first {
			t.Fatalf("Get(0) = %p, Items()[0] = %p", got, first)
		}
		if got := cd.Get(v, 1).Interface(); got != second {
			t.Fatalf("Get(1) = %p, Items()[1] = %p", got, second)
		}
	}
}

func TestSortedKeys_Composite(t *testing.T) {
	type key struct {
		A string
		B int
	}
	m := map[key]int{{"b", 1}: 0, {"a", 2}: 0, {"a", 1}: 0}
	keys := descriptor.SortedKeys(reflect.ValueOf(m))
	want := []key{{"a", 1}, {"a", 2}, {"b", 1}}
	for i, k := range keys {
		if got := k.Interface().(key); got != want[i] {
			t.Fatalf("key %d = %v, want %v", i, got, want[i])
		}
	}

	mixed := map[any]bool{2: true, "x": true, 1: true, nil: true}
	keys = descriptor.SortedKeys(reflect.ValueOf(mixed))
	if len(keys) != 4 || !keys[0].IsNil() {
		t.Fatalf("nil key not first: %v", keys)
	}
	if keys[1].Elem().Int() != 1 || keys[2].Elem().Int() != 2 {
		t.Fatalf("int keys out of order: %v", keys)
	}
}

func TestMap_Operations(t *testing.T) {
	var m map[int]string
	dd := descriptor.NewMap(reflect.TypeOf(m))
	v := reflect.ValueOf(&m)

	if dd.KeyType() != reflect.TypeOf(0) || dd.ValueType() != reflect.TypeOf("") {
		t.Fatalf("key/value types mismatch")
	}
	if err := dd.Add(v, reflect.ValueOf(2), reflect.ValueOf("two")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := dd.Add(v, reflect.ValueOf(2), reflect.ValueOf("again")); !errors.Is(err, descriptor.ErrDuplicateKey) {
		t.Fatalf("Add dup: err = %v", err)
	}
	if err := dd.Set(v, reflect.ValueOf(1), reflect.ValueOf("one")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	keys := dd.Keys(v)
	if len(keys) != 2 || keys[0].Int() != 1 || keys[1].Int() != 2 {
		t.Fatalf("Keys = %v, want [1 2]", keys)
	}
	if got, ok := dd.Get(v, reflect.ValueOf(int32(2))); !ok || got.String() != "two" {
		t.Fatalf("Get(2) = %v, %v", got, ok)
	}
	if err := dd.Remove(v, reflect.ValueOf(5)); !errors.Is(err, descriptor.ErrKeyNotFound) {
		t.Fatalf("Remove missing: err = %v", err)
	}
	if err := dd.Remove(v, reflect.ValueOf(1)); err != nil || dd.ContainsKey(v, reflect.ValueOf(1)) {
		t.Fatalf("Remove(1): %v", err)
	}
}
