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

package quantum_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"dirpx.dev/quantum"
	"dirpx.dev/quantum/apis"
	"dirpx.dev/quantum/descriptor"
)

type Point struct{ X, Y int }

type Segment struct{ From, To Point }

type Child struct {
	Value int
	Next  *Child
}

type Parent struct {
	Name     string
	Label    string `quantum:"label"`
	Skip     int    `quantum:"-"`
	Point    Point
	Child    *Child
	Items    []*Child
	Points   []Point
	Segments []Segment
	Tags     []string
	Set      map[string]struct{}
	ByName   map[string]*Child
	Counts   map[string]int
	Shape    any
}

var parentMembers = []string{
	"Name", "label", "Point", "Child", "Items", "Points", "Segments",
	"Tags", "Set", "ByName", "Counts", "Shape",
}

func newParent() *Parent {
	shared := &Child{Value: 10}
	return &Parent{
		Name:     "root",
		Label:    "lbl",
		Point:    Point{X: 1, Y: 2},
		Child:    shared,
		Items:    []*Child{{Value: 1}, {Value: 2}, {Value: 3}},
		Points:   []Point{{X: 1, Y: 1}, {X: 2, Y: 2}},
		Segments: []Segment{{From: Point{}, To: Point{X: 1, Y: 1}}},
		Tags:     []string{"a", "b"},
		Set:      map[string]struct{}{"x": {}},
		ByName:   map[string]*Child{"shared": shared},
		Counts:   map[string]int{"a": 1},
	}
}

// Bag claims to be a collection although it is a struct.
type Bag struct{ items []*Child }

func (Bag) QuantumDescriptor() apis.Descriptor {
	return descriptor.NewSlice(reflect.TypeOf([]*Child{}))
}

// Faulty has a member whose setter always fails.
type Faulty struct{ v int }

var errFaulty = descriptor.ErrNotSettable

func (*Faulty) QuantumDescriptor() apis.Descriptor {
	get := func(c reflect.Value) reflect.Value { return c.Elem().Field(0) }
	set := func(reflect.Value, reflect.Value) error { return errFaulty }
	return descriptor.NewObject(reflect.TypeOf(&Faulty{}),
		descriptor.NewAccessor("V", reflect.TypeOf(0), get, set))
}

func newContainer(t *testing.T, opts ...quantum.Option) *quantum.Container {
	t.Helper()
	c, err := quantum.NewContainer(opts...)
	require.NoError(t, err)
	return c
}

func build(t *testing.T, c *quantum.Container, v any) *quantum.Node {
	t.Helper()
	n, err := c.GetOrCreateNode(v)
	require.NoError(t, err)
	require.NotNil(t, n)
	return n
}

func childNames(n *quantum.Node) []string {
	var out []string
	for _, c := range n.Children() {
		out = append(out, c.Name())
	}
	return out
}

func update(t *testing.T, n *quantum.Node, value any) {
	t.Helper()
	require.NoError(t, n.Content().Update(value, quantum.EmptyIndex))
}

func target(t *testing.T, n *quantum.Node, index quantum.Index) *quantum.Node {
	t.Helper()
	tn, err := n.IndexedTarget(index)
	require.NoError(t, err)
	require.NotNil(t, tn)
	return tn
}

// recorder collects the phases of every event emitted by a content.
type recorder struct {
	phases []quantum.Phase
	events []quantum.ChangeEvent
}

func record(c quantum.Content) *recorder {
	r := &recorder{}
	for _, p := range []quantum.Phase{quantum.PrepareChange, quantum.Changing, quantum.Changed, quantum.FinalizeChange} {
		c.Subscribe(p, func(ev quantum.ChangeEvent) {
			r.phases = append(r.phases, p)
			r.events = append(r.events, ev)
		})
	}
	return r
}
