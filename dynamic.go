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

package quantum

import (
	"fmt"

	"dirpx.dev/quantum/apis"
)

// DynamicNode navigates a graph by member names and indices without static
// types. It designates either a node or, with a non-empty index, one item of
// the node's collection. References are followed transparently.
type DynamicNode struct {
	node  *Node
	index Index
}

// NewDynamicNode returns a DynamicNode designating n.
func NewDynamicNode(n *Node) *DynamicNode {
	return &DynamicNode{node: n}
}

// Node returns the node holding the designated value.
func (d *DynamicNode) Node() *Node { return d.node }

// Index returns the item index, or EmptyIndex when the node itself is designated.
func (d *DynamicNode) Index() Index { return d.index }

// Member returns the member called name of the designated object.
func (d *DynamicNode) Member(name string) (*DynamicNode, error) {
	n, err := d.object()
	if err != nil {
		return nil, err
	}
	child := n.Child(name)
	if child == nil {
		return nil, fmt.Errorf("%w: %s on %s", ErrMemberNotFound, name, n.name)
	}
	return &DynamicNode{node: child}, nil
}

// At returns the item at index of the designated collection.
func (d *DynamicNode) At(index Index) (*DynamicNode, error) {
	if index.IsEmpty() {
		return nil, ErrEmptyIndex
	}
	n, err := d.object()
	if err != nil {
		return nil, err
	}
	if _, err := n.content.Retrieve(index); err != nil {
		return nil, err
	}
	index, _ = n.content.base().normalizeIndex(index)
	return &DynamicNode{node: n, index: index}, nil
}

// Retrieve returns the designated value.
func (d *DynamicNode) Retrieve() (any, error) {
	if d.node == nil {
		return nil, ErrNilNode
	}
	return d.node.content.Retrieve(d.index)
}

// Set replaces the designated value.
func (d *DynamicNode) Set(value any) error {
	if d.node == nil {
		return ErrNilNode
	}
	return d.node.content.Update(value, d.index)
}

// TrySet assigns member name and reports whether it succeeded. Errors are
// not surfaced.
func (d *DynamicNode) TrySet(name string, value any) bool {
	m, err := d.Member(name)
	if err != nil {
		return false
	}
	return m.Set(value) == nil
}

// SetAt replaces the item at index of the designated collection.
func (d *DynamicNode) SetAt(index Index, value any) error {
	n, err := d.object()
	if err != nil {
		return err
	}
	return n.content.Update(value, index)
}

// Add appends item to the designated collection.
func (d *DynamicNode) Add(item any) error {
	n, err := d.object()
	if err != nil {
		return err
	}
	return n.content.Add(item)
}

// Insert inserts item at index of the designated collection or dictionary.
func (d *DynamicNode) Insert(item any, index Index) error {
	n, err := d.object()
	if err != nil {
		return err
	}
	return n.content.Insert(item, index)
}

// Remove removes the item at index, or item itself when index is empty.
func (d *DynamicNode) Remove(item any, index Index) error {
	n, err := d.object()
	if err != nil {
		return err
	}
	return n.content.Remove(item, index)
}

// MemberNames returns the member names of the designated object.
func (d *DynamicNode) MemberNames() []string {
	n, err := d.object()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(n.children))
	for _, c := range n.children {
		names = append(names, c.name)
	}
	return names
}

// Items returns one DynamicNode per item of the designated collection or
// dictionary, in enumeration order.
func (d *DynamicNode) Items() []*DynamicNode {
	n, err := d.object()
	if err != nil {
		return nil
	}
	var out []*DynamicNode
	if r, ok := n.content.Reference().(*ReferenceEnumerable); ok {
		for _, index := range r.Indices() {
			out = append(out, &DynamicNode{node: n, index: index})
		}
		return out
	}
	b := n.content.base()
	v := b.acc.live()
	switch dd := b.desc.(type) {
	case apis.CollectionDescriptor:
		for i := range dd.Count(v) {
			out = append(out, &DynamicNode{node: n, index: IntIndex(i)})
		}
	case apis.DictionaryDescriptor:
		for _, k := range dd.Keys(v) {
			out = append(out, &DynamicNode{node: n, index: KeyIndex(k.Interface())})
		}
	}
	return out
}

// object returns the node holding the designated value, following the
// reference of an indexed item or of an object node.
func (d *DynamicNode) object() (*Node, error) {
	n := d.node
	if n == nil {
		return nil, ErrNilNode
	}
	if !d.index.IsEmpty() {
		t, err := n.IndexedTarget(d.index)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, fmt.Errorf("%w: %s at %s", ErrNilValue, n.name, d.index)
		}
		return t, nil
	}
	if _, ok := n.content.Reference().(*ObjectReference); ok {
		t := n.Target()
		if t == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilValue, n.name)
		}
		return t, nil
	}
	return n, nil
}
