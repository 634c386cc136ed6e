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
	"reflect"

	"github.com/google/uuid"

	"dirpx.dev/quantum/apis"
	uref "dirpx.dev/quantum/utils/reflect"
)

// NodeBuilder turns one root value into a sealed node tree. Contents holding
// a reference are collected in a working set; resolving their targets is left
// to the Container, so cyclic data never recurses here.
//
// A NodeBuilder is not safe for concurrent use. The Container serializes it.
type NodeBuilder struct {
	ts          *TypeSystem
	factory     ContentFactory
	nodeFactory NodeFactory
	commands    []Command
	container   *Container
	refs        []Content

	// Constructing is called before a member node is created. Returning
	// false discards the member.
	Constructing func(parent *Node, member apis.MemberDescriptor) bool
	// Constructed is called once a node is sealed.
	Constructed func(n *Node)
}

// NewNodeBuilder returns a builder using ts, or a fresh TypeSystem when nil.
func NewNodeBuilder(ts *TypeSystem, factory ContentFactory, commands ...Command) *NodeBuilder {
	if ts == nil {
		ts = NewTypeSystem()
	}
	if factory == nil {
		factory = DefaultContentFactory
	}
	return &NodeBuilder{ts: ts, factory: factory, nodeFactory: NewNode, commands: commands}
}

// TypeSystem returns the type system used to describe values.
func (b *NodeBuilder) TypeSystem() *TypeSystem { return b.ts }

// ReferenceContents returns the contents holding a reference that the last
// Build created.
func (b *NodeBuilder) ReferenceContents() []Content {
	out := make([]Content, len(b.refs))
	copy(out, b.refs)
	return out
}

// Build creates the node tree of value with guid as the root Guid. Pointers
// and maps become object roots; structs, slices and arrays are boxed.
func (b *NodeBuilder) Build(value any, guid uuid.UUID) (*Node, error) {
	b.refs = b.refs[:0]
	rv := reflect.ValueOf(value)
	if uref.IsNil(rv) {
		return nil, ErrNilValue
	}
	t := rv.Type()
	d := b.ts.Find(t)
	name := t.String()

	shape, err := b.referenceShape(t, d)
	if err != nil {
		return nil, err
	}
	if t.Kind() == reflect.Struct && shape == enumerableShape {
		return nil, &ConsistencyError{Expected: "a structure without collection reference", Actual: "a collection reference", Node: name}
	}
	var ref Reference
	if shape == enumerableShape {
		// Root contents only keep enumerable references; an object root
		// exposes its members directly.
		ref = newReferenceEnumerable(rv, d, itemType(d))
	}

	kind := RootContent
	switch t.Kind() {
	case reflect.Struct, reflect.Slice, reflect.Array:
		kind = BoxedRootContent
	}
	content, err := b.factory.CreateContent(ContentRequest{
		Kind:        kind,
		Value:       rv,
		Descriptor:  d,
		Reference:   ref,
		IsPrimitive: d.Category() == apis.Primitive,
	})
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, fmt.Errorf("%w: no content for %s", ErrUnsupported, name)
	}

	root := b.newNode(name, content, guid, nil)
	if content.IsReference() {
		b.refs = append(b.refs, content)
	} else if od, ok := d.(apis.ObjectDescriptor); ok {
		if err := b.visitMembers(root, od); err != nil {
			return nil, err
		}
	}
	b.seal(root)
	return root, nil
}

// CreateReferenceForNode returns the reference that a position of static
// type t holding value needs, or nil when it needs none. Primitives and
// plain structs hold no reference. Pointers and interfaces get an
// ObjectReference. Collections and dictionaries of non-primitive items get a
// ReferenceEnumerable, even when empty. A dictionary with a non-primitive key
// type is a consistency error.
func (b *NodeBuilder) CreateReferenceForNode(t reflect.Type, value any) (Reference, error) {
	d := b.ts.Find(t)
	shape, err := b.referenceShape(t, d)
	if err != nil {
		return nil, err
	}
	switch shape {
	case objectShape:
		return newObjectReference(value, t, EmptyIndex), nil
	case enumerableShape:
		return newReferenceEnumerable(reflect.ValueOf(value), d, itemType(d)), nil
	}
	return nil, nil
}

type refShape int

const (
	noShape refShape = iota
	objectShape
	enumerableShape
)

func (b *NodeBuilder) referenceShape(t reflect.Type, d apis.Descriptor) (refShape, error) {
	switch dd := d.(type) {
	case apis.DictionaryDescriptor:
		if !b.ts.IsPrimitive(dd.KeyType()) {
			return noShape, &ConsistencyError{Expected: "a primitive key type", Actual: dd.KeyType().String(), Node: t.String()}
		}
		if !b.ts.IsPrimitive(dd.ValueType()) {
			return enumerableShape, nil
		}
	case apis.CollectionDescriptor:
		if !b.ts.IsPrimitive(dd.ElementType()) {
			return enumerableShape, nil
		}
	case apis.ObjectDescriptor:
		if t.Kind() != reflect.Struct {
			return objectShape, nil
		}
	}
	return noShape, nil
}

func (b *NodeBuilder) visitMembers(parent *Node, od apis.ObjectDescriptor) error {
	pc := parent.content
	for _, m := range od.Members() {
		if b.Constructing != nil && !b.Constructing(parent, m) {
			continue
		}
		mt := m.Type()
		md := b.ts.Find(mt)
		mv := m.Get(pc.base().acc.live())

		ref, err := b.CreateReferenceForNode(mt, uref.ObjectOf(mv))
		if err != nil {
			return err
		}
		content, err := b.factory.CreateContent(ContentRequest{
			Kind:        MemberContentKind,
			Parent:      pc,
			Member:      m,
			Descriptor:  md,
			Reference:   ref,
			IsPrimitive: md.Category() == apis.Primitive,
		})
		if err != nil {
			return err
		}
		if content == nil {
			return fmt.Errorf("%w: no content for member %s", ErrUnsupported, m.Name())
		}

		child := b.newNode(m.Name(), content, uuid.New(), m)
		if content.IsReference() {
			b.refs = append(b.refs, content)
		} else if cod, ok := md.(apis.ObjectDescriptor); ok && mt.Kind() == reflect.Struct {
			// Struct members hold their fields inline.
			if err := b.visitMembers(child, cod); err != nil {
				return err
			}
		}
		b.seal(child)
		if err := parent.AddChild(child); err != nil {
			return err
		}
	}
	return nil
}

func (b *NodeBuilder) newNode(name string, content Content, guid uuid.UUID, m apis.MemberDescriptor) *Node {
	nf := b.nodeFactory
	if nf == nil {
		nf = NewNode
	}
	n := nf(name, content, guid)
	if n == nil {
		n = NewNode(name, content, guid)
	}
	content.base().node = n
	n.container = b.container
	for _, cmd := range b.commands {
		if cmd.CanAttach(content.Descriptor(), m) {
			_ = n.AddCommand(cmd)
		}
	}
	return n
}

func (b *NodeBuilder) seal(n *Node) {
	n.Seal()
	if b.Constructed != nil {
		b.Constructed(n)
	}
}

func itemType(d apis.Descriptor) reflect.Type {
	switch dd := d.(type) {
	case apis.CollectionDescriptor:
		return dd.ElementType()
	case apis.DictionaryDescriptor:
		return dd.ValueType()
	}
	return nil
}
