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

	"dirpx.dev/quantum/apis"
	uref "dirpx.dev/quantum/utils/reflect"
)

// Content is the value accessor bound to exactly one node. It reads and
// writes the underlying value, emits change notifications and exposes the
// reference held by the node, if any.
//
// A mutation emits PrepareChange, Changing, Changed and FinalizeChange in
// that order. The value is written between Changing and Changed, and the
// references of the node are refreshed before Changed. A write that fails
// emits FinalizeChange without Changed.
type Content interface {
	// Node returns the node owning this content.
	Node() *Node
	// Descriptor returns the descriptor of Type.
	Descriptor() apis.Descriptor
	// Type returns the static type of the value.
	Type() reflect.Type
	// IsPrimitive reports whether the value is atomic.
	IsPrimitive() bool
	// IsReference reports whether Reference is non-nil.
	IsReference() bool
	// Reference returns the reference held by this content, or nil.
	Reference() Reference
	// Value returns the current value.
	Value() any
	// Retrieve returns the value, or the item at index.
	Retrieve(index Index) (any, error)
	// Update replaces the value (empty index) or the item at index.
	Update(value any, index Index) error
	// Add appends item to a collection.
	Add(item any) error
	// Insert inserts item at a collection position or under a dictionary key.
	Insert(item any, index Index) error
	// Remove removes the item at index, or item itself when index is empty.
	Remove(item any, index Index) error
	// Subscribe registers h for phase and returns a func that cancels it.
	Subscribe(phase Phase, h ChangeHandler) (cancel func())

	base() *contentBase
}

// accessor is the storage strategy of a content variant.
type accessor interface {
	// live returns the current value, possibly not addressable.
	live() reflect.Value
	// canStore reports whether store is supported.
	canStore() error
	// store replaces the whole value without notification.
	store(v reflect.Value) error
	// mutable returns a value that can be modified in place and a func
	// that writes it back to where it lives.
	mutable() (reflect.Value, func() error, error)
	// setMember writes member m of the object value.
	setMember(m apis.MemberDescriptor, v reflect.Value) error
	// touched propagates an in-place modification to the owners.
	touched() error
}

type contentBase struct {
	acc       accessor
	self      Content
	node      *Node
	desc      apis.Descriptor
	typ       reflect.Type
	ref       Reference
	primitive bool
	hub       eventHub
}

func (c *contentBase) init(acc accessor, self Content, d apis.Descriptor, t reflect.Type, ref Reference, primitive bool) {
	c.acc = acc
	c.self = self
	c.desc = d
	c.typ = t
	c.ref = ref
	c.primitive = primitive
}

func (c *contentBase) base() *contentBase          { return c }
func (c *contentBase) Node() *Node                 { return c.node }
func (c *contentBase) Descriptor() apis.Descriptor { return c.desc }
func (c *contentBase) Type() reflect.Type          { return c.typ }
func (c *contentBase) IsPrimitive() bool           { return c.primitive }
func (c *contentBase) IsReference() bool           { return c.ref != nil }
func (c *contentBase) Reference() Reference        { return c.ref }
func (c *contentBase) Value() any                  { return uref.ObjectOf(c.acc.live()) }

func (c *contentBase) Subscribe(phase Phase, h ChangeHandler) func() {
	return c.hub.subscribe(phase, h)
}

func (c *contentBase) Retrieve(index Index) (any, error) {
	if index.IsEmpty() {
		return c.Value(), nil
	}
	index, err := c.normalizeIndex(index)
	if err != nil {
		return nil, err
	}
	x, err := c.item(c.acc.live(), index)
	if err != nil {
		return nil, err
	}
	return uref.ObjectOf(x), nil
}

func (c *contentBase) Update(value any, index Index) error {
	if index.IsEmpty() {
		if err := c.acc.canStore(); err != nil {
			return err
		}
		nv, err := uref.Assign(value, c.typ)
		if err != nil {
			return err
		}
		old := c.Value()
		return c.change(ValueChange, EmptyIndex, old, value, func() error {
			return c.acc.store(nv)
		})
	}

	index, err := c.normalizeIndex(index)
	if err != nil {
		return err
	}
	old, err := c.Retrieve(index)
	if err != nil {
		return err
	}
	nv, err := uref.Assign(value, c.itemType())
	if err != nil {
		return err
	}
	return c.change(CollectionUpdate, index, old, value, func() error {
		return c.mutate(func(v reflect.Value) error { return c.setItem(v, index, nv) })
	})
}

func (c *contentBase) Add(item any) error {
	cd, ok := c.desc.(apis.CollectionDescriptor)
	if !ok || cd.IsFixedSize() {
		return fmt.Errorf("%w: add on %s", ErrUnsupported, c.typ)
	}
	nv, err := uref.Assign(item, cd.ElementType())
	if err != nil {
		return err
	}
	index := EmptyIndex
	if cd.IsList() {
		index = IntIndex(cd.Count(c.acc.live()))
	}
	return c.change(CollectionAdd, index, nil, item, func() error {
		return c.mutate(func(v reflect.Value) error { return cd.Add(v, nv) })
	})
}

func (c *contentBase) Insert(item any, index Index) error {
	if index.IsEmpty() {
		return ErrEmptyIndex
	}
	switch d := c.desc.(type) {
	case apis.CollectionDescriptor:
		if !d.HasInsert() {
			return fmt.Errorf("%w: insert on %s", ErrUnsupported, c.typ)
		}
		if !index.IsInt() || index.Int() < 0 || index.Int() > d.Count(c.acc.live()) {
			return fmt.Errorf("%w: %s", ErrInvalidIndex, index)
		}
		nv, err := uref.Assign(item, d.ElementType())
		if err != nil {
			return err
		}
		return c.change(CollectionAdd, index, nil, item, func() error {
			return c.mutate(func(v reflect.Value) error { return d.Insert(v, index.Int(), nv) })
		})
	case apis.DictionaryDescriptor:
		index, err := c.normalizeIndex(index)
		if err != nil {
			return err
		}
		key := reflect.ValueOf(index.Value())
		if d.ContainsKey(c.acc.live(), key) {
			return fmt.Errorf("%w: key %v already present", ErrInvalidIndex, index.Value())
		}
		nv, err := uref.Assign(item, d.ValueType())
		if err != nil {
			return err
		}
		return c.change(CollectionAdd, index, nil, item, func() error {
			return c.mutate(func(v reflect.Value) error { return d.Add(v, key, nv) })
		})
	}
	return fmt.Errorf("%w: insert on %s", ErrUnsupported, c.typ)
}

func (c *contentBase) Remove(item any, index Index) error {
	switch d := c.desc.(type) {
	case apis.CollectionDescriptor:
		if d.IsFixedSize() {
			return fmt.Errorf("%w: remove on %s", ErrUnsupported, c.typ)
		}
		if index.IsEmpty() {
			nv, err := uref.Assign(item, d.ElementType())
			if err != nil {
				return err
			}
			pos := c.position(d, item)
			if pos < 0 {
				return fmt.Errorf("%w: item not found", ErrInvalidIndex)
			}
			if d.IsList() {
				index = IntIndex(pos)
			}
			return c.change(CollectionRemove, index, item, nil, func() error {
				return c.mutate(func(v reflect.Value) error { return d.Remove(v, nv) })
			})
		}
		if !d.HasRemoveAt() {
			return fmt.Errorf("%w: remove at on %s", ErrUnsupported, c.typ)
		}
		old, err := c.Retrieve(index)
		if err != nil {
			return err
		}
		return c.change(CollectionRemove, index, old, nil, func() error {
			return c.mutate(func(v reflect.Value) error { return d.RemoveAt(v, index.Int()) })
		})
	case apis.DictionaryDescriptor:
		if index.IsEmpty() {
			return ErrEmptyIndex
		}
		index, err := c.normalizeIndex(index)
		if err != nil {
			return err
		}
		old, err := c.Retrieve(index)
		if err != nil {
			return err
		}
		key := reflect.ValueOf(index.Value())
		return c.change(CollectionRemove, index, old, nil, func() error {
			return c.mutate(func(v reflect.Value) error { return d.Remove(v, key) })
		})
	}
	return fmt.Errorf("%w: remove on %s", ErrUnsupported, c.typ)
}

// change runs mutate between the four notification phases.
func (c *contentBase) change(t ChangeType, index Index, oldValue, newValue any, mutate func() error) error {
	ev := ChangeEvent{Content: c.self, Type: t, Index: index, OldValue: oldValue, NewValue: newValue}
	c.hub.emit(PrepareChange, ev)
	c.hub.emit(Changing, ev)
	if err := mutate(); err != nil {
		c.hub.emit(FinalizeChange, ev)
		return err
	}
	err := c.updateReferences()
	c.hub.emit(Changed, ev)
	c.hub.emit(FinalizeChange, ev)
	return err
}

func (c *contentBase) mutate(fn func(reflect.Value) error) error {
	v, commit, err := c.acc.mutable()
	if err != nil {
		return err
	}
	if err := fn(v); err != nil {
		return err
	}
	return commit()
}

// updateReferences refreshes the references below the owning node. Without
// a container only the reference shapes are refreshed; targets stay as they are.
func (c *contentBase) updateReferences() error {
	n := c.node
	switch {
	case n == nil:
		if c.ref != nil {
			c.ref.refresh(c.acc.live(), c.desc)
		}
		return nil
	case n.container != nil:
		return n.container.UpdateReferences(n)
	}
	refreshShapes(n, make(map[*Node]struct{}))
	return nil
}

func refreshShapes(n *Node, visiting map[*Node]struct{}) {
	if _, ok := visiting[n]; ok {
		return
	}
	visiting[n] = struct{}{}
	c := n.content.base()
	if c.ref != nil {
		c.ref.refresh(c.acc.live(), c.desc)
		return
	}
	for _, child := range n.children {
		refreshShapes(child, visiting)
	}
}

// storeAt writes v at index of this content without notification. Boxed
// targets use it to write their value back to the content referencing them.
func (c *contentBase) storeAt(index Index, v reflect.Value) error {
	if index.IsEmpty() {
		if err := c.acc.store(v); err != nil {
			return err
		}
		if r, ok := c.ref.(*ObjectReference); ok {
			r.objectValue = uref.ObjectOf(v)
		}
		return nil
	}
	if err := c.mutate(func(target reflect.Value) error { return c.setItem(target, index, v) }); err != nil {
		return err
	}
	if r, ok := c.ref.(*ReferenceEnumerable); ok {
		r.store(index, uref.ObjectOf(v))
	}
	return nil
}

func (c *contentBase) item(v reflect.Value, index Index) (reflect.Value, error) {
	switch d := c.desc.(type) {
	case apis.CollectionDescriptor:
		if x := d.Get(v, index.Int()); x.IsValid() {
			return x, nil
		}
	case apis.DictionaryDescriptor:
		if x, ok := d.Get(v, reflect.ValueOf(index.Value())); ok {
			return x, nil
		}
	}
	return reflect.Value{}, fmt.Errorf("%w: %s on %s", ErrInvalidIndex, index, c.typ)
}

func (c *contentBase) setItem(v reflect.Value, index Index, x reflect.Value) error {
	switch d := c.desc.(type) {
	case apis.CollectionDescriptor:
		return d.Set(v, index.Int(), x)
	case apis.DictionaryDescriptor:
		return d.Set(v, reflect.ValueOf(index.Value()), x)
	}
	return fmt.Errorf("%w: indexed update on %s", ErrUnsupported, c.typ)
}

func (c *contentBase) itemType() reflect.Type {
	switch d := c.desc.(type) {
	case apis.CollectionDescriptor:
		return d.ElementType()
	case apis.DictionaryDescriptor:
		return d.ValueType()
	}
	return c.typ
}

// position returns the position of item in a collection, or -1.
func (c *contentBase) position(d apis.CollectionDescriptor, item any) int {
	for i, x := range d.Items(c.acc.live()) {
		if uref.Same(uref.ObjectOf(x), item) {
			return i
		}
	}
	return -1
}

// normalizeIndex checks that index can address an item of this content and
// converts dictionary keys to the key type.
func (c *contentBase) normalizeIndex(index Index) (Index, error) {
	if index.IsEmpty() {
		return index, nil
	}
	switch d := c.desc.(type) {
	case apis.CollectionDescriptor:
		if index.IsInt() {
			return index, nil
		}
	case apis.DictionaryDescriptor:
		k, err := uref.Assign(index.Value(), d.KeyType())
		if err == nil {
			return KeyIndex(k.Interface()), nil
		}
	default:
		return index, fmt.Errorf("%w: %s is not indexable", ErrInvalidIndex, c.typ)
	}
	return index, fmt.Errorf("%w: %s on %s", ErrInvalidIndex, index, c.typ)
}

// ObjectContent holds a root value with identity (a pointer or a map) or a
// primitive root. The value itself cannot be replaced.
type ObjectContent struct {
	contentBase
	v reflect.Value
}

func newObjectContent(v reflect.Value, d apis.Descriptor, ref Reference, primitive bool) *ObjectContent {
	c := &ObjectContent{v: v}
	c.init(c, c, d, v.Type(), ref, primitive)
	return c
}

func (c *ObjectContent) live() reflect.Value { return c.v }

func (c *ObjectContent) canStore() error {
	return fmt.Errorf("%w: the value of an object content cannot be replaced", ErrUnsupported)
}

func (c *ObjectContent) store(reflect.Value) error { return c.canStore() }

func (c *ObjectContent) mutable() (reflect.Value, func() error, error) {
	if c.primitive {
		return reflect.Value{}, nil, fmt.Errorf("%w: primitive %s", ErrUnsupported, c.typ)
	}
	return c.v, noCommit, nil
}

func (c *ObjectContent) setMember(m apis.MemberDescriptor, v reflect.Value) error {
	return m.Set(c.v, v)
}

func (c *ObjectContent) touched() error { return nil }

// BoxedContent holds an addressable copy of a value type (struct, slice or
// array) so it can be a node. Writes are copied back to the owner: the
// content that references the boxed value, at the owner index.
type BoxedContent struct {
	contentBase
	v          reflect.Value
	owner      Content
	ownerIndex Index
}

func newBoxedContent(v reflect.Value, d apis.Descriptor, ref Reference, primitive bool) *BoxedContent {
	box := reflect.New(v.Type()).Elem()
	box.Set(v)
	c := &BoxedContent{v: box}
	c.init(c, c, d, v.Type(), ref, primitive)
	return c
}

// Owner returns the content the boxed value is written back to, and the
// index within it. The owner is nil for boxed roots.
func (c *BoxedContent) Owner() (Content, Index) { return c.owner, c.ownerIndex }

func (c *BoxedContent) setOwner(owner Content, index Index) {
	c.owner = owner
	c.ownerIndex = index
}

func (c *BoxedContent) live() reflect.Value { return c.v }
func (c *BoxedContent) canStore() error     { return nil }

func (c *BoxedContent) store(v reflect.Value) error {
	c.v.Set(v)
	return c.writeBack()
}

func (c *BoxedContent) mutable() (reflect.Value, func() error, error) {
	return c.v, c.writeBack, nil
}

func (c *BoxedContent) setMember(m apis.MemberDescriptor, v reflect.Value) error {
	if err := m.Set(c.v, v); err != nil {
		return err
	}
	return c.writeBack()
}

func (c *BoxedContent) touched() error { return c.writeBack() }

func (c *BoxedContent) writeBack() error {
	if c.owner == nil {
		return nil
	}
	return c.owner.base().storeAt(c.ownerIndex, c.v)
}

// MemberContent is one member of its parent's value. The value is read
// through the parent every time, so copies of value types are never stale.
type MemberContent struct {
	contentBase
	parent Content
	member apis.MemberDescriptor
}

func newMemberContent(parent Content, m apis.MemberDescriptor, d apis.Descriptor, ref Reference, primitive bool) *MemberContent {
	c := &MemberContent{parent: parent, member: m}
	c.init(c, c, d, m.Type(), ref, primitive)
	return c
}

// Parent returns the content holding the member.
func (c *MemberContent) Parent() Content { return c.parent }

// Member returns the member descriptor.
func (c *MemberContent) Member() apis.MemberDescriptor { return c.member }

func (c *MemberContent) live() reflect.Value {
	return c.member.Get(c.parent.base().acc.live())
}

func (c *MemberContent) canStore() error {
	if !c.member.CanSet() {
		return fmt.Errorf("%w: member %s is read-only", ErrUnsupported, c.member.Name())
	}
	return nil
}

func (c *MemberContent) store(v reflect.Value) error {
	return c.parent.base().acc.setMember(c.member, v)
}

func (c *MemberContent) mutable() (reflect.Value, func() error, error) {
	cur := c.live()
	if !cur.IsValid() {
		return reflect.Value{}, nil, fmt.Errorf("%w: member %s", ErrNilValue, c.member.Name())
	}
	if cur.CanSet() {
		return cur, c.touched, nil
	}
	cp := reflect.New(cur.Type()).Elem()
	cp.Set(cur)
	return cp, func() error { return c.store(cp) }, nil
}

func (c *MemberContent) setMember(m apis.MemberDescriptor, v reflect.Value) error {
	target, commit, err := c.mutable()
	if err != nil {
		return err
	}
	if err := m.Set(target, v); err != nil {
		return err
	}
	return commit()
}

func (c *MemberContent) touched() error {
	return c.parent.base().acc.touched()
}

func noCommit() error { return nil }
