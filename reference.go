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
	"iter"
	"reflect"

	"github.com/google/uuid"

	"dirpx.dev/quantum/apis"
	uref "dirpx.dev/quantum/utils/reflect"
)

// Reference records that a content's value is, or contains, objects that are
// represented by other nodes. It is either an *ObjectReference or a
// *ReferenceEnumerable.
type Reference interface {
	// ObjectValue returns the referenced value as of the last refresh.
	ObjectValue() any
	// Type returns the static type of the referenced value.
	Type() reflect.Type
	// Index returns the position of the reference within its owner.
	Index() Index
	// references yields every single-target reference.
	references() iter.Seq2[Index, *ObjectReference]
	// refresh re-derives the reference from the live value v.
	refresh(v reflect.Value, d apis.Descriptor)
}

// ObjectReference points at zero or one target node.
// Targets are written by the container that owns the graph.
type ObjectReference struct {
	objectValue any
	typ         reflect.Type
	index       Index
	target      *Node
}

var _ Reference = (*ObjectReference)(nil)

func newObjectReference(value any, t reflect.Type, index Index) *ObjectReference {
	return &ObjectReference{objectValue: value, typ: t, index: index}
}

func (r *ObjectReference) ObjectValue() any   { return r.objectValue }
func (r *ObjectReference) Type() reflect.Type { return r.typ }
func (r *ObjectReference) Index() Index       { return r.index }

// TargetNode returns the resolved target, or nil.
func (r *ObjectReference) TargetNode() *Node { return r.target }

// TargetGuid returns the Guid of the resolved target, or uuid.Nil.
func (r *ObjectReference) TargetGuid() uuid.UUID {
	if r.target == nil {
		return uuid.Nil
	}
	return r.target.Guid()
}

// Clear drops the resolved target. The next reference update resolves it again.
func (r *ObjectReference) Clear() { r.target = nil }

func (r *ObjectReference) setTarget(n *Node) { r.target = n }

func (r *ObjectReference) references() iter.Seq2[Index, *ObjectReference] {
	return func(yield func(Index, *ObjectReference) bool) {
		yield(r.index, r)
	}
}

func (r *ObjectReference) refresh(v reflect.Value, _ apis.Descriptor) {
	r.objectValue = uref.ObjectOf(v)
}

// ReferenceEnumerable holds one ObjectReference per item of a collection or
// dictionary whose items are not primitive. Its indices mirror the live
// collection: positions for collections, keys for dictionaries.
type ReferenceEnumerable struct {
	objectValue any
	typ         reflect.Type
	elemType    reflect.Type
	items       []*ObjectReference
	byIndex     map[Index]int
}

var _ Reference = (*ReferenceEnumerable)(nil)

func newReferenceEnumerable(v reflect.Value, d apis.Descriptor, elem reflect.Type) *ReferenceEnumerable {
	r := &ReferenceEnumerable{typ: d.Type(), elemType: elem}
	r.refresh(v, d)
	return r
}

func (r *ReferenceEnumerable) ObjectValue() any   { return r.objectValue }
func (r *ReferenceEnumerable) Type() reflect.Type { return r.typ }
func (r *ReferenceEnumerable) Index() Index       { return EmptyIndex }

// ElementType returns the static type of the items.
func (r *ReferenceEnumerable) ElementType() reflect.Type { return r.elemType }

// Len returns the number of entries.
func (r *ReferenceEnumerable) Len() int { return len(r.items) }

// Indices returns the entry indices in order.
func (r *ReferenceEnumerable) Indices() []Index {
	out := make([]Index, len(r.items))
	for i, it := range r.items {
		out[i] = it.index
	}
	return out
}

// At returns the i-th entry, or nil when out of range.
func (r *ReferenceEnumerable) At(i int) *ObjectReference {
	if i < 0 || i >= len(r.items) {
		return nil
	}
	return r.items[i]
}

// Get returns the entry at index.
func (r *ReferenceEnumerable) Get(index Index) (*ObjectReference, bool) {
	i, ok := r.byIndex[index]
	if !ok {
		return nil, false
	}
	return r.items[i], true
}

// HasIndex reports whether an entry exists at index.
func (r *ReferenceEnumerable) HasIndex(index Index) bool {
	_, ok := r.byIndex[index]
	return ok
}

// All iterates over the entries in order.
func (r *ReferenceEnumerable) All() iter.Seq2[Index, *ObjectReference] {
	return r.references()
}

func (r *ReferenceEnumerable) references() iter.Seq2[Index, *ObjectReference] {
	items := append([]*ObjectReference(nil), r.items...)
	return func(yield func(Index, *ObjectReference) bool) {
		for _, it := range items {
			if !yield(it.index, it) {
				return
			}
		}
	}
}

// refresh rebuilds the entries from the live collection. An entry that keeps
// its index keeps its ObjectReference, so its target survives unless the
// item at that index changed.
func (r *ReferenceEnumerable) refresh(v reflect.Value, d apis.Descriptor) {
	r.objectValue = uref.ObjectOf(v)
	prev := r.byIndex
	old := r.items
	r.items = r.items[:0:0]
	r.byIndex = make(map[Index]int)

	add := func(index Index, item reflect.Value) {
		value := uref.ObjectOf(item)
		var ref *ObjectReference
		if i, ok := prev[index]; ok {
			ref = old[i]
			ref.objectValue = value
		} else {
			ref = newObjectReference(value, r.elemType, index)
		}
		r.byIndex[index] = len(r.items)
		r.items = append(r.items, ref)
	}

	switch cd := d.(type) {
	case apis.CollectionDescriptor:
		for i, item := range cd.Items(v) {
			add(IntIndex(i), item)
		}
	case apis.DictionaryDescriptor:
		for _, k := range cd.Keys(v) {
			x, _ := cd.Get(v, k)
			add(KeyIndex(k.Interface()), x)
		}
	}
}

// store records the value written at index by a boxed target, so the next
// refresh keeps the target.
func (r *ReferenceEnumerable) store(index Index, value any) {
	if i, ok := r.byIndex[index]; ok {
		r.items[i].objectValue = value
	}
}
