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

package apis

import "reflect"

// Category classifies a runtime type for graph construction.
type Category int

const (
	// Primitive values are copied, have no children and never hold references.
	Primitive Category = iota
	// Object values expose named members.
	Object
	// Collection values are ordered and integer-indexed.
	Collection
	// Dictionary values are keyed.
	Dictionary
)

// String returns the lower-case name of the category.
func (c Category) String() string {
	switch c {
	case Primitive:
		return "primitive"
	case Object:
		return "object"
	case Collection:
		return "collection"
	case Dictionary:
		return "dictionary"
	default:
		return "unknown"
	}
}

// Descriptor classifies a runtime type as exactly one Category.
type Descriptor interface {
	// Type returns the described type.
	Type() reflect.Type
	// Category returns the classification of the type.
	Category() Category
}

// ObjectDescriptor describes a type with an ordered list of named members.
type ObjectDescriptor interface {
	Descriptor
	// Members returns the members in declaration order.
	Members() []MemberDescriptor
	// Member returns the member with the given name.
	Member(name string) (MemberDescriptor, bool)
}

// MemberDescriptor gives access to one named member of an object.
// The container passed to Get and Set is the object value itself: a struct
// (addressable when Set is used) or a pointer to a struct.
type MemberDescriptor interface {
	// Name returns the member name, unique within its object.
	Name() string
	// Type returns the static type of the member.
	Type() reflect.Type
	// Get returns the live member value of container.
	Get(container reflect.Value) reflect.Value
	// Set assigns value to the member of container.
	Set(container reflect.Value, value reflect.Value) error
	// CanSet reports whether Set is supported at all.
	CanSet() bool
}

// CollectionDescriptor describes an ordered, integer-indexed type.
// Mutating operations expect an addressable collection value when they need
// to replace it (growing or shrinking a slice).
type CollectionDescriptor interface {
	Descriptor
	// ElementType returns the static type of the items.
	ElementType() reflect.Type
	// IsList reports whether Add appends at the end (index == previous count).
	IsList() bool
	// IsFixedSize reports whether items can only be replaced, never added or removed.
	IsFixedSize() bool
	// HasInsert reports whether Insert is supported.
	HasInsert() bool
	// HasRemoveAt reports whether RemoveAt is supported.
	HasRemoveAt() bool
	// Count returns the number of items.
	Count(c reflect.Value) int
	// Get returns the item at i, or an invalid value if out of range.
	Get(c reflect.Value, i int) reflect.Value
	// Items returns every item in index order, taken from one snapshot of c.
	Items(c reflect.Value) []reflect.Value
	// Set replaces the item at i.
	Set(c reflect.Value, i int, v reflect.Value) error
	// Add appends v.
	Add(c reflect.Value, v reflect.Value) error
	// Insert inserts v at i.
	Insert(c reflect.Value, i int, v reflect.Value) error
	// RemoveAt removes the item at i.
	RemoveAt(c reflect.Value, i int) error
	// Remove removes the first item equal to v.
	Remove(c reflect.Value, v reflect.Value) error
}

// DictionaryDescriptor describes a keyed type.
type DictionaryDescriptor interface {
	Descriptor
	// KeyType returns the static type of the keys.
	KeyType() reflect.Type
	// ValueType returns the static type of the values.
	ValueType() reflect.Type
	// Keys returns the keys in a deterministic order.
	Keys(d reflect.Value) []reflect.Value
	// Get returns the value stored under key.
	Get(d reflect.Value, key reflect.Value) (reflect.Value, bool)
	// Set stores v under key, adding the key if needed.
	Set(d reflect.Value, key reflect.Value, v reflect.Value) error
	// Add stores v under a key that must not exist yet.
	Add(d reflect.Value, key reflect.Value, v reflect.Value) error
	// Remove deletes key.
	Remove(d reflect.Value, key reflect.Value) error
	// ContainsKey reports whether key is present.
	ContainsKey(d reflect.Value, key reflect.Value) bool
}

// Describer lets a type supply its own descriptor.
// QuantumDescriptor is invoked on the zero value of the type and must not
// dereference its receiver.
type Describer interface {
	QuantumDescriptor() Descriptor
}
