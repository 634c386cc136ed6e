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

// Package quantum turns arbitrary in-memory Go values into navigable,
// observable node graphs.
//
// A value handed to a Container is described by a TypeSystem, built into a
// tree of Nodes by a NodeBuilder and registered under a stable Guid. Every
// node carries a Content that reads and writes the live data and notifies
// subscribers of each change.
//
// # Type system
//
// The TypeSystem classifies every runtime type as exactly one of:
//
//   - Primitive: atomic values (basic kinds, registered custom primitives
//     such as time.Time or uuid.UUID). Copied, no children, no references.
//   - Object: structs and pointers to structs, with named members.
//   - Collection: slices, arrays and sets (map[K]struct{}).
//   - Dictionary: maps with primitive keys.
//
// The lookup chain is apis.Describer -> registry -> reflection, assembled
// by an apis.Builder and published as an immutable snapshot. Readers are
// lock-free; reconfiguration rebuilds the layers that were not set
// explicitly:
//
//	ts := quantum.NewTypeSystem(config.WithTagKey("json"))
//	_ = ts.RegisterPrimitive(reflect.TypeOf(Money{}))
//
// # Nodes and references
//
// A node never holds both children and a reference. Members of a struct
// (including the fields of struct-valued members) become child nodes.
// Pointers and interfaces hold an ObjectReference to the node of the
// pointed-to value; collections and dictionaries of non-primitive items hold
// a ReferenceEnumerable with one ObjectReference per item. Collections of
// primitives hold their items directly.
//
// Struct values reached through a reference are boxed: the target node owns
// an addressable copy and writes every change back to the slot it came
// from, so
//
//	n, _ := c.GetOrCreateNode(&Parent{Points: []Point{{X: 1}}})
//	item, _ := n.Child("Points").IndexedTarget(quantum.IntIndex(0))
//	_ = item.Child("X").Content().Update(5, quantum.EmptyIndex)
//
// leaves Points[0].X == 5 in the original data.
//
// # Identity
//
// Values with identity (non-nil pointers and maps) map to one Guid for as
// long as they are alive; a GuidContainer tracks them without keeping them
// reachable. Value types are copied and get a fresh Guid every time.
//
// # Change notification
//
// Every mutation through a Content emits PrepareChange, Changing, Changed
// and FinalizeChange, in that order, exactly once each. References are
// refreshed and re-wired between Changing and Changed. When the mutation
// fails only FinalizeChange follows.
//
// # Concurrency
//
// TypeSystem and GuidContainer are safe for concurrent use. Container
// operations are serialized by one lock. Contents and nodes are not
// synchronized; callers mutating the same graph from several goroutines
// must coordinate.
package quantum
