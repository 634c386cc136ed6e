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
	"reflect"
	"runtime"
	"sync"

	"github.com/google/uuid"

	uref "dirpx.dev/quantum/utils/reflect"
)

// GuidContainer maps objects with identity to stable Guids without keeping
// them alive. An entry is dropped once its object is garbage collected.
// Value types have no identity and receive a fresh Guid on every call.
//
// A GuidContainer is safe for concurrent use.
type GuidContainer struct {
	mu      sync.Mutex
	entries map[guidKey]guidEntry
	gen     uint64
}

type guidKey struct {
	addr uintptr
	typ  reflect.Type
}

type guidEntry struct {
	guid uuid.UUID
	gen  uint64
}

type guidCleanup struct {
	key guidKey
	gen uint64
}

// NewGuidContainer returns an empty GuidContainer.
func NewGuidContainer() *GuidContainer {
	return &GuidContainer{entries: make(map[guidKey]guidEntry)}
}

// GetOrCreateGuid returns the Guid of value, creating one on first sight.
// A nil value yields uuid.Nil.
func (gc *GuidContainer) GetOrCreateGuid(value any) uuid.UUID {
	v := uref.Unwrap(reflect.ValueOf(value))
	if uref.IsNil(v) {
		return uuid.Nil
	}
	if !uref.HasIdentity(v) {
		return uuid.New()
	}
	key := keyOf(v)

	gc.mu.Lock()
	defer gc.mu.Unlock()
	if e, ok := gc.entries[key]; ok {
		return e.guid
	}
	g := uuid.New()
	gc.put(v, key, g)
	return g
}

// GetGuid returns the Guid of value, or uuid.Nil when value is unknown or
// has no identity.
func (gc *GuidContainer) GetGuid(value any) uuid.UUID {
	v := uref.Unwrap(reflect.ValueOf(value))
	if !uref.HasIdentity(v) {
		return uuid.Nil
	}
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.entries[keyOf(v)].guid
}

// RegisterGuid associates guid with value. It reports false when value has
// no identity or already has a different Guid.
func (gc *GuidContainer) RegisterGuid(value any, guid uuid.UUID) bool {
	v := uref.Unwrap(reflect.ValueOf(value))
	if !uref.HasIdentity(v) || guid == uuid.Nil {
		return false
	}
	key := keyOf(v)

	gc.mu.Lock()
	defer gc.mu.Unlock()
	if e, ok := gc.entries[key]; ok {
		return e.guid == guid
	}
	gc.put(v, key, guid)
	return true
}

// UnregisterGuid forgets value.
func (gc *GuidContainer) UnregisterGuid(value any) {
	v := uref.Unwrap(reflect.ValueOf(value))
	if !uref.HasIdentity(v) {
		return
	}
	gc.mu.Lock()
	delete(gc.entries, keyOf(v))
	gc.mu.Unlock()
}

// Clear forgets every entry.
func (gc *GuidContainer) Clear() {
	gc.mu.Lock()
	clear(gc.entries)
	gc.gen++
	gc.mu.Unlock()
}

// Len returns the number of live entries.
func (gc *GuidContainer) Len() int {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return len(gc.entries)
}

// put must be called with gc.mu held.
func (gc *GuidContainer) put(v reflect.Value, key guidKey, g uuid.UUID) {
	gc.gen++
	gc.entries[key] = guidEntry{guid: g, gen: gc.gen}
	runtime.AddCleanup((*byte)(v.UnsafePointer()), gc.drop, guidCleanup{key: key, gen: gc.gen})
}

func (gc *GuidContainer) drop(c guidCleanup) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if e, ok := gc.entries[c.key]; ok && e.gen == c.gen {
		delete(gc.entries, c.key)
	}
}

func keyOf(v reflect.Value) guidKey {
	return guidKey{addr: uintptr(v.UnsafePointer()), typ: v.Type()}
}
