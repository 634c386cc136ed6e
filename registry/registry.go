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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"dirpx.dev/quantum/apis"
	"dirpx.dev/quantum/config"
	uref "dirpx.dev/quantum/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("quantum(registry): nil reflect.Type provided")
	// ErrNotRegistrable indicates a type that cannot be a custom primitive:
	// unnamed builtin kinds are already primitive, interfaces have no shape.
	ErrNotRegistrable = errors.New("quantum(registry): type cannot be registered as primitive")
)

// New constructs a custom primitive Registry that normalizes types according to cfg.
// Only MaxUnwrap is used here.
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg}
}

// registry is a simple Registry implementation backed by sync.Map.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m holds the registered types.
	m sync.Map // map[reflect.Type]struct{}
	// count tracks the number of registered entries.
	count int
}

// Register marks the pointer-normalized form of t as a custom primitive.
// It is idempotent.
func (r *registry) Register(t reflect.Type) error {
	if t == nil {
		return ErrNilType
	}

	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}
	if b.Kind() == reflect.Interface || (uref.IsBasic(b.Kind()) && b.PkgPath() == "") {
		return fmt.Errorf("%w: %s", ErrNotRegistrable, b)
	}

	// Fast read path: idempotency check without locking.
	if _, ok := r.m.Load(b); ok {
		return nil
	}

	// Write path: guard with a mutex to keep counter consistent.
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m.Load(b); ok {
		return nil
	}
	r.m.Store(b, struct{}{})
	r.count++
	return nil
}

// IsPrimitive reports whether t (or the type it points to) was registered.
func (r *registry) IsPrimitive(t reflect.Type) bool {
	if t == nil {
		return false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return false
	}
	_, ok := r.m.Load(nt)
	return ok
}

// Entries returns a snapshot sorted by type string.
func (r *registry) Entries() []reflect.Type {
	entries := make([]reflect.Type, 0, r.Count())
	r.m.Range(func(key, _ any) bool {
		entries = append(entries, key.(reflect.Type))
		return true
	})
	slices.SortFunc(entries, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}
