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

package registry_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	apis "dirpx.dev/quantum/apis"
	"dirpx.dev/quantum/config"
	"dirpx.dev/quantum/registry"
)

// A few named types to register concurrently.
type T0 struct{ V int }
type T1 struct{ V int }
type T2 struct{ V int }
type T3 struct{ V int }
type T4 struct{ V int }
type T5 struct{ V int }
type T6 struct{ V int }
type T7 struct{ V int }
type T8 struct{ V int }
type T9 struct{ V int }

// TestConcurrentRegisterAndLookup verifies that Register/IsPrimitive/Entries/Count
// are race-free and consistent under concurrent use.
func TestConcurrentRegisterAndLookup(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	types := []reflect.Type{
		reflect.TypeOf(T0{}), reflect.TypeOf(T1{}), reflect.TypeOf(T2{}),
		reflect.TypeOf(T3{}), reflect.TypeOf(T4{}), reflect.TypeOf(T5{}),
		reflect.TypeOf(T6{}), reflect.TypeOf(T7{}), reflect.TypeOf(T8{}),
		reflect.TypeOf(T9{}),
	}

	for _, tt := range types {
		if err := reg.Register(tt); err != nil {
			t.Fatalf("register %s: %v", tt, err)
		}
	}

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	// Readers
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				tt := types[i%len(types)]
				if !reg.IsPrimitive(tt) {
					t.Errorf("IsPrimitive(%v) = false", tt)
					return
				}
				_ = reg.Count()
				_ = reg.Entries()
			}
		}()
	}

	// Writers (idempotent re-register)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				_ = reg.Register(types[(i+id)%len(types)])
			}
		}(w)
	}

	wg.Wait()

	if reg.Count() != len(types) {
		t.Fatalf("count mismatch: got %d want %d", reg.Count(), len(types))
	}
	if got := reg.Entries(); len(got) != len(types) {
		t.Fatalf("entries mismatch: got %d want %d", len(got), len(types))
	}
}

// TestResetSnapshot ensures Reset is safe and Entries returns a stable snapshot.
func TestResetSnapshot(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	_ = reg.Register(reflect.TypeOf(T0{}))
	_ = reg.Register(reflect.TypeOf(T1{}))

	snap := reg.Entries()
	reg.Reset()

	if reg.Count() != 0 {
		t.Fatalf("count after reset: got %d want 0", reg.Count())
	}
	if len(snap) != 2 || snap[0] == nil || snap[1] == nil {
		t.Fatalf("snapshot changed unexpectedly: %v", snap)
	}
}

// This ensures the interface is satisfied; not a test but a compile-time check.
var _ apis.Registry = registry.New(config.DefaultConfig())
