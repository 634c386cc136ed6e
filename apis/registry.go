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

// Registry holds custom primitive types: types that are treated as atomic
// values (no members, no references) even though their kind is composite.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Registry interface {
	// Register marks t (or the element of a pointer type) as primitive.
	// Implementations should be idempotent.
	Register(t reflect.Type) error
	// IsPrimitive reports whether t was registered.
	IsPrimitive(t reflect.Type) bool
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []reflect.Type
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}
