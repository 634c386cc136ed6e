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

// Config carries read-only knobs that influence how types are described.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// TagKey is the struct tag consulted for member names. A tag value of "-"
	// excludes the field; any other non-empty value renames the member.
	TagKey string

	// DefaultPrimitives controls whether well-known atomic types
	// (time.Time, time.Duration, uuid.UUID) are registered as custom primitives
	// when a registry is built.
	DefaultPrimitives bool

	// MaxUnwrap limits pointer unwrapping depth (e.g. **T).
	// Acts as a safety guard against pathological nesting.
	MaxUnwrap int
}
