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

// Builder assembles the Registry and Resolver of a type system from a Config.
// It runs on construction and again whenever the configuration changes, so
// the previous instances are passed along for migration.
type Builder interface {
	// BuildRegistry returns a Registry for cfg. Types registered on prev,
	// when not nil, must survive the rebuild.
	BuildRegistry(cfg Config, prev Registry) Registry
	// BuildResolver returns a Resolver over reg. prev is the resolver being
	// replaced, or nil.
	BuildResolver(cfg Config, reg Registry, prev Resolver) Resolver
}
