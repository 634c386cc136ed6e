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

package strategy

import (
	"reflect"

	"dirpx.dev/quantum/apis"
	"dirpx.dev/quantum/descriptor"
)

// NewRegistryStrategy creates an apis.Strategy that classifies the custom
// primitives held by reg.
func NewRegistryStrategy(reg apis.Registry) apis.Strategy {
	return &registryStrategy{reg: reg}
}

// registryStrategy consults a provided apis.Registry (reflection-free lookup).
type registryStrategy struct {
	reg apis.Registry
}

// Ensure registryStrategy implements apis.Strategy.
var _ apis.Strategy = (*registryStrategy)(nil)

// TryDescribe returns a primitive descriptor when t is registered.
func (s *registryStrategy) TryDescribe(t reflect.Type, _ apis.Config) (apis.Descriptor, bool) {
	if t == nil || s.reg == nil {
		return nil, false
	}
	if !s.reg.IsPrimitive(t) {
		return nil, false
	}
	return descriptor.NewPrimitive(t), true
}
