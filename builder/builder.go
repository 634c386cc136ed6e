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

package builder

import (
	"reflect"
	"time"

	"github.com/google/uuid"

	"dirpx.dev/quantum/apis"
	"dirpx.dev/quantum/registry"
	"dirpx.dev/quantum/resolver"
	"dirpx.dev/quantum/strategy"
)

// DefaultPrimitives lists the types registered as custom primitives when
// Config.DefaultPrimitives is set.
var DefaultPrimitives = []reflect.Type{
	reflect.TypeOf(time.Time{}),
	reflect.TypeOf(time.Duration(0)),
	reflect.TypeOf(uuid.UUID{}),
}

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry based on the provided configuration
// and pre-existing registry. If a pre-existing registry is provided, its entries are copied
// into the new registry. Default primitives are added when cfg asks for them.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry) apis.Registry {
	nreg := registry.New(cfg)
	if cfg.DefaultPrimitives {
		for _, t := range DefaultPrimitives {
			_ = nreg.Register(t)
		}
	}
	if preg != nil {
		for _, t := range preg.Entries() {
			_ = nreg.Register(t)
		}
	}
	return nreg
}

// BuildResolver builds and returns a new apis.Resolver based on the provided configuration
// and registry. The previous resolver is not reused: strategies are stateless apart from
// the shared reflect cache.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, _ apis.Resolver) apis.Resolver {
	return resolver.New(
		strategy.NewDescriberStrategy(),
		strategy.NewRegistryStrategy(reg),
		strategy.NewReflectStrategy(),
	)
}
