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
	"sync"
	"sync/atomic"

	"dirpx.dev/quantum/apis"
	"dirpx.dev/quantum/builder"
	"dirpx.dev/quantum/config"
	"dirpx.dev/quantum/descriptor"
)

// TypeSystem classifies runtime types for graph construction. It publishes an
// immutable snapshot of {config, registry, resolver, builder}; readers never
// lock and writers rebuild under a mutex.
type TypeSystem struct {
	// buildMu serializes writers so partially-built snapshots are never published.
	buildMu sync.Mutex
	// st is the current snapshot.
	st atomic.Pointer[tsState]
}

// tsState is an immutable snapshot. Writers create a new state and swap it
// atomically; published states are never mutated.
type tsState struct {
	// cfg is the type system configuration.
	cfg apis.Config
	// reg holds custom primitives.
	reg apis.Registry
	// res finds descriptors.
	res apis.Resolver
	// bld rebuilds reg and res on reconfiguration.
	bld apis.Builder
	// preg indicates the registry was supplied explicitly and is not rebuilt.
	preg bool
	// pres indicates the resolver was supplied explicitly and is not rebuilt.
	pres bool
}

// NewTypeSystem returns a TypeSystem built by the default builder.
func NewTypeSystem(opts ...config.Option) *TypeSystem {
	ts := &TypeSystem{}
	cfg := config.NewConfig(opts...)
	b := builder.New()
	s := &tsState{cfg: cfg, bld: b}
	s.reg = b.BuildRegistry(cfg, nil)
	s.res = b.BuildResolver(cfg, s.reg, nil)
	ts.st.Store(s)
	return ts
}

// Find returns the descriptor of t. Types no strategy handles are primitive.
func (ts *TypeSystem) Find(t reflect.Type) apis.Descriptor {
	if t == nil {
		return nil
	}
	s := ts.st.Load()
	if d := s.res.Find(t, s.cfg); d != nil {
		return d
	}
	return descriptor.NewPrimitive(t)
}

// IsPrimitive reports whether t is classified as Primitive.
func (ts *TypeSystem) IsPrimitive(t reflect.Type) bool {
	d := ts.Find(t)
	return d != nil && d.Category() == apis.Primitive
}

// RegisterPrimitive marks t as a custom primitive.
func (ts *TypeSystem) RegisterPrimitive(t reflect.Type) error {
	return ts.st.Load().reg.Register(t)
}

// Config returns the current configuration.
func (ts *TypeSystem) Config() apis.Config {
	return ts.st.Load().cfg
}

// SetConfig replaces the configuration and rebuilds the registry and
// resolver unless they were set explicitly.
func (ts *TypeSystem) SetConfig(cfg apis.Config) {
	ts.buildMu.Lock()
	defer ts.buildMu.Unlock()

	old := ts.st.Load()
	ts.publish(cfg, old.bld, old.reg, old.res, old.preg, old.pres)
}

// Registry returns the custom primitive registry.
func (ts *TypeSystem) Registry() apis.Registry {
	return ts.st.Load().reg
}

// SetRegistry pins reg as the registry and rebuilds the resolver.
func (ts *TypeSystem) SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	ts.buildMu.Lock()
	defer ts.buildMu.Unlock()

	old := ts.st.Load()
	ts.publish(old.cfg, old.bld, reg, old.res, true, old.pres)
}

// Resolver returns the descriptor resolver.
func (ts *TypeSystem) Resolver() apis.Resolver {
	return ts.st.Load().res
}

// SetResolver pins res as the resolver.
func (ts *TypeSystem) SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	ts.buildMu.Lock()
	defer ts.buildMu.Unlock()

	old := ts.st.Load()
	ts.publish(old.cfg, old.bld, old.reg, res, old.preg, true)
}

// Builder returns the builder used on reconfiguration.
func (ts *TypeSystem) Builder() apis.Builder {
	return ts.st.Load().bld
}

// SetBuilder replaces the builder and rebuilds non-pinned layers with it.
func (ts *TypeSystem) SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	ts.buildMu.Lock()
	defer ts.buildMu.Unlock()

	old := ts.st.Load()
	ts.publish(old.cfg, b, old.reg, old.res, old.preg, old.pres)
}

// publish rebuilds the non-pinned layers and stores the new snapshot.
// Callers hold buildMu.
func (ts *TypeSystem) publish(cfg apis.Config, b apis.Builder, reg apis.Registry, res apis.Resolver, preg, pres bool) {
	nreg := reg
	if !preg {
		nreg = b.BuildRegistry(cfg, reg)
	}
	nres := res
	if !pres {
		nres = b.BuildResolver(cfg, nreg, res)
	}

	// Ensure non-nil reg and res.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	ts.st.Store(&tsState{
		cfg:  cfg,
		reg:  nreg,
		res:  nres,
		bld:  b,
		preg: preg,
		pres: pres,
	})
}
