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

package strategy_test

import (
	"reflect"
	"testing"

	apis "dirpx.dev/quantum/apis"
	qregistry "dirpx.dev/quantum/registry"
	"dirpx.dev/quantum/strategy"
)

// Local test types.
type Money struct {
	Units int64
	Code  string
}

// cfg returns a convenient baseline Config for tests.
func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{
		TagKey:    "quantum",
		MaxUnwrap: 8,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func TestRegistryStrategy_WithRealRegistry(t *testing.T) {
	conf := cfg()
	reg := qregistry.New(conf)
	if err := reg.Register(reflect.TypeOf(Money{})); err != nil {
		t.Fatalf("Register(Money): %v", err)
	}

	s := strategy.NewRegistryStrategy(reg)

	cases := []struct {
		name string
		typ  reflect.Type
		hit  bool
	}{
		{"plain", reflect.TypeOf(Money{}), true},
		{"ptr", reflect.TypeOf(&Money{}), true},
		{"slice", reflect.TypeOf([]Money{}), false},
		{"unknown", reflect.TypeOf(struct{ A int }{}), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := s.TryDescribe(tc.typ, conf)
			if ok != tc.hit {
				t.Fatalf("TryDescribe(%v) hit = %v, want %v", tc.typ, ok, tc.hit)
			}
			if ok && (d.Category() != apis.Primitive || d.Type() != tc.typ) {
				t.Fatalf("TryDescribe(%v) = %v/%v, want primitive of same type", tc.typ, d.Category(), d.Type())
			}
		})
	}
}

func TestRegistryStrategy_NilRegistryAndType(t *testing.T) {
	s := strategy.NewRegistryStrategy(nil)
	if _, ok := s.TryDescribe(reflect.TypeOf(Money{}), cfg()); ok {
		t.Fatalf("nil registry: expected miss")
	}
	s = strategy.NewRegistryStrategy(qregistry.New(cfg()))
	if _, ok := s.TryDescribe(nil, cfg()); ok {
		t.Fatalf("nil type: expected miss")
	}
}
