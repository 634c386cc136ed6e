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

package config_test

import (
	"testing"

	"dirpx.dev/quantum/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	if got.TagKey != config.DefaultTagKey {
		t.Fatalf("TagKey = %q, want %q", got.TagKey, config.DefaultTagKey)
	}
	if got.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want %d", got.MaxUnwrap, config.DefaultMaxUnwrap)
	}
	if got.DefaultPrimitives != config.DefaultDefaultPrimitives {
		t.Fatalf("DefaultPrimitives = %v, want %v", got.DefaultPrimitives, config.DefaultDefaultPrimitives)
	}
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultConfig()
	got := config.NewConfig()
	if got != def {
		t.Fatalf("NewConfig() = %+v, want default %+v", got, def)
	}
}

func TestWithTagKey(t *testing.T) {
	c := config.NewConfig(config.WithTagKey("json"))
	if c.TagKey != "json" {
		t.Fatalf("TagKey = %q, want json", c.TagKey)
	}

	c2 := config.NewConfig(config.WithTagKey(""))
	if c2.TagKey != "" {
		t.Fatalf("TagKey = %q, want empty", c2.TagKey)
	}
}

func TestWithDefaultPrimitives(t *testing.T) {
	c := config.NewConfig(config.WithDefaultPrimitives(false))
	if c.DefaultPrimitives {
		t.Fatalf("DefaultPrimitives = %v, want false", c.DefaultPrimitives)
	}
}

func TestWithMaxUnwrap_Positive(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(3))
	if c.MaxUnwrap != 3 {
		t.Fatalf("MaxUnwrap = %d, want 3", c.MaxUnwrap)
	}
}

func TestWithMaxUnwrap_Negative_ResetsToDefault(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(-1))
	if c.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want default %d", c.MaxUnwrap, config.DefaultMaxUnwrap)
	}
}

func TestOptionsOrder_LastWins(t *testing.T) {
	c := config.NewConfig(
		config.WithTagKey("a"),
		config.WithTagKey("b"),
		config.WithMaxUnwrap(2),
		config.WithMaxUnwrap(5),
		config.WithDefaultPrimitives(false),
		config.WithDefaultPrimitives(true),
	)

	if c.TagKey != "b" {
		t.Errorf("TagKey = %q, want b (last option wins)", c.TagKey)
	}
	if c.MaxUnwrap != 5 {
		t.Errorf("MaxUnwrap = %d, want 5 (last option wins)", c.MaxUnwrap)
	}
	if !c.DefaultPrimitives {
		t.Errorf("DefaultPrimitives = %v, want true (last option wins)", c.DefaultPrimitives)
	}
}
