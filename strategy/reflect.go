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
	"strings"
	"sync"

	"dirpx.dev/quantum/apis"
	"dirpx.dev/quantum/descriptor"
	uref "dirpx.dev/quantum/utils/reflect"
)

// NewReflectStrategy creates an apis.Strategy that describes any type via
// reflection, with memoization.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback. It unwraps pointers via
// Normalize and classifies the base kind:
//   - basic and opaque kinds (func, chan, unsafe.Pointer) -> Primitive
//   - struct -> Object with one member per exported field
//   - slice, array -> Collection
//   - map[K]struct{} -> Collection (set); other maps -> Dictionary
//   - interface -> Object without members (the held value decides)
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects all config knobs that affect description.
type cacheKey struct {
	t         reflect.Type
	tagKey    string
	maxUnwrap int16
}

// descriptorCache caches descriptors by (type, config knobs).
var descriptorCache sync.Map // key: cacheKey, val: apis.Descriptor

// TryDescribe computes the descriptor of t.
func (reflectStrategy) TryDescribe(t reflect.Type, cfg apis.Config) (apis.Descriptor, bool) {
	if t == nil {
		return nil, false
	}
	return byType(t, cfg), true
}

// byType resolves the descriptor for t with memoization.
func byType(t reflect.Type, cfg apis.Config) apis.Descriptor {
	key := cacheKey{
		t:         t,
		tagKey:    cfg.TagKey,
		maxUnwrap: int16(cfg.MaxUnwrap),
	}
	if v, ok := descriptorCache.Load(key); ok {
		return v.(apis.Descriptor)
	}

	d := describe(t, cfg)
	v, _ := descriptorCache.LoadOrStore(key, d)
	return v.(apis.Descriptor)
}

func describe(t reflect.Type, cfg apis.Config) apis.Descriptor {
	base, err := uref.Normalize(t, cfg)
	if err != nil {
		// Pointer chains deeper than MaxUnwrap are not traversed.
		return descriptor.NewPrimitive(t)
	}
	switch k := base.Kind(); {
	case uref.IsBasic(k), uref.IsOpaque(k):
		return descriptor.NewPrimitive(t)
	case k == reflect.Struct:
		return descriptor.NewObject(t, fields(base, cfg.TagKey)...)
	case k == reflect.Slice:
		return descriptor.NewSlice(t)
	case k == reflect.Array:
		return descriptor.NewArray(t)
	case k == reflect.Map:
		if isEmptyStruct(base.Elem()) {
			return descriptor.NewSet(t)
		}
		return descriptor.NewMap(t)
	case k == reflect.Interface:
		if base != t {
			// A pointer to an interface has no useful shape.
			return descriptor.NewPrimitive(t)
		}
		return descriptor.NewObject(t)
	}
	return descriptor.NewPrimitive(t)
}

// fields lists the exported fields of struct type st as members. A tag value
// of "-" skips the field; any other non-empty name renames it.
func fields(st reflect.Type, tagKey string) []apis.MemberDescriptor {
	out := make([]apis.MemberDescriptor, 0, st.NumField())
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tagKey != "" {
			if tag, ok := sf.Tag.Lookup(tagKey); ok {
				tag, _, _ = strings.Cut(tag, ",")
				if tag == "-" {
					continue
				}
				if tag != "" {
					name = tag
				}
			}
		}
		out = append(out, descriptor.NewField(name, sf))
	}
	return out
}

func isEmptyStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}
