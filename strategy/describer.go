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
)

// NewDescriberStrategy creates an apis.Strategy that uses apis.Describer.
func NewDescriberStrategy() apis.Strategy {
	return &describerStrategy{}
}

// describerStrategy is a fast path: if t (or *t) implements apis.Describer,
// its QuantumDescriptor() stops the chain.
type describerStrategy struct{}

// Ensure describerStrategy implements apis.Strategy.
var _ apis.Strategy = (*describerStrategy)(nil)

var describerType = reflect.TypeOf((*apis.Describer)(nil)).Elem()

// TryDescribe asks the type itself for a descriptor.
func (*describerStrategy) TryDescribe(t reflect.Type, _ apis.Config) (apis.Descriptor, bool) {
	if t == nil || t.Kind() == reflect.Interface {
		return nil, false
	}
	var v reflect.Value
	switch {
	case t.Kind() == reflect.Pointer && t.Implements(describerType):
		// A nil pointer cannot reach value-receiver methods.
		v = reflect.New(t.Elem())
	case t.Implements(describerType):
		v = reflect.Zero(t)
	case t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(describerType):
		v = reflect.New(t)
	default:
		return nil, false
	}
	d := v.Interface().(apis.Describer).QuantumDescriptor()
	if d == nil {
		return nil, false
	}
	return d, true
}
