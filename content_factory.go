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

	"dirpx.dev/quantum/apis"
)

// ContentKind selects the content variant a factory is asked for.
type ContentKind int

const (
	// RootContent is the content of a root node with identity or a primitive root.
	RootContent ContentKind = iota
	// BoxedRootContent is the content of a root node holding a value type.
	BoxedRootContent
	// MemberContentKind is the content of a member node.
	MemberContentKind
)

// ContentRequest carries everything needed to create one content.
type ContentRequest struct {
	Kind ContentKind
	// Value is the root value. Invalid for members.
	Value reflect.Value
	// Parent is the content holding the member. Nil for roots.
	Parent Content
	// Member is the member descriptor. Nil for roots.
	Member apis.MemberDescriptor
	// Descriptor describes the value type.
	Descriptor apis.Descriptor
	// Reference is the reference computed for the value, or nil.
	Reference Reference
	// IsPrimitive reports whether the value type is primitive.
	IsPrimitive bool
}

// ContentFactory creates contents during graph construction. Returning
// (nil, nil) declines the request.
type ContentFactory interface {
	CreateContent(req ContentRequest) (Content, error)
}

// ContentFactoryFunc adapts a function to ContentFactory.
type ContentFactoryFunc func(req ContentRequest) (Content, error)

func (f ContentFactoryFunc) CreateContent(req ContentRequest) (Content, error) {
	return f(req)
}

// DefaultContentFactory creates the built-in content variants.
var DefaultContentFactory ContentFactory = ContentFactoryFunc(defaultContent)

func defaultContent(req ContentRequest) (Content, error) {
	switch req.Kind {
	case BoxedRootContent:
		return newBoxedContent(req.Value, req.Descriptor, req.Reference, req.IsPrimitive), nil
	case MemberContentKind:
		if req.Parent == nil || req.Member == nil {
			return nil, ErrNilValue
		}
		return newMemberContent(req.Parent, req.Member, req.Descriptor, req.Reference, req.IsPrimitive), nil
	}
	if !req.Value.IsValid() {
		return nil, ErrNilValue
	}
	return newObjectContent(req.Value, req.Descriptor, req.Reference, req.IsPrimitive), nil
}

// FactoryChain tries each factory in order and falls back to
// DefaultContentFactory when all of them decline.
type FactoryChain []ContentFactory

func (fc FactoryChain) CreateContent(req ContentRequest) (Content, error) {
	for _, f := range fc {
		if f == nil {
			continue
		}
		c, err := f.CreateContent(req)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	}
	return DefaultContentFactory.CreateContent(req)
}
