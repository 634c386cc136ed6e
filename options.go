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
	"log/slog"
	"reflect"

	"dirpx.dev/quantum/apis"
)

// Option configures a Container.
type Option func(*containerOptions)

type containerOptions struct {
	logger       *slog.Logger
	metrics      *Metrics
	guids        *GuidContainer
	noGuids      bool
	ts           *TypeSystem
	factories    []ContentFactory
	commands     []Command
	primitives   []reflect.Type
	constructing func(parent *Node, member apis.MemberDescriptor) bool
	constructed  func(n *Node)
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *containerOptions) { o.logger = l }
}

// WithMetrics records container activity into m.
func WithMetrics(m *Metrics) Option {
	return func(o *containerOptions) { o.metrics = m }
}

// WithGuidContainer shares gc as the identity side table.
func WithGuidContainer(gc *GuidContainer) Option {
	return func(o *containerOptions) {
		o.guids = gc
		o.noGuids = false
	}
}

// WithoutGuidContainer tracks identity in a table private to the container.
// Guids are then only stable while the object has a node in the container:
// Evict and Clear forget them.
func WithoutGuidContainer() Option {
	return func(o *containerOptions) {
		o.guids = nil
		o.noGuids = true
	}
}

// WithTypeSystem sets the type system used to describe values.
func WithTypeSystem(ts *TypeSystem) Option {
	return func(o *containerOptions) { o.ts = ts }
}

// WithContentFactory adds f in front of the default content factory.
func WithContentFactory(f ContentFactory) Option {
	return func(o *containerOptions) { o.factories = append(o.factories, f) }
}

// WithCommands makes cmds available to every node built.
func WithCommands(cmds ...Command) Option {
	return func(o *containerOptions) { o.commands = append(o.commands, cmds...) }
}

// WithPrimitiveTypes registers ts as primitives in the type system.
func WithPrimitiveTypes(ts ...reflect.Type) Option {
	return func(o *containerOptions) { o.primitives = append(o.primitives, ts...) }
}

// WithNodeConstructing installs a hook called before each member node is
// created. Returning false discards the member.
func WithNodeConstructing(fn func(parent *Node, member apis.MemberDescriptor) bool) Option {
	return func(o *containerOptions) { o.constructing = fn }
}

// WithNodeConstructed installs a hook called after each node is sealed.
func WithNodeConstructed(fn func(n *Node)) Option {
	return func(o *containerOptions) { o.constructed = fn }
}
