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
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	uref "dirpx.dev/quantum/utils/reflect"
)

// Container makes object graphs navigable by identity. It owns one root
// node per registered object and keeps reference targets current as the
// data mutates.
//
// All operations are serialized by one mutex. Each operation carries its own
// visiting set down the call stack, so cyclic and diamond-shaped data are
// resolved once per pass. Builder hooks and content factories run with the
// lock held and must not call back into the container.
type Container struct {
	mu      sync.Mutex
	nodes   map[uuid.UUID]*Node
	order   []uuid.UUID
	guids   *GuidContainer
	local   map[guidKey]uuid.UUID
	builder *NodeBuilder
	ts      *TypeSystem
	logger  *slog.Logger
	metrics *Metrics
}

// NewContainer returns an empty container.
func NewContainer(opts ...Option) (*Container, error) {
	o := containerOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.ts == nil {
		o.ts = NewTypeSystem()
	}
	for _, t := range o.primitives {
		if err := o.ts.RegisterPrimitive(t); err != nil {
			return nil, err
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.guids == nil && !o.noGuids {
		o.guids = NewGuidContainer()
	}

	var factory ContentFactory = DefaultContentFactory
	if len(o.factories) > 0 {
		factory = FactoryChain(o.factories)
	}
	c := &Container{
		nodes:   make(map[uuid.UUID]*Node),
		guids:   o.guids,
		ts:      o.ts,
		logger:  o.logger,
		metrics: o.metrics,
	}
	if o.noGuids {
		c.local = make(map[guidKey]uuid.UUID)
	}
	c.builder = NewNodeBuilder(o.ts, factory, o.commands...)
	c.builder.container = c
	c.builder.Constructing = o.constructing
	c.builder.Constructed = o.constructed
	return c, nil
}

// TypeSystem returns the type system of the container.
func (c *Container) TypeSystem() *TypeSystem { return c.ts }

// NodeBuilder returns the builder used by the container.
func (c *Container) NodeBuilder() *NodeBuilder { return c.builder }

// GetOrCreateNode returns the root node of value, building and registering
// it on first sight. A nil value yields (nil, nil). Value types are copied
// and get a new node on every call.
func (c *Container) GetOrCreateNode(value any) (*Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getOrCreate(value, make(map[*Node]struct{}))
}

// GetOrCreateNodeWithFactory is GetOrCreateNode with nf creating the nodes
// of a newly built tree.
func (c *Container) GetOrCreateNodeWithFactory(value any, nf NodeFactory) (*Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.builder.nodeFactory
	if nf != nil {
		c.builder.nodeFactory = nf
	}
	defer func() { c.builder.nodeFactory = prev }()
	return c.getOrCreate(value, make(map[*Node]struct{}))
}

// GetNode returns the registered root node of value, or nil. It never
// builds a root for value itself, but it refreshes the references of the
// node it returns, which may build nodes for new targets. A refresh error is
// logged and the node is returned as far as it could be refreshed.
func (c *Container) GetNode(value any) *Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.lookup(value)
	c.metrics.lookup(n != nil)
	c.refresh(n)
	return n
}

// GetNodeByGuid returns the registered root node with Guid g, or nil. The
// node is refreshed like in GetNode.
func (c *Container) GetNodeByGuid(g uuid.UUID) *Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.nodes[g]
	c.refresh(n)
	return n
}

// GetGuid returns the Guid of value, or uuid.Nil when it has none.
func (c *Container) GetGuid(value any) uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guidOf(value)
}

// Nodes returns the registered root nodes in registration order.
func (c *Container) Nodes() []*Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Node, 0, len(c.order))
	for _, g := range c.order {
		out = append(out, c.nodes[g])
	}
	return out
}

// Guids returns the Guids of the registered root nodes in registration order.
func (c *Container) Guids() []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.order)
}

// Len returns the number of registered root nodes.
func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}

// Clear drops every node and the identity side table. A shared
// GuidContainer is cleared too.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.nodes)
	clear(c.nodes)
	c.order = c.order[:0]
	if c.guids != nil {
		c.guids.Clear()
	}
	if c.local != nil {
		clear(c.local)
	}
	c.metrics.cleared()
	c.logger.Debug("container cleared", "nodes", n)
}

// Evict unregisters the node of value and reports whether there was one.
// The Guid of value is kept in the GuidContainer. A container without one
// forgets the Guid, since its private table cannot follow the object's
// lifetime once no node holds it.
func (c *Container) Evict(value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.lookup(value)
	if n == nil {
		return false
	}
	delete(c.nodes, n.guid)
	c.order = slices.DeleteFunc(c.order, func(g uuid.UUID) bool { return g == n.guid })
	c.forget(value)
	c.logger.Debug("node evicted", "guid", n.guid, "name", n.name)
	return true
}

// UpdateReferences re-derives the references reachable from n and wires
// their targets, creating target nodes on demand.
func (c *Container) UpdateReferences(n *Node) error {
	if n == nil {
		return ErrNilNode
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateReferences(n, make(map[*Node]struct{}))
}

func (c *Container) getOrCreate(value any, visiting map[*Node]struct{}) (*Node, error) {
	if uref.IsNil(reflect.ValueOf(value)) {
		return nil, nil
	}
	if n := c.lookup(value); n != nil {
		c.metrics.lookup(true)
		return n, c.updateReferences(n, visiting)
	}
	c.metrics.lookup(false)

	start := time.Now()
	guid := c.guidFor(value)
	root, err := c.builder.Build(value, guid)
	if err != nil {
		c.forget(value)
		return nil, err
	}
	refs := c.builder.ReferenceContents()
	c.nodes[guid] = root
	c.order = append(c.order, guid)
	c.metrics.built(start)
	c.logger.Debug("node created", "guid", guid, "name", root.name, "references", len(refs))

	visiting[root] = struct{}{}
	for _, rc := range refs {
		if err := c.resolve(rc, visiting); err != nil {
			return root, err
		}
	}
	return root, nil
}

func (c *Container) updateReferences(n *Node, visiting map[*Node]struct{}) error {
	if _, ok := visiting[n]; ok {
		return nil
	}
	visiting[n] = struct{}{}
	if n.content == nil {
		return nil
	}
	if n.content.IsReference() {
		return c.resolve(n.content, visiting)
	}
	for _, child := range n.children {
		if err := c.updateReferences(child, visiting); err != nil {
			return err
		}
	}
	return nil
}

// resolve refreshes the reference of content from its live value and makes
// every entry point at the node of its current value.
func (c *Container) resolve(content Content, visiting map[*Node]struct{}) error {
	b := content.base()
	b.ref.refresh(b.acc.live(), b.desc)
	for index, r := range b.ref.references() {
		value := r.objectValue
		if uref.IsNil(reflect.ValueOf(value)) {
			r.Clear()
			continue
		}
		if t := r.target; t != nil {
			if uref.Same(t.content.Value(), value) {
				if err := c.updateReferences(t, visiting); err != nil {
					return err
				}
				continue
			}
			r.Clear()
		}
		target, err := c.getOrCreate(value, visiting)
		if err != nil {
			return err
		}
		r.setTarget(target)
		if bc, ok := target.content.(*BoxedContent); ok {
			bc.setOwner(content, index)
		}
		c.metrics.resolved()
		c.logger.Debug("reference resolved", "owner", nodeName(b.node), "index", index.String(), "target", target.guid)
	}
	return nil
}

func (c *Container) refresh(n *Node) {
	if n == nil {
		return
	}
	if err := c.updateReferences(n, make(map[*Node]struct{})); err != nil {
		c.logger.Debug("reference refresh failed", "guid", n.guid, "name", n.name, "error", err)
	}
}

// forget drops value from the private identity table unless a registered
// node still holds its Guid.
func (c *Container) forget(value any) {
	if c.local == nil {
		return
	}
	v := uref.Unwrap(reflect.ValueOf(value))
	if !uref.HasIdentity(v) {
		return
	}
	key := keyOf(v)
	if _, ok := c.nodes[c.local[key]]; !ok {
		delete(c.local, key)
	}
}

func (c *Container) lookup(value any) *Node {
	g := c.guidOf(value)
	if g == uuid.Nil {
		return nil
	}
	return c.nodes[g]
}

func (c *Container) guidOf(value any) uuid.UUID {
	v := uref.Unwrap(reflect.ValueOf(value))
	if !uref.HasIdentity(v) {
		return uuid.Nil
	}
	if c.local != nil {
		return c.local[keyOf(v)]
	}
	return c.guids.GetGuid(value)
}

func (c *Container) guidFor(value any) uuid.UUID {
	v := uref.Unwrap(reflect.ValueOf(value))
	if !uref.HasIdentity(v) {
		return uuid.New()
	}
	if c.local != nil {
		key := keyOf(v)
		g, ok := c.local[key]
		if !ok {
			g = uuid.New()
			c.local[key] = g
		}
		return g
	}
	return c.guids.GetOrCreateGuid(value)
}

func nodeName(n *Node) string {
	if n == nil {
		return ""
	}
	return n.name
}
