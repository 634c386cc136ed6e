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
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Node is one vertex of the graph. It owns one Content and an ordered list of
// uniquely named children. Once sealed, children and commands are fixed; the
// value and the reference targets remain mutable.
type Node struct {
	guid      uuid.UUID
	name      string
	content   Content
	parent    *Node
	children  []*Node
	byName    map[string]*Node
	commands  []Command
	sealed    bool
	container *Container
}

// NodeFactory creates the node for a content. The default is NewNode.
type NodeFactory func(name string, content Content, guid uuid.UUID) *Node

// NewNode returns an unsealed node bound to content.
func NewNode(name string, content Content, guid uuid.UUID) *Node {
	n := &Node{guid: guid, name: name, content: content}
	if content != nil {
		content.base().node = n
	}
	return n
}

func (n *Node) Guid() uuid.UUID       { return n.guid }
func (n *Node) Name() string          { return n.name }
func (n *Node) Content() Content      { return n.content }
func (n *Node) Parent() *Node         { return n.parent }
func (n *Node) IsSealed() bool        { return n.sealed }
func (n *Node) Container() *Container { return n.container }

// Children returns the children in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Child returns the child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	return n.byName[name]
}

// TryGetChild returns the child with the given name.
func (n *Node) TryGetChild(name string) (*Node, bool) {
	c, ok := n.byName[name]
	return c, ok
}

// Target returns the target of the node's ObjectReference, or nil.
func (n *Node) Target() *Node {
	if r, ok := n.content.Reference().(*ObjectReference); ok {
		return r.TargetNode()
	}
	return nil
}

// IndexedTarget returns the target of the enumerable reference entry at index.
func (n *Node) IndexedTarget(index Index) (*Node, error) {
	if index.IsEmpty() {
		return nil, ErrEmptyIndex
	}
	r, ok := n.content.Reference().(*ReferenceEnumerable)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no enumerable reference", ErrNoReference, n.name)
	}
	index, err := n.content.base().normalizeIndex(index)
	if err != nil {
		return nil, err
	}
	ref, ok := r.Get(index)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrInvalidIndex, index, n.name)
	}
	return ref.TargetNode(), nil
}

// AddChild appends child. It fails on sealed nodes, on nodes holding a
// reference and on duplicate names.
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return ErrNilNode
	}
	if n.sealed {
		return fmt.Errorf("%w: cannot add child %s to %s", ErrSealed, child.name, n.name)
	}
	if n.content != nil && n.content.IsReference() {
		return fmt.Errorf("%w: %s", ErrHasReference, n.name)
	}
	if _, dup := n.byName[child.name]; dup {
		return fmt.Errorf("%w: %s on %s", ErrDuplicateChild, child.name, n.name)
	}
	if n.byName == nil {
		n.byName = make(map[string]*Node)
	}
	child.parent = n
	n.children = append(n.children, child)
	n.byName[child.name] = child
	return nil
}

// AddCommand attaches cmd. It fails on sealed nodes.
func (n *Node) AddCommand(cmd Command) error {
	if cmd == nil {
		return ErrNilValue
	}
	if n.sealed {
		return fmt.Errorf("%w: cannot add command %s to %s", ErrSealed, cmd.Name(), n.name)
	}
	n.commands = append(n.commands, cmd)
	return nil
}

// Commands returns the attached commands.
func (n *Node) Commands() []Command {
	out := make([]Command, len(n.commands))
	copy(out, n.commands)
	return out
}

// Command returns the attached command with the given name, or nil.
func (n *Node) Command(name string) Command {
	for _, c := range n.commands {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// Seal fixes the children and commands of the node.
func (n *Node) Seal() { n.sealed = true }

func (n *Node) String() string {
	var b strings.Builder
	b.WriteString(n.name)
	if n.content != nil {
		fmt.Fprintf(&b, ": %s = %v", n.content.Type(), n.content.Value())
		if n.content.IsReference() {
			b.WriteString(" (reference)")
		}
	}
	return b.String()
}
