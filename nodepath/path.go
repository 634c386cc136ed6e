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

// Package nodepath addresses nodes relative to a root node.
//
// A Path is an immutable sequence of steps: Member(name) descends into a
// child, Target follows an ObjectReference and Index(i) follows one entry of
// a ReferenceEnumerable. Paths are resolved against the current graph, so a
// path taken on one graph also addresses the corresponding node of a graph
// rebuilt from equivalent data.
package nodepath

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"dirpx.dev/quantum"
	"dirpx.dev/quantum/apis"
	uref "dirpx.dev/quantum/utils/reflect"
)

// ErrUnresolved is returned when a step does not lead to a node.
var ErrUnresolved = errors.New("quantum(nodepath): path does not resolve")

// Kind is the kind of a path step.
type Kind uint8

const (
	// Member descends into the child with the step name.
	Member Kind = iota + 1
	// Target follows the ObjectReference of the node.
	Target
	// Index follows the ReferenceEnumerable entry at the step index.
	Index
)

func (k Kind) String() string {
	switch k {
	case Member:
		return "member"
	case Target:
		return "target"
	case Index:
		return "index"
	}
	return "unknown"
}

// Step is one element of a Path.
type Step struct {
	Kind  Kind
	Name  string
	Index quantum.Index
}

func (s Step) String() string {
	switch s.Kind {
	case Member:
		return "." + s.Name
	case Target:
		return "->"
	case Index:
		return s.Index.String()
	}
	return "?"
}

// Path is an address relative to a root node. The zero Path has no root.
type Path struct {
	root  *quantum.Node
	steps []Step
	// last is the node the path led to when it was built, or nil.
	last *quantum.Node
}

// New returns the empty path of root.
func New(root *quantum.Node) Path {
	return Path{root: root, last: root}
}

// FromSteps returns the path of root made of steps. The steps are not
// checked until the path is resolved.
func FromSteps(root *quantum.Node, steps []Step) Path {
	p := Path{root: root, steps: slices.Clone(steps)}
	p.last, _ = p.ResolveFrom(root)
	return p
}

// Root returns the root node.
func (p Path) Root() *quantum.Node { return p.root }

// Len returns the number of steps.
func (p Path) Len() int { return len(p.steps) }

// IsEmpty reports whether the path addresses its root.
func (p Path) IsEmpty() bool { return len(p.steps) == 0 }

// Steps returns a copy of the steps.
func (p Path) Steps() []Step { return slices.Clone(p.steps) }

// Node returns the node the path led to when it was built, without
// re-resolving.
func (p Path) Node() *quantum.Node { return p.last }

// PushMember returns the path extended with a member step.
func (p Path) PushMember(name string) Path {
	var next *quantum.Node
	if p.last != nil {
		next = p.last.Child(name)
	}
	return p.push(Step{Kind: Member, Name: name}, next)
}

// PushTarget returns the path extended with a target step.
func (p Path) PushTarget() Path {
	var next *quantum.Node
	if p.last != nil {
		next = p.last.Target()
	}
	return p.push(Step{Kind: Target}, next)
}

// PushIndex returns the path extended with an index step. The node at the
// end of p must hold a ReferenceEnumerable.
func (p Path) PushIndex(index quantum.Index) (Path, error) {
	if index.IsEmpty() {
		return p, quantum.ErrEmptyIndex
	}
	if p.last == nil {
		return p, fmt.Errorf("%w: %s", ErrUnresolved, p)
	}
	if _, ok := p.last.Content().Reference().(*quantum.ReferenceEnumerable); !ok {
		return p, &quantum.ConsistencyError{
			Expected: "a node holding an enumerable reference",
			Actual:   describe(p.last),
			Node:     p.last.Name(),
		}
	}
	if err := checkIndexKind(p.last, index); err != nil {
		return p, err
	}
	next, _ := p.last.IndexedTarget(index)
	return p.push(Step{Kind: Index, Index: index}, next), nil
}

// checkIndexKind rejects an index that can never address an item of n. An
// index of the right kind that is currently absent is accepted.
func checkIndexKind(n *quantum.Node, index quantum.Index) error {
	switch d := n.Content().Descriptor().(type) {
	case apis.CollectionDescriptor:
		if index.IsInt() {
			return nil
		}
		return &quantum.ConsistencyError{
			Expected: "an integer index",
			Actual:   fmt.Sprintf("key index %s", index),
			Node:     n.Name(),
		}
	case apis.DictionaryDescriptor:
		if _, err := uref.Assign(index.Value(), d.KeyType()); err == nil {
			return nil
		}
		return &quantum.ConsistencyError{
			Expected: fmt.Sprintf("a key of type %s", d.KeyType()),
			Actual:   fmt.Sprintf("index %s of type %T", index, index.Value()),
			Node:     n.Name(),
		}
	}
	return nil
}

func (p Path) push(s Step, next *quantum.Node) Path {
	return Path{
		root:  p.root,
		steps: append(slices.Clip(p.steps), s),
		last:  next,
	}
}

// Parent returns the path without its last step. The parent of an empty
// path is the path itself.
func (p Path) Parent() Path {
	if len(p.steps) == 0 {
		return p
	}
	return FromSteps(p.root, p.steps[:len(p.steps)-1])
}

// Clone returns an equal path that shares nothing with p.
func (p Path) Clone() Path {
	return Path{root: p.root, steps: slices.Clone(p.steps), last: p.last}
}

// Equal reports whether both paths have the same root and steps.
func (p Path) Equal(o Path) bool {
	return p.root == o.root && slices.EqualFunc(p.steps, o.steps, func(a, b Step) bool {
		return a.Kind == b.Kind && a.Name == b.Name && a.Index.Equal(b.Index)
	})
}

// Resolve returns the node the path addresses in the current graph.
func (p Path) Resolve() (*quantum.Node, error) {
	return p.ResolveFrom(p.root)
}

// ResolveFrom walks the steps of p starting at root, which may belong to
// another graph.
func (p Path) ResolveFrom(root *quantum.Node) (*quantum.Node, error) {
	if root == nil {
		return nil, quantum.ErrNilNode
	}
	n := root
	for i, s := range p.steps {
		var next *quantum.Node
		switch s.Kind {
		case Member:
			next = n.Child(s.Name)
		case Target:
			next = n.Target()
		case Index:
			t, err := n.IndexedTarget(s.Index)
			if err != nil {
				return nil, fmt.Errorf("%w: step %d %s: %w", ErrUnresolved, i, s, err)
			}
			next = t
		}
		if next == nil {
			return nil, fmt.Errorf("%w: step %d %s from %s", ErrUnresolved, i, s, n.Name())
		}
		n = next
	}
	return n, nil
}

// WithRoot returns the path with the same steps relative to root.
func (p Path) WithRoot(root *quantum.Node) Path {
	return FromSteps(root, p.steps)
}

func (p Path) String() string {
	var b strings.Builder
	if p.root != nil {
		b.WriteString(p.root.Name())
	}
	for _, s := range p.steps {
		b.WriteString(s.String())
	}
	return b.String()
}

func describe(n *quantum.Node) string {
	switch n.Content().Reference().(type) {
	case *quantum.ObjectReference:
		return "an object reference"
	case nil:
		return "no reference"
	}
	return "an unknown reference"
}
