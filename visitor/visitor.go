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

// Package visitor walks node graphs depth-first.
package visitor

import (
	"dirpx.dev/quantum"
	"dirpx.dev/quantum/nodepath"
)

// Visitor walks a graph: each node, then its children, then the target of
// its ObjectReference, then the targets of its ReferenceEnumerable in index
// order. Every node is visited at most once per walk.
//
// All fields are optional. A Visitor is stateless between walks and may be
// reused.
type Visitor struct {
	// ShouldVisit prunes the walk. It is called for every node except the
	// root; returning false skips the node and everything below it.
	ShouldVisit func(n *quantum.Node, path nodepath.Path) bool
	// Visiting is called when a node is entered.
	Visiting func(n *quantum.Node, path nodepath.Path)
	// Visited is called when a node and everything below it were walked.
	Visited func(n *quantum.Node, path nodepath.Path)
	// SkipRootNode suppresses the hooks for the root node.
	SkipRootNode bool
}

// Visit walks the graph reachable from root.
func (v *Visitor) Visit(root *quantum.Node) {
	v.VisitFrom(root, nodepath.New(root))
}

// VisitFrom walks the graph reachable from root, reporting paths relative to
// initial, which must address root.
func (v *Visitor) VisitFrom(root *quantum.Node, initial nodepath.Path) {
	if root == nil {
		return
	}
	w := walk{v: v, root: root, visited: make(map[*quantum.Node]struct{})}
	w.node(root, initial)
}

type walk struct {
	v       *Visitor
	root    *quantum.Node
	visited map[*quantum.Node]struct{}
}

func (w *walk) node(n *quantum.Node, path nodepath.Path) {
	w.visited[n] = struct{}{}
	hooks := n != w.root || !w.v.SkipRootNode
	if hooks && w.v.Visiting != nil {
		w.v.Visiting(n, path)
	}

	for _, child := range n.Children() {
		w.enter(child, path.PushMember(child.Name()))
	}
	switch r := n.Content().Reference().(type) {
	case *quantum.ObjectReference:
		if t := r.TargetNode(); t != nil {
			w.enter(t, path.PushTarget())
		}
	case *quantum.ReferenceEnumerable:
		for index, ref := range r.All() {
			t := ref.TargetNode()
			if t == nil {
				continue
			}
			p, err := path.PushIndex(index)
			if err != nil {
				continue
			}
			w.enter(t, p)
		}
	}

	if hooks && w.v.Visited != nil {
		w.v.Visited(n, path)
	}
}

func (w *walk) enter(n *quantum.Node, path nodepath.Path) {
	if _, seen := w.visited[n]; seen {
		return
	}
	if w.v.ShouldVisit != nil && !w.v.ShouldVisit(n, path) {
		return
	}
	w.node(n, path)
}
