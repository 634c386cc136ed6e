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

// Package linker pairs the nodes of two graphs that have the same shape.
package linker

import (
	"dirpx.dev/quantum"
	"dirpx.dev/quantum/nodepath"
	"dirpx.dev/quantum/visitor"
)

// Linker walks a source graph and finds, for every source node, the node at
// the same position in a target graph: members by name, single references
// by target and enumerable references by index.
type Linker struct {
	// LinkNodes is called once per visited source node with its
	// counterpart, which is nil when the target graph has no node there.
	LinkNodes func(source, target *quantum.Node)
	// FindTarget overrides the counterpart found by position. candidate is
	// the positional match or nil.
	FindTarget func(source *quantum.Node, path nodepath.Path, candidate *quantum.Node) *quantum.Node
	// ShouldVisit prunes the source walk.
	ShouldVisit func(n *quantum.Node, path nodepath.Path) bool
}

// Link pairs the graph reachable from source with the graph reachable from
// target. It returns every visited source node mapped to its counterpart.
func (l *Linker) Link(source, target *quantum.Node) map[*quantum.Node]*quantum.Node {
	links := make(map[*quantum.Node]*quantum.Node)
	if source == nil {
		return links
	}
	v := visitor.Visitor{
		ShouldVisit: l.ShouldVisit,
		Visiting: func(n *quantum.Node, path nodepath.Path) {
			t := l.counterpart(n, path, target)
			links[n] = t
			if l.LinkNodes != nil {
				l.LinkNodes(n, t)
			}
		},
	}
	v.Visit(source)
	return links
}

func (l *Linker) counterpart(n *quantum.Node, path nodepath.Path, target *quantum.Node) *quantum.Node {
	var candidate *quantum.Node
	if target != nil {
		candidate, _ = path.ResolveFrom(target)
	}
	if l.FindTarget != nil {
		return l.FindTarget(n, path, candidate)
	}
	return candidate
}
