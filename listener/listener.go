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

// Package listener aggregates the change notifications of a whole graph.
//
// A Listener subscribes to every content reachable from a root node and
// forwards their events through its own four phases. The subscription set
// follows structural change: contents that become reachable are subscribed
// when the change that linked them is finalized, and contents that are no
// longer reachable are released.
package listener

import (
	"sync"

	"dirpx.dev/quantum"
	"dirpx.dev/quantum/nodepath"
	"dirpx.dev/quantum/visitor"
)

var phases = [...]quantum.Phase{
	quantum.PrepareChange,
	quantum.Changing,
	quantum.Changed,
	quantum.FinalizeChange,
}

// Listener forwards the change events of every content reachable from a root.
type Listener struct {
	root        *quantum.Node
	shouldVisit func(*quantum.Node, nodepath.Path) bool

	mu       sync.Mutex
	closed   bool
	watched  map[quantum.Content][]func()
	handlers [len(phases)][]handler
	nextID   uint64
}

type handler struct {
	id uint64
	fn quantum.ChangeHandler
}

// New subscribes to the graph reachable from root. shouldVisit, when not
// nil, prunes the walk the same way as visitor.Visitor.ShouldVisit.
func New(root *quantum.Node, shouldVisit func(*quantum.Node, nodepath.Path) bool) *Listener {
	l := &Listener{
		root:        root,
		shouldVisit: shouldVisit,
		watched:     make(map[quantum.Content][]func()),
	}
	l.sync()
	return l
}

// Root returns the root node.
func (l *Listener) Root() *quantum.Node { return l.root }

// Len returns the number of contents currently subscribed.
func (l *Listener) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.watched)
}

// Watches reports whether the content of n is subscribed.
func (l *Listener) Watches(n *quantum.Node) bool {
	if n == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.watched[n.Content()]
	return ok
}

// Subscribe registers h for phase and returns a function that removes it.
func (l *Listener) Subscribe(phase quantum.Phase, h quantum.ChangeHandler) func() {
	if h == nil || phase < quantum.PrepareChange || phase > quantum.FinalizeChange {
		return func() {}
	}
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.handlers[phase] = append(l.handlers[phase], handler{id: id, fn: h})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			hs := l.handlers[phase]
			for i, x := range hs {
				if x.id == id {
					l.handlers[phase] = append(hs[:i:i], hs[i+1:]...)
					return
				}
			}
		})
	}
}

// Close releases every subscription. Events are no longer forwarded.
func (l *Listener) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for c, cancels := range l.watched {
		for _, cancel := range cancels {
			cancel()
		}
		delete(l.watched, c)
	}
}

// sync walks the graph and brings the subscription set in line with it.
func (l *Listener) sync() {
	reachable := make(map[quantum.Content]struct{})
	v := visitor.Visitor{
		ShouldVisit: l.shouldVisit,
		Visiting: func(n *quantum.Node, _ nodepath.Path) {
			reachable[n.Content()] = struct{}{}
		},
	}
	v.Visit(l.root)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	for c, cancels := range l.watched {
		if _, ok := reachable[c]; ok {
			continue
		}
		for _, cancel := range cancels {
			cancel()
		}
		delete(l.watched, c)
	}
	for c := range reachable {
		if _, ok := l.watched[c]; ok {
			continue
		}
		cancels := make([]func(), 0, len(phases))
		for _, p := range phases {
			cancels = append(cancels, c.Subscribe(p, l.forwarder(p)))
		}
		l.watched[c] = cancels
	}
}

func (l *Listener) forwarder(p quantum.Phase) quantum.ChangeHandler {
	return func(ev quantum.ChangeEvent) {
		if p == quantum.FinalizeChange {
			l.sync()
		}
		l.emit(p, ev)
	}
}

func (l *Listener) emit(p quantum.Phase, ev quantum.ChangeEvent) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	hs := l.handlers[p]
	l.mu.Unlock()
	for _, h := range hs {
		h.fn(ev)
	}
}
