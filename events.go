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

import "sync"

// Phase is one of the four ordered notifications emitted per mutation.
type Phase int

const (
	// PrepareChange fires first, before any public notification. Structural
	// listeners detach from the subtree that is about to change.
	PrepareChange Phase = iota
	// Changing fires before the value is written.
	Changing
	// Changed fires after the value is written and references are refreshed.
	Changed
	// FinalizeChange fires last. Structural listeners attach to the current subtree.
	FinalizeChange

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PrepareChange:
		return "prepare"
	case Changing:
		return "changing"
	case Changed:
		return "changed"
	case FinalizeChange:
		return "finalize"
	}
	return "unknown"
}

// ChangeType classifies a mutation.
type ChangeType int

const (
	// ValueChange replaces the whole value; the index is empty.
	ValueChange ChangeType = iota
	// CollectionAdd adds an item.
	CollectionAdd
	// CollectionRemove removes an item.
	CollectionRemove
	// CollectionUpdate replaces the item at an index.
	CollectionUpdate
)

func (t ChangeType) String() string {
	switch t {
	case ValueChange:
		return "value"
	case CollectionAdd:
		return "add"
	case CollectionRemove:
		return "remove"
	case CollectionUpdate:
		return "update"
	}
	return "unknown"
}

// ChangeEvent describes one mutation of a content.
type ChangeEvent struct {
	Content  Content
	Type     ChangeType
	Index    Index
	OldValue any
	NewValue any
}

// ChangeHandler receives change events.
type ChangeHandler func(ChangeEvent)

type subscription struct {
	id uint64
	h  ChangeHandler
}

// eventHub holds the handlers of one content, per phase, in subscription order.
type eventHub struct {
	mu     sync.Mutex
	nextID uint64
	subs   [phaseCount][]subscription
}

func (h *eventHub) subscribe(p Phase, fn ChangeHandler) func() {
	if fn == nil || p < 0 || p >= phaseCount {
		return func() {}
	}
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs[p] = append(h.subs[p], subscription{id: id, h: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			subs := h.subs[p]
			for i, s := range subs {
				if s.id == id {
					h.subs[p] = append(subs[:i:i], subs[i+1:]...)
					return
				}
			}
		})
	}
}

// emit calls a snapshot of the handlers, so handlers may subscribe or
// cancel while being notified.
func (h *eventHub) emit(p Phase, ev ChangeEvent) {
	h.mu.Lock()
	subs := h.subs[p]
	h.mu.Unlock()
	for _, s := range subs {
		s.h(ev)
	}
}

func (h *eventHub) count(p Phase) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[p])
}
