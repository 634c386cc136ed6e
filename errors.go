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
	"errors"
	"fmt"
)

var (
	// ErrNilValue is returned when a required value argument is nil.
	ErrNilValue = errors.New("quantum: nil value")
	// ErrNilNode is returned when a required node argument is nil.
	ErrNilNode = errors.New("quantum: nil node")
	// ErrSealed is returned when the structure of a sealed node is modified.
	ErrSealed = errors.New("quantum: node is sealed")
	// ErrDuplicateChild is returned when a child name is already used.
	ErrDuplicateChild = errors.New("quantum: duplicate child name")
	// ErrHasReference is returned when a child is added to a reference node.
	ErrHasReference = errors.New("quantum: node holds a reference and cannot have children")
	// ErrUnsupported is returned when an operation does not apply to a content.
	ErrUnsupported = errors.New("quantum: operation not supported")
	// ErrEmptyIndex is returned when an operation requires a non-empty index.
	ErrEmptyIndex = errors.New("quantum: empty index")
	// ErrInvalidIndex is returned when an index does not address an item.
	ErrInvalidIndex = errors.New("quantum: invalid index")
	// ErrMemberNotFound is returned when a node has no member with the requested name.
	ErrMemberNotFound = errors.New("quantum: member not found")
	// ErrNoReference is returned when a node has no reference of the requested kind.
	ErrNoReference = errors.New("quantum: node has no such reference")
	// ErrConsistency is the sentinel matched by every ConsistencyError.
	ErrConsistency = errors.New("quantum: consistency violation")
	// ErrNilRegistry is raised when a builder returns a nil registry.
	ErrNilRegistry = errors.New("quantum: builder returned nil registry")
	// ErrNilResolver is raised when a builder returns a nil resolver.
	ErrNilResolver = errors.New("quantum: builder returned nil resolver")
)

// ConsistencyError reports a disagreement between what the graph model
// requires and what a type or value actually is.
type ConsistencyError struct {
	// Expected describes the required shape.
	Expected string
	// Actual describes the shape that was found.
	Actual string
	// Node names the offending node or type.
	Node string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("quantum: consistency violation on %s: expected %s, got %s", e.Node, e.Expected, e.Actual)
}

// Unwrap lets errors.Is match ErrConsistency.
func (e *ConsistencyError) Unwrap() error { return ErrConsistency }
