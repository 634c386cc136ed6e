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
	"reflect"
)

type indexKind uint8

const (
	emptyIndex indexKind = iota
	intIndex
	keyIndex
)

// Index addresses an item of a collection (integer position) or dictionary
// (key). The zero value is the empty index, which addresses the whole content.
type Index struct {
	kind indexKind
	i    int
	key  any
}

// EmptyIndex addresses a whole content.
var EmptyIndex = Index{}

// IntIndex returns an index for position i.
func IntIndex(i int) Index {
	return Index{kind: intIndex, i: i}
}

// KeyIndex returns an index for dictionary key k. k must be comparable;
// KeyIndex panics otherwise.
func KeyIndex(k any) Index {
	if k == nil {
		panic(fmt.Errorf("%w: nil key", ErrInvalidIndex))
	}
	if !reflect.TypeOf(k).Comparable() {
		panic(fmt.Errorf("%w: key of type %T is not comparable", ErrInvalidIndex, k))
	}
	return Index{kind: keyIndex, key: k}
}

// NewIndex returns EmptyIndex for nil, IntIndex for an int, and KeyIndex for
// anything else.
func NewIndex(v any) Index {
	switch x := v.(type) {
	case nil:
		return EmptyIndex
	case Index:
		return x
	case int:
		return IntIndex(x)
	default:
		return KeyIndex(v)
	}
}

func (x Index) IsEmpty() bool { return x.kind == emptyIndex }
func (x Index) IsInt() bool   { return x.kind == intIndex }
func (x Index) IsKey() bool   { return x.kind == keyIndex }

// Int returns the position of an integer index, or -1.
func (x Index) Int() int {
	if x.kind != intIndex {
		return -1
	}
	return x.i
}

// Value returns the position or key, or nil for the empty index.
func (x Index) Value() any {
	switch x.kind {
	case intIndex:
		return x.i
	case keyIndex:
		return x.key
	}
	return nil
}

// Equal reports whether both indices have the same kind and payload.
func (x Index) Equal(y Index) bool {
	if x.kind != y.kind {
		return false
	}
	switch x.kind {
	case intIndex:
		return x.i == y.i
	case keyIndex:
		return x.key == y.key
	}
	return true
}

func (x Index) String() string {
	switch x.kind {
	case intIndex:
		return fmt.Sprintf("[%d]", x.i)
	case keyIndex:
		return fmt.Sprintf("[%v]", x.key)
	}
	return "[]"
}
