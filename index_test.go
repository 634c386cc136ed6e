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

package quantum_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/quantum"
)

func TestIndex(t *testing.T) {
	assert.True(t, quantum.EmptyIndex.IsEmpty())
	assert.Nil(t, quantum.EmptyIndex.Value())
	assert.Equal(t, -1, quantum.EmptyIndex.Int())
	assert.Equal(t, "[]", quantum.EmptyIndex.String())

	i := quantum.IntIndex(3)
	assert.True(t, i.IsInt())
	assert.Equal(t, 3, i.Int())
	assert.Equal(t, 3, i.Value())
	assert.Equal(t, "[3]", i.String())
	assert.True(t, i.Equal(quantum.NewIndex(3)))
	assert.False(t, i.Equal(quantum.KeyIndex(3)), "kinds differ")

	k := quantum.KeyIndex("a")
	assert.True(t, k.IsKey())
	assert.Equal(t, "a", k.Value())
	assert.Equal(t, "[a]", k.String())
	assert.True(t, k == quantum.KeyIndex("a"), "indices are comparable")

	assert.Equal(t, quantum.EmptyIndex, quantum.NewIndex(nil))
	assert.Equal(t, k, quantum.NewIndex(k))
	assert.Panics(t, func() { quantum.KeyIndex(nil) })
	assert.Panics(t, func() { quantum.KeyIndex([]int{1}) })
}
