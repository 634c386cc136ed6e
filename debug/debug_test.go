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

package debug_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/quantum"
	"dirpx.dev/quantum/debug"
)

type Item struct {
	Name string
	Next *Item
}

type Root struct {
	Title string
	First *Item
	List  []*Item
}

func graph(t *testing.T) *quantum.Node {
	t.Helper()
	c, err := quantum.NewContainer()
	require.NoError(t, err)
	n, err := c.GetOrCreateNode(&Root{Title: "r", First: &Item{Name: "a"}, List: []*Item{{Name: "b"}}})
	require.NoError(t, err)
	return n
}

func TestSprint(t *testing.T) {
	want := strings.Join([]string{
		`*debug_test.Root`,
		`  .Title = "r" (string)`,
		`  .First -> *debug_test.Item (*debug_test.Item)`,
		`    -> (*debug_test.Item)`,
		`      .Name = "a" (string)`,
		`      .Next -> nil (*debug_test.Item)`,
		`  .List [1] ([]*debug_test.Item)`,
		`    [0] (*debug_test.Item)`,
		`      .Name = "b" (string)`,
		`      .Next -> nil (*debug_test.Item)`,
		``,
	}, "\n")
	if diff := cmp.Diff(want, debug.Sprint(graph(t))); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}
}

func TestFprint_MaxDepth(t *testing.T) {
	out := debug.Sprint(graph(t), debug.WithMaxDepth(1))
	assert.Equal(t, 4, strings.Count(out, "\n"), out)
	assert.NotContains(t, out, ".Name")
}

func TestFprint_Guids(t *testing.T) {
	root := graph(t)
	out := debug.Sprint(root, debug.WithGuids())
	assert.True(t, strings.HasPrefix(out, root.Name()+" "+root.Guid().String()+"\n"), out)
}

func TestFprint_Color(t *testing.T) {
	root := graph(t)

	var plain bytes.Buffer
	require.NoError(t, debug.Fprint(&plain, root))
	assert.NotContains(t, plain.String(), "\x1b[", "buffers are not terminals")

	var colored bytes.Buffer
	require.NoError(t, debug.Fprint(&colored, root, debug.WithColor(true)))
	assert.Contains(t, colored.String(), "\x1b[")
	assert.Equal(t, strings.Count(plain.String(), "\n"), strings.Count(colored.String(), "\n"))
}

func TestFprint_Nil(t *testing.T) {
	assert.Empty(t, debug.Sprint(nil))
}
