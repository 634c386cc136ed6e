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

package visitor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/quantum"
	"dirpx.dev/quantum/nodepath"
	"dirpx.dev/quantum/visitor"
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

func graph(t *testing.T) (*quantum.Node, *Root) {
	t.Helper()
	a := &Item{Name: "a", Next: &Item{Name: "b"}}
	r := &Root{Title: "r", First: a, List: []*Item{{Name: "c"}, a}}
	c, err := quantum.NewContainer()
	require.NoError(t, err)
	n, err := c.GetOrCreateNode(r)
	require.NoError(t, err)
	return n, r
}

func rel(root *quantum.Node, p nodepath.Path) string {
	return strings.TrimPrefix(p.String(), root.Name())
}

func TestVisitor_Order(t *testing.T) {
	root, _ := graph(t)

	var visiting, visited []string
	v := visitor.Visitor{
		Visiting: func(_ *quantum.Node, p nodepath.Path) { visiting = append(visiting, rel(root, p)) },
		Visited:  func(_ *quantum.Node, p nodepath.Path) { visited = append(visited, rel(root, p)) },
	}
	v.Visit(root)

	assert.Equal(t, []string{
		"",
		".Title",
		".First",
		".First->",
		".First->.Name",
		".First->.Next",
		".First->.Next->",
		".First->.Next->.Name",
		".First->.Next->.Next",
		".List",
		".List[0]",
		".List[0].Name",
		".List[0].Next",
	}, visiting)
	require.Len(t, visited, len(visiting))
	assert.Equal(t, ".Title", visited[0])
	assert.Equal(t, "", visited[len(visited)-1])
}

func TestVisitor_PathsResolve(t *testing.T) {
	root, _ := graph(t)

	v := visitor.Visitor{
		Visiting: func(n *quantum.Node, p nodepath.Path) {
			got, err := p.Resolve()
			require.NoError(t, err, p.String())
			assert.Same(t, n, got, p.String())
			assert.Same(t, n, p.Node())
		},
	}
	v.Visit(root)
}

func TestVisitor_SharedTargetVisitedOnce(t *testing.T) {
	root, r := graph(t)

	seen := map[*quantum.Node]int{}
	v := visitor.Visitor{Visiting: func(n *quantum.Node, _ nodepath.Path) { seen[n]++ }}
	v.Visit(root)

	a := root.Child("First").Target()
	require.NotNil(t, a)
	assert.Same(t, r.First, a.Content().Value())
	assert.Equal(t, 1, seen[a])
	for n, count := range seen {
		assert.Equal(t, 1, count, n.Name())
	}
}

func TestVisitor_Cycle(t *testing.T) {
	a := &Item{Name: "a"}
	a.Next = &Item{Name: "b", Next: a}
	c, err := quantum.NewContainer()
	require.NoError(t, err)
	root, err := c.GetOrCreateNode(a)
	require.NoError(t, err)

	count := 0
	v := visitor.Visitor{Visiting: func(*quantum.Node, nodepath.Path) { count++ }}
	v.Visit(root)
	assert.Equal(t, 6, count)
}

func TestVisitor_ShouldVisitPrunes(t *testing.T) {
	root, _ := graph(t)

	var names []string
	v := visitor.Visitor{
		ShouldVisit: func(n *quantum.Node, _ nodepath.Path) bool { return n.Name() != "First" },
		Visiting:    func(_ *quantum.Node, p nodepath.Path) { names = append(names, rel(root, p)) },
	}
	v.Visit(root)

	assert.Equal(t, []string{"", ".Title", ".List", ".List[0]", ".List[0].Name", ".List[0].Next", ".List[1]", ".List[1].Name", ".List[1].Next", ".List[1].Next->", ".List[1].Next->.Name", ".List[1].Next->.Next"}, names)
}

func TestVisitor_SkipRootNode(t *testing.T) {
	root, _ := graph(t)

	var first *quantum.Node
	v := visitor.Visitor{
		SkipRootNode: true,
		Visiting: func(n *quantum.Node, _ nodepath.Path) {
			if first == nil {
				first = n
			}
			assert.NotSame(t, root, n)
		},
	}
	v.Visit(root)
	assert.Same(t, root.Child("Title"), first)
}

func TestVisitor_NilRoot(t *testing.T) {
	called := false
	v := visitor.Visitor{Visiting: func(*quantum.Node, nodepath.Path) { called = true }}
	v.Visit(nil)
	assert.False(t, called)
}

func TestVisitor_VisitFrom(t *testing.T) {
	root, _ := graph(t)
	first := root.Child("First")
	start := nodepath.New(root).PushMember("First")

	var paths []string
	v := visitor.Visitor{Visiting: func(_ *quantum.Node, p nodepath.Path) { paths = append(paths, rel(root, p)) }}
	v.VisitFrom(first, start)

	require.NotEmpty(t, paths)
	assert.Equal(t, ".First", paths[0])
	assert.Equal(t, ".First->.Name", paths[2])
}
