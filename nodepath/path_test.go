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

package nodepath_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"dirpx.dev/quantum"
	"dirpx.dev/quantum/nodepath"
)

type Item struct {
	Name string
	Next *Item
}

type Root struct {
	Title string
	First *Item
	List  []*Item
	ByKey map[string]*Item
}

func newRoot() *Root {
	a := &Item{Name: "a", Next: &Item{Name: "b"}}
	return &Root{
		Title: "r",
		First: a,
		List:  []*Item{{Name: "c"}, a},
		ByKey: map[string]*Item{"k": {Name: "d"}},
	}
}

func build(t *testing.T, v any) *quantum.Node {
	t.Helper()
	c, err := quantum.NewContainer()
	require.NoError(t, err)
	n, err := c.GetOrCreateNode(v)
	require.NoError(t, err)
	return n
}

func TestPath_Push(t *testing.T) {
	root := build(t, newRoot())

	p := nodepath.New(root)
	assert.True(t, p.IsEmpty())
	assert.Same(t, root, p.Node())

	p = p.PushMember("First").PushTarget().PushMember("Next").PushTarget().PushMember("Name")
	assert.Equal(t, 5, p.Len())
	assert.Equal(t, root.Name()+".First->.Next->.Name", p.String())
	require.NotNil(t, p.Node())
	assert.Equal(t, "b", p.Node().Content().Value())

	n, err := p.Resolve()
	require.NoError(t, err)
	assert.Same(t, p.Node(), n)
}

func TestPath_PushIndex(t *testing.T) {
	root := build(t, newRoot())
	list := nodepath.New(root).PushMember("List")

	p, err := list.PushIndex(quantum.IntIndex(1))
	require.NoError(t, err)
	assert.Same(t, root.Child("First").Target(), p.Node())

	_, err = list.PushIndex(quantum.EmptyIndex)
	assert.ErrorIs(t, err, quantum.ErrEmptyIndex)

	_, err = nodepath.New(root).PushMember("Title").PushIndex(quantum.IntIndex(0))
	var ce *quantum.ConsistencyError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, quantum.ErrConsistency)
	assert.Equal(t, "Title", ce.Node)

	_, err = nodepath.New(root).PushMember("Missing").PushIndex(quantum.IntIndex(0))
	assert.ErrorIs(t, err, nodepath.ErrUnresolved)

	_, err = list.PushIndex(quantum.KeyIndex("oops"))
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "List", ce.Node)

	_, err = nodepath.New(root).PushMember("ByKey").PushIndex(quantum.IntIndex(0))
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "ByKey", ce.Node)

	absent, err := list.PushIndex(quantum.IntIndex(7))
	require.NoError(t, err, "a missing item of the right kind can be addressed")
	assert.Nil(t, absent.Node())

	missing, err := nodepath.New(root).PushMember("ByKey").PushIndex(quantum.KeyIndex("nope"))
	require.NoError(t, err)
	assert.Nil(t, missing.Node())

	k, err := nodepath.New(root).PushMember("ByKey").PushIndex(quantum.KeyIndex("k"))
	require.NoError(t, err)
	require.NotNil(t, k.Node())
	assert.Equal(t, "d", k.Node().Child("Name").Content().Value())
}

func TestPath_Immutable(t *testing.T) {
	root := build(t, newRoot())
	base := nodepath.New(root).PushMember("First")

	a := base.PushTarget()
	b := base.PushMember("Other")
	assert.Equal(t, 1, base.Len())
	assert.Equal(t, nodepath.Target, a.Steps()[1].Kind)
	assert.Equal(t, "Other", b.Steps()[1].Name)

	steps := a.Steps()
	steps[0].Name = "changed"
	assert.Equal(t, "First", a.Steps()[0].Name)
}

func TestPath_ParentCloneEqual(t *testing.T) {
	root := build(t, newRoot())
	p := nodepath.New(root).PushMember("First").PushTarget().PushMember("Name")

	parent := p.Parent()
	assert.True(t, parent.Equal(nodepath.New(root).PushMember("First").PushTarget()))
	assert.Same(t, root.Child("First").Target(), parent.Node())
	assert.True(t, nodepath.New(root).Parent().IsEmpty())

	clone := p.Clone()
	assert.True(t, clone.Equal(p))
	assert.False(t, clone.Equal(parent))
	assert.False(t, p.Equal(p.WithRoot(build(t, newRoot()))), "different roots")
}

func TestPath_ResolveOnRebuiltGraph(t *testing.T) {
	first := build(t, newRoot())
	p, err := nodepath.New(first).PushMember("List").PushIndex(quantum.IntIndex(1))
	require.NoError(t, err)
	p = p.PushMember("Next").PushTarget().PushMember("Name")

	second := build(t, newRoot())
	n, err := p.ResolveFrom(second)
	require.NoError(t, err)
	assert.Equal(t, "b", n.Content().Value())
	assert.NotSame(t, p.Node(), n)

	moved := p.WithRoot(second)
	assert.Same(t, n, moved.Node())
	assert.Same(t, second, moved.Root())
}

func TestPath_ResolveFollowsMutation(t *testing.T) {
	r := newRoot()
	root := build(t, r)
	p := nodepath.New(root).PushMember("First").PushTarget().PushMember("Name")

	require.NoError(t, root.Child("First").Content().Update(&Item{Name: "z"}, quantum.EmptyIndex))
	n, err := p.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "z", n.Content().Value())
	assert.Equal(t, "a", p.Node().Content().Value(), "Node is not re-resolved")

	require.NoError(t, root.Child("First").Content().Update((*Item)(nil), quantum.EmptyIndex))
	_, err = p.Resolve()
	assert.ErrorIs(t, err, nodepath.ErrUnresolved)
}

func TestPath_ResolveErrors(t *testing.T) {
	root := build(t, newRoot())

	_, err := nodepath.New(root).Resolve()
	assert.NoError(t, err)

	_, err = nodepath.New(nil).Resolve()
	assert.ErrorIs(t, err, quantum.ErrNilNode)

	bad := nodepath.FromSteps(root, []nodepath.Step{
		{Kind: nodepath.Member, Name: "Title"},
		{Kind: nodepath.Index, Index: quantum.IntIndex(0)},
	})
	assert.Nil(t, bad.Node())
	_, err = bad.Resolve()
	assert.ErrorIs(t, err, nodepath.ErrUnresolved)

	out := nodepath.FromSteps(root, []nodepath.Step{
		{Kind: nodepath.Member, Name: "List"},
		{Kind: nodepath.Index, Index: quantum.IntIndex(9)},
	})
	_, err = out.Resolve()
	assert.ErrorIs(t, err, quantum.ErrInvalidIndex)
}

func TestPath_YAMLRoundTrip(t *testing.T) {
	root := build(t, newRoot())
	list, err := nodepath.New(root).PushMember("List").PushIndex(quantum.IntIndex(0))
	require.NoError(t, err)
	byKey, err := nodepath.New(root).PushMember("ByKey").PushIndex(quantum.KeyIndex("k"))
	require.NoError(t, err)

	for _, p := range []nodepath.Path{
		nodepath.New(root),
		nodepath.New(root).PushMember("First").PushTarget().PushMember("Name"),
		list.PushMember("Name"),
		byKey.PushMember("Name"),
	} {
		t.Run(p.String(), func(t *testing.T) {
			data, err := nodepath.Marshal(p)
			require.NoError(t, err)

			got, err := nodepath.Unmarshal(root, data)
			require.NoError(t, err)
			assert.True(t, got.Equal(p), "decoded %s from\n%s", got, data)
			if diff := cmp.Diff(p.String(), got.String()); diff != "" {
				t.Errorf("path mismatch (-want +got):\n%s", diff)
			}
			assert.Same(t, p.Node(), got.Node())
		})
	}
}

func TestPath_YAMLFormat(t *testing.T) {
	root := build(t, newRoot())
	p, err := nodepath.New(root).PushMember("List").PushIndex(quantum.IntIndex(1))
	require.NoError(t, err)

	data, err := nodepath.Marshal(p.PushTarget())
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	want := []map[string]any{
		{"kind": "member", "value": "List"},
		{"kind": "index", "value": 1},
		{"kind": "target"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("yaml mismatch (-want +got):\n%s", diff)
	}
}

func TestPath_YAMLErrors(t *testing.T) {
	root := build(t, newRoot())
	for _, src := range []string{
		"- kind: member\n",
		"- kind: index\n  value: x\n",
		"- kind: key\n  value: [1, 2]\n",
		"- kind: bogus\n",
		"kind: member\n",
	} {
		_, err := nodepath.Unmarshal(root, []byte(src))
		assert.Error(t, err, src)
	}
}
