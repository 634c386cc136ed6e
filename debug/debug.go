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

// Package debug renders node graphs for humans.
package debug

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"dirpx.dev/quantum"
	"dirpx.dev/quantum/nodepath"
	"dirpx.dev/quantum/visitor"
)

type options struct {
	color    *bool
	maxDepth int
	guids    bool
}

// Option configures Fprint.
type Option func(*options)

// WithColor forces colored output on or off. By default output is colored
// when the writer is a terminal.
func WithColor(on bool) Option {
	return func(o *options) { o.color = &on }
}

// WithMaxDepth stops the dump below depth path steps. Zero means no limit.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithGuids prints the Guid of every node.
func WithGuids() Option {
	return func(o *options) { o.guids = true }
}

type palette struct {
	name, value, ref, meta *color.Color
}

func newPalette(on bool) palette {
	p := palette{
		name:  color.New(color.FgCyan),
		value: color.New(color.FgGreen),
		ref:   color.New(color.FgMagenta),
		meta:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.name, p.value, p.ref, p.meta} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Fprint writes the graph reachable from root to w as an indented tree. A
// node reachable through several references is printed once.
func Fprint(w io.Writer, root *quantum.Node, opts ...Option) error {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	on := isTerminal(w)
	if o.color != nil {
		on = *o.color
	}
	p := newPalette(on)

	var b strings.Builder
	v := visitor.Visitor{
		ShouldVisit: func(_ *quantum.Node, path nodepath.Path) bool {
			return o.maxDepth <= 0 || path.Len() <= o.maxDepth
		},
		Visiting: func(n *quantum.Node, path nodepath.Path) {
			line(&b, p, o, n, path)
		},
	}
	v.Visit(root)
	_, err := io.WriteString(w, b.String())
	return err
}

// Sprint returns the uncolored dump of root.
func Sprint(root *quantum.Node, opts ...Option) string {
	var b strings.Builder
	_ = Fprint(&b, root, append(opts, WithColor(false))...)
	return b.String()
}

func line(b *strings.Builder, p palette, o options, n *quantum.Node, path nodepath.Path) {
	b.WriteString(strings.Repeat("  ", path.Len()))
	if path.IsEmpty() {
		b.WriteString(p.name.Sprint(n.Name()))
	} else {
		steps := path.Steps()
		b.WriteString(p.name.Sprint(steps[len(steps)-1].String()))
	}

	c := n.Content()
	switch r := c.Reference().(type) {
	case *quantum.ObjectReference:
		if t := r.TargetNode(); t != nil {
			b.WriteString(p.ref.Sprintf(" -> %s", t.Name()))
		} else {
			b.WriteString(p.ref.Sprint(" -> nil"))
		}
	case *quantum.ReferenceEnumerable:
		b.WriteString(p.ref.Sprintf(" [%d]", r.Len()))
	default:
		if c.IsPrimitive() {
			b.WriteString(" = ")
			b.WriteString(p.value.Sprintf("%#v", c.Value()))
		}
	}
	if t := c.Type(); t != nil && !path.IsEmpty() {
		b.WriteString(p.meta.Sprintf(" (%s)", t))
	}
	if o.guids {
		b.WriteString(p.meta.Sprintf(" %s", n.Guid()))
	}
	b.WriteByte('\n')
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
