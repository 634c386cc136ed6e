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

package visitor

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"dirpx.dev/quantum"
	"dirpx.dev/quantum/nodepath"
)

// PredicateEnv is the environment a predicate expression is evaluated in.
type PredicateEnv struct {
	// Name is the node name.
	Name string
	// Depth is the number of path steps from the walk root.
	Depth int
	// IsReference reports whether the node holds a reference.
	IsReference bool
	// IsPrimitive reports whether the node value is primitive.
	IsPrimitive bool
	// Type is the static type of the node value.
	Type string
	// Path is the path of the node.
	Path string
}

// ExprPredicate compiles src into a ShouldVisit predicate, for example
//
//	Depth < 3 && !(Name startsWith "internal")
//
// Evaluation errors skip the node.
func ExprPredicate(src string) (func(*quantum.Node, nodepath.Path) bool, error) {
	program, err := expr.Compile(src, expr.Env(PredicateEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("quantum(visitor): compiling %q: %w", src, err)
	}
	return func(n *quantum.Node, path nodepath.Path) bool {
		c := n.Content()
		env := PredicateEnv{
			Name:        n.Name(),
			Depth:       path.Len(),
			IsReference: c.IsReference(),
			IsPrimitive: c.IsPrimitive(),
			Type:        c.Type().String(),
			Path:        path.String(),
		}
		out, err := vm.Run(program, env)
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	}, nil
}
