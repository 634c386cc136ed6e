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

import "dirpx.dev/quantum/apis"

// Command is an operation attached to the nodes it applies to.
type Command interface {
	// Name identifies the command on a node.
	Name() string
	// CanAttach reports whether the command applies to a node of the given
	// descriptor. member is nil for root nodes.
	CanAttach(d apis.Descriptor, member apis.MemberDescriptor) bool
	// Invoke runs the command on n.
	Invoke(n *Node, param any) (any, error)
}

// NewCommand returns a Command built from functions. A nil canAttach
// attaches everywhere.
func NewCommand(name string, canAttach func(apis.Descriptor, apis.MemberDescriptor) bool, invoke func(*Node, any) (any, error)) Command {
	return &funcCommand{name: name, canAttach: canAttach, invoke: invoke}
}

type funcCommand struct {
	name      string
	canAttach func(apis.Descriptor, apis.MemberDescriptor) bool
	invoke    func(*Node, any) (any, error)
}

func (c *funcCommand) Name() string { return c.name }

func (c *funcCommand) CanAttach(d apis.Descriptor, m apis.MemberDescriptor) bool {
	return c.canAttach == nil || c.canAttach(d, m)
}

func (c *funcCommand) Invoke(n *Node, param any) (any, error) {
	if c.invoke == nil {
		return nil, ErrUnsupported
	}
	return c.invoke(n, param)
}
