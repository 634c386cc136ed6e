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

package nodepath

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"dirpx.dev/quantum"
)

// wireStep is the (kind, value) form of a Step. Integer positions and
// dictionary keys use distinct kinds so they survive a round trip.
type wireStep struct {
	Kind  string `yaml:"kind"`
	Value any    `yaml:"value,omitempty"`
}

const keyKind = "key"

// MarshalYAML encodes the step as a (kind, value) pair.
func (s Step) MarshalYAML() (any, error) {
	switch s.Kind {
	case Member:
		return wireStep{Kind: Member.String(), Value: s.Name}, nil
	case Target:
		return wireStep{Kind: Target.String()}, nil
	case Index:
		if s.Index.IsInt() {
			return wireStep{Kind: Index.String(), Value: s.Index.Int()}, nil
		}
		return wireStep{Kind: keyKind, Value: s.Index.Value()}, nil
	}
	return nil, fmt.Errorf("quantum(nodepath): cannot encode step kind %d", s.Kind)
}

// UnmarshalYAML decodes a (kind, value) pair.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var w wireStep
	if err := node.Decode(&w); err != nil {
		return err
	}
	switch w.Kind {
	case Member.String():
		name, ok := w.Value.(string)
		if !ok || name == "" {
			return fmt.Errorf("quantum(nodepath): member step needs a name, got %v", w.Value)
		}
		*s = Step{Kind: Member, Name: name}
	case Target.String():
		*s = Step{Kind: Target}
	case Index.String():
		i, ok := w.Value.(int)
		if !ok {
			return fmt.Errorf("quantum(nodepath): index step needs an integer, got %v", w.Value)
		}
		*s = Step{Kind: Index, Index: quantum.IntIndex(i)}
	case keyKind:
		switch w.Value.(type) {
		case string, int, float64, bool:
		default:
			return fmt.Errorf("quantum(nodepath): key step needs a scalar, got %v", w.Value)
		}
		*s = Step{Kind: Index, Index: quantum.KeyIndex(w.Value)}
	default:
		return fmt.Errorf("quantum(nodepath): unknown step kind %q", w.Kind)
	}
	return nil
}

// MarshalYAML encodes the steps of the path. The root is not encoded.
func (p Path) MarshalYAML() (any, error) {
	if p.steps == nil {
		return []Step{}, nil
	}
	return p.steps, nil
}

// Marshal encodes the steps of p as YAML.
func Marshal(p Path) ([]byte, error) {
	return yaml.Marshal(p)
}

// Unmarshal decodes steps encoded by Marshal into a path of root.
func Unmarshal(root *quantum.Node, data []byte) (Path, error) {
	var steps []Step
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return Path{}, err
	}
	return FromSteps(root, steps), nil
}
