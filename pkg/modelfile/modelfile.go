// Package modelfile loads template models from YAML or JSON documents.
//
// Mappings keep their document order: a mapping whose keys are all strings
// becomes a *sequencedmap.Map[string, any], any other mapping a
// *sequencedmap.Map[any, any] keyed by the decoded scalar (int, float64, bool,
// nil or string). Sequences become []any and scalars their natural Go type.
package modelfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/speakeasy-api/openapi/sequencedmap"
	"gopkg.in/yaml.v3"
)

// maxAliasDepth bounds alias chains so self-referencing documents fail instead of recursing forever.
const maxAliasDepth = 64

// LoadFile reads the model stored at path.
func LoadFile(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer f.Close()

	model, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return model, nil
}

// Load decodes the first document in r. The document root must be a mapping;
// an empty document yields an empty model.
func Load(r io.Reader) (map[string]any, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return map[string]any{}, nil
		}
		root = root.Content[0]
	}
	root, depth, err := deref(root, 0)
	if err != nil {
		return nil, err
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("model root must be a mapping, got %s at line %d", kindName(root.Kind), root.Line)
	}

	model := make(map[string]any, len(root.Content)/2)
	err = eachPair(root, depth, func(k, v *yaml.Node) error {
		if _, exists := model[k.Value]; exists {
			return nil
		}
		value, err := convert(v, depth)
		if err != nil {
			return err
		}
		model[k.Value] = value
		return nil
	})
	if err != nil {
		return nil, err
	}
	return model, nil
}

func convert(n *yaml.Node, depth int) (any, error) {
	n, depth, err := deref(n, depth)
	if err != nil {
		return nil, err
	}

	switch n.Kind {
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := convert(item, depth)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case yaml.MappingNode:
		if stringKeys(n, depth) {
			m := sequencedmap.New[string, any]()
			err := eachPair(n, depth, func(k, v *yaml.Node) error {
				if _, exists := m.Get(k.Value); exists {
					return nil
				}
				value, err := convert(v, depth)
				if err != nil {
					return err
				}
				m.Set(k.Value, value)
				return nil
			})
			return m, err
		}

		m := sequencedmap.New[any, any]()
		err := eachPair(n, depth, func(k, v *yaml.Node) error {
			key, err := convert(k, depth)
			if err != nil {
				return err
			}
			if !isComparableKey(key) {
				return fmt.Errorf("line %d: unsupported %s mapping key", k.Line, kindName(k.Kind))
			}
			if _, exists := m.Get(key); exists {
				return nil
			}
			value, err := convert(v, depth)
			if err != nil {
				return err
			}
			m.Set(key, value)
			return nil
		})
		return m, err
	}
	return nil, fmt.Errorf("line %d: unsupported %s node", n.Line, kindName(n.Kind))
}

// eachPair calls fn for every key/value pair of mapping n, expanding merge
// keys ("<<") in place. Explicit keys are visited before merged ones, so
// callers keeping the first occurrence let explicit keys win.
func eachPair(n *yaml.Node, depth int, fn func(k, v *yaml.Node) error) error {
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.Tag == "!!merge" {
			merges = append(merges, v)
			continue
		}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	for _, m := range merges {
		m, mdepth, err := deref(m, depth)
		if err != nil {
			return err
		}
		sources := []*yaml.Node{m}
		if m.Kind == yaml.SequenceNode {
			sources = m.Content
		}
		for _, src := range sources {
			src, sdepth, err := deref(src, mdepth)
			if err != nil {
				return err
			}
			if src.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: merge value must be a mapping", src.Line)
			}
			if err := eachPair(src, sdepth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func stringKeys(n *yaml.Node, depth int) bool {
	ok := true
	_ = eachPair(n, depth, func(k, _ *yaml.Node) error {
		if k.Kind != yaml.ScalarNode || k.Tag != "!!str" {
			ok = false
		}
		return nil
	})
	return ok
}

// deref follows alias nodes. depth counts aliases followed on the current
// path and is returned increased by the number of hops taken.
func deref(n *yaml.Node, depth int) (*yaml.Node, int, error) {
	for n.Kind == yaml.AliasNode {
		depth++
		if depth > maxAliasDepth || n.Alias == nil {
			return nil, depth, fmt.Errorf("line %d: alias %q cannot be resolved", n.Line, n.Value)
		}
		n = n.Alias
	}
	return n, depth, nil
}

func isComparableKey(k any) bool {
	switch k.(type) {
	case []any, *sequencedmap.Map[string, any], *sequencedmap.Map[any, any]:
		return false
	}
	return true
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}
