package secret

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

const indent = 2

// Render serializes the document as YAML. Long scalars are never folded,
// and rendering an unchanged document always yields the same text.
func (d *Document) Render() (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(indent)
	if err := encoder.Encode(d.doc); err != nil {
		_ = encoder.Close()
		return "", fmt.Errorf("failed to render secret: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to render secret: %w", err)
	}
	return buf.String(), nil
}

// MarshalJSON encodes the document as a JSON object in document order.
// Merge keys are applied and aliases expanded.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, d.root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type entry struct {
	key   string
	value *yaml.Node
}

// entries lists the pairs of a mapping with merge keys applied. Explicit
// keys win over merged ones; earlier merge sources win over later ones.
func entries(m *yaml.Node) []entry {
	explicit := make(map[string]bool)
	for i := 0; i+1 < len(m.Content); i += 2 {
		if k := resolve(m.Content[i]); k.ShortTag() != mergeTag {
			explicit[k.Value] = true
		}
	}

	seen := make(map[string]bool)
	var out []entry
	add := func(key string, value *yaml.Node) {
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, entry{key: key, value: value})
	}

	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := resolve(m.Content[i]), resolve(m.Content[i+1])
		if k.ShortTag() != mergeTag {
			add(k.Value, v)
			continue
		}

		sources := []*yaml.Node{v}
		if v.Kind == yaml.SequenceNode {
			sources = sources[:0]
			for _, c := range v.Content {
				sources = append(sources, resolve(c))
			}
		}
		for _, src := range sources {
			if src.Kind != yaml.MappingNode {
				continue
			}
			for _, e := range entries(src) {
				if !explicit[e.key] {
					add(e.key, e.value)
				}
			}
		}
	}
	return out
}

func writeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	n = resolve(n)
	switch n.Kind {
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i, e := range entries(n) {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, e.key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, e.value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')

	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')

	case yaml.ScalarNode:
		return writeScalar(buf, n)

	default:
		return fmt.Errorf("unsupported YAML node kind %d", n.Kind)
	}
	return nil
}

func writeScalar(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.ShortTag() {
	case nullTag:
		buf.WriteString("null")
		return nil
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err == nil {
			b, _ := json.Marshal(v)
			buf.Write(b)
			return nil
		}
	case "!!int", "!!float":
		// Only numbers already in JSON form stay numbers. 0x1F, 0001 or
		// 1.50 would otherwise change text, which breaks base64 values.
		var v interface{}
		if err := n.Decode(&v); err == nil {
			if b, err := json.Marshal(v); err == nil && string(b) == n.Value {
				buf.Write(b)
				return nil
			}
		}
	}
	return writeString(buf, n.Value)
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// clearStyle resets presentation so a document decoded from JSON renders
// as block YAML.
func clearStyle(n *yaml.Node) {
	if n == nil {
		return
	}
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
