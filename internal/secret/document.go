// Package secret models a Kubernetes Secret manifest as an ordered YAML
// document whose data values can be read and written as plain text.
//
// The document keeps the parsed node tree, so fields the editor does not
// interpret (metadata, type, stringData, key order) survive a load/render
// cycle unchanged.
package secret

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/vietdv277/kse/pkg/types"
)

const (
	// Kind is the only manifest kind accepted.
	Kind = "Secret"
	// APIVersionPrefix must prefix the manifest apiVersion.
	APIVersionPrefix = "v1"

	strTag   = "!!str"
	nullTag  = "!!null"
	mergeTag = "!!merge"
)

// Document is a validated Secret manifest.
type Document struct {
	doc  *yaml.Node // DocumentNode
	root *yaml.Node // MappingNode, doc.Content[0]
}

// Parse parses and validates a Secret manifest. Every data value must be
// valid base64; a single malformed value rejects the whole document.
//
// The returned document is canonical: comments, anchors and scalar styles
// are dropped, so it is identical to what ParseStructured returns for its
// own MarshalJSON output.
func Parse(text []byte) (*Document, error) {
	raw, err := decode(text)
	if err != nil {
		return nil, err
	}

	// Validation runs on the canonical form, after merge keys are applied.
	structured, err := raw.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return ParseStructured(structured)
}

// ParseStructured restores a document from its MarshalJSON form.
func ParseStructured(b []byte) (*Document, error) {
	d, err := decode(b)
	if err != nil {
		return nil, err
	}
	clearStyle(d.doc)
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func decode(text []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(text))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: document is empty", ErrParse)
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var next yaml.Node
	if err := dec.Decode(&next); err == nil {
		return nil, fmt.Errorf("%w: expected a single YAML document", ErrParse)
	} else if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: document is empty", ErrParse)
	}
	return &Document{doc: &doc, root: resolve(doc.Content[0])}, nil
}

func (d *Document) validate() error {
	if d.root.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: top level is not a mapping", ErrNotSecret)
	}

	kind := d.lookup("kind")
	if !isString(kind) || kind.Value != Kind {
		return fmt.Errorf("%w: kind must be %q", ErrNotSecret, Kind)
	}

	apiVersion := d.lookup("apiVersion")
	if !isString(apiVersion) || !strings.HasPrefix(apiVersion.Value, APIVersionPrefix) {
		return fmt.Errorf("%w: apiVersion must start with %q", ErrNotSecret, APIVersionPrefix)
	}

	data := d.data()
	if data == nil {
		return nil
	}
	if data.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: data must be a mapping", ErrNotSecret)
	}

	for i := 0; i+1 < len(data.Content); i += 2 {
		key, value := resolve(data.Content[i]), resolve(data.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("%w: data keys must be strings", ErrNotSecret)
		}
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("%w: data.%s must be a string", ErrNotSecret, key.Value)
		}
		if _, err := Decode(scalarText(value)); err != nil {
			return fmt.Errorf("%w: data.%s: %v", ErrMalformedBase64, key.Value, err)
		}
	}
	return nil
}

// Name returns metadata.name, or "" when unset.
func (d *Document) Name() string {
	return d.metadataString("name")
}

// Namespace returns metadata.namespace, or "" when unset.
func (d *Document) Namespace() string {
	return d.metadataString("namespace")
}

func (d *Document) metadataString(key string) string {
	meta := d.lookup("metadata")
	if meta == nil || meta.Kind != yaml.MappingNode {
		return ""
	}
	v := mappingValue(meta, key)
	if !isString(v) {
		return ""
	}
	return v.Value
}

// Keys returns the data keys in document order.
func (d *Document) Keys() []string {
	data := d.data()
	if data == nil || data.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(data.Content)/2)
	for i := 0; i+1 < len(data.Content); i += 2 {
		keys = append(keys, resolve(data.Content[i]).Value)
	}
	return keys
}

// Value returns the raw base64 value stored for key.
func (d *Document) Value(key string) (string, bool) {
	data := d.data()
	if data == nil || data.Kind != yaml.MappingNode {
		return "", false
	}
	v := mappingValue(data, key)
	if v == nil {
		return "", false
	}
	return scalarText(v), true
}

// Fields decodes every data entry in document order.
func (d *Document) Fields() []types.Field {
	keys := d.Keys()
	fields := make([]types.Field, 0, len(keys))
	for _, key := range keys {
		raw, _ := d.Value(key)
		b, err := Decode(raw)
		if err != nil {
			// rejected by validate; unreachable for parsed documents
			continue
		}
		f := types.Field{Key: key, Size: len(b)}
		if utf8.Valid(b) {
			f.Value = string(b)
		} else {
			f.Binary = true
		}
		fields = append(fields, f)
	}
	return fields
}

// Set replaces the value for key with the base64 encoding of text.
func (d *Document) Set(key, text string) error {
	data := d.data()
	if data == nil || data.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}

	for i := 0; i+1 < len(data.Content); i += 2 {
		if resolve(data.Content[i]).Value != key {
			continue
		}
		if _, isText, _ := DecodeText(scalarText(resolve(data.Content[i+1]))); !isText {
			return fmt.Errorf("%w: %s", ErrBinaryField, key)
		}
		data.Content[i+1] = &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   strTag,
			Value: Encode(text),
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, key)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	doc := cloneNode(d.doc, map[*yaml.Node]*yaml.Node{})
	return &Document{doc: doc, root: resolve(doc.Content[0])}
}

func (d *Document) lookup(key string) *yaml.Node {
	return mappingValue(d.root, key)
}

func (d *Document) data() *yaml.Node {
	data := d.lookup("data")
	if data == nil || (data.Kind == yaml.ScalarNode && data.ShortTag() == nullTag) {
		return nil
	}
	return data
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if resolve(m.Content[i]).Value == key {
			return resolve(m.Content[i+1])
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isString(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.ShortTag() == strTag
}

// scalarText returns the text of a data value; an empty (null) value is
// the empty string.
func scalarText(n *yaml.Node) string {
	if n.ShortTag() == nullTag {
		return ""
	}
	return n.Value
}

func cloneNode(n *yaml.Node, seen map[*yaml.Node]*yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	if c, ok := seen[n]; ok {
		return c
	}
	c := *n
	seen[n] = &c
	if n.Alias != nil {
		c.Alias = cloneNode(n.Alias, seen)
	}
	if n.Content != nil {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = cloneNode(child, seen)
		}
	}
	return &c
}
