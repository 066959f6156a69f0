package dashboard

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/zwdscn-cloud/JFreports/pkg/errors"
)

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Element) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.New(errors.ErrCodeInvalidElement, "element must be a mapping (line %d)", node.Line)
	}
	var m map[string]any
	if err := node.Decode(&m); err != nil {
		return err
	}
	return e.fromMap(m)
}

// DecodeYAML reads a document written in YAML. It applies the same
// "elements must be a list" rule as [Decode].
func DecodeYAML(r io.Reader) (Document, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return Document{}, invalidFormat(err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return Document{}, invalidFormat(nil)
	}
	top := root.Content[0]
	found := false
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value == "elements" {
			if top.Content[i+1].Kind != yaml.SequenceNode {
				return Document{}, invalidFormat(nil)
			}
			found = true
		}
	}
	if !found {
		return Document{}, invalidFormat(nil)
	}

	var doc Document
	if err := top.Decode(&doc); err != nil {
		return Document{}, invalidFormat(err)
	}
	if doc.Elements == nil {
		doc.Elements = []Element{}
	}
	return doc, nil
}

// EncodeYAML writes d as YAML.
func EncodeYAML(w io.Writer, d Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}
