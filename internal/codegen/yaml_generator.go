package codegen

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// YAMLGenerator emits the column list and rows as a YAML data table. Row keys
// follow column order.
type YAMLGenerator struct{}

func (YAMLGenerator) Name() string          { return "yaml" }
func (YAMLGenerator) FileExtension() string { return ".yaml" }
func (YAMLGenerator) MimeType() string      { return "application/yaml" }

func (YAMLGenerator) Generate(data TableData, schema Schema) (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}

	if err := addPair(doc, "table", titleOf(schema)); err != nil {
		return "", err
	}
	columns := schema.Columns
	if columns == nil {
		columns = []ColumnSchema{}
	}
	if err := addPair(doc, "columns", columns); err != nil {
		return "", err
	}

	rows := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range data.Rows {
		entry := &yaml.Node{Kind: yaml.MappingNode}
		if err := addPair(entry, "id", row.ID); err != nil {
			return "", err
		}
		for _, c := range schema.Columns {
			if err := addPair(entry, c.Name, normalize(row.Cells[c.Name])); err != nil {
				return "", err
			}
		}
		rows.Content = append(rows.Content, entry)
	}
	if len(rows.Content) == 0 {
		rows.Style = yaml.FlowStyle
	}
	doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: "rows"}, rows)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func addPair(mapping *yaml.Node, key string, value any) error {
	keyNode := &yaml.Node{}
	if err := keyNode.Encode(key); err != nil {
		return err
	}
	valueNode := &yaml.Node{}
	if err := valueNode.Encode(value); err != nil {
		return err
	}
	mapping.Content = append(mapping.Content, keyNode, valueNode)
	return nil
}
