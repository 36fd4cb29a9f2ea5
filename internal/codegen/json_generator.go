package codegen

import (
	"bytes"
	"encoding/json"

	"game-data-hub/internal/datatype"
)

const jsonSchemaDraft = "http://json-schema.org/draft-07/schema#"

// JSONGenerator emits a JSON Schema (draft-07) describing the rows together
// with the rows themselves under "data".
type JSONGenerator struct{}

func (JSONGenerator) Name() string          { return "json" }
func (JSONGenerator) FileExtension() string { return ".json" }
func (JSONGenerator) MimeType() string      { return "application/json" }

type jsonSchemaDocument struct {
	Schema string         `json:"$schema"`
	Title  string         `json:"title"`
	Type   string         `json:"type"`
	Items  jsonSchemaItem `json:"items"`
	Data   []Row          `json:"data"`
}

type jsonSchemaItem struct {
	Type       string             `json:"type"`
	Properties jsonSchemaProperty `json:"properties"`
	Required   []string           `json:"required"`
}

type jsonSchemaField struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// jsonSchemaProperty marshals as an object whose keys follow column order.
type jsonSchemaProperty []ColumnSchema

func (p jsonSchemaProperty) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(jsonSchemaField{
			Type:        JSONSchemaType(c.DataType),
			Description: "Column: " + c.Name,
		})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (JSONGenerator) Generate(data TableData, schema Schema) (string, error) {
	required := make([]string, 0, len(schema.Columns))
	for _, c := range schema.Columns {
		if c.IsRequired {
			required = append(required, c.Name)
		}
	}

	rows := data.Rows
	if rows == nil {
		rows = []Row{}
	}

	return marshalIndent(jsonSchemaDocument{
		Schema: jsonSchemaDraft,
		Title:  titleOf(schema),
		Type:   "array",
		Items: jsonSchemaItem{
			Type:       "object",
			Properties: jsonSchemaProperty(schema.Columns),
			Required:   required,
		},
		Data: rows,
	})
}

// JSONSchemaType maps a data type onto the JSON Schema vocabulary.
func JSONSchemaType(t datatype.DataType) string {
	switch t {
	case datatype.TypeInteger, datatype.TypeReference:
		return "integer"
	case datatype.TypeFloat:
		return "number"
	case datatype.TypeBoolean:
		return "boolean"
	default:
		return "string"
	}
}

func titleOf(schema Schema) string {
	if schema.Name == "" {
		return "Table"
	}
	return schema.Name
}
