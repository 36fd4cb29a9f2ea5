package codegen

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/linkedin/goavro/v2"

	"game-data-hub/internal/datatype"
	"game-data-hub/internal/utils"
)

const avroNamespace = "gamedatahub"

// AvroGenerator emits an Avro record schema for the table. The schema is
// compiled with goavro and every row is encoded against it, so a document is
// only returned when the data conforms.
type AvroGenerator struct{}

func (AvroGenerator) Name() string          { return "avro" }
func (AvroGenerator) FileExtension() string { return ".avsc" }
func (AvroGenerator) MimeType() string      { return "application/json" }

type avroField struct {
	column ColumnSchema
	name   string
	// union is the branch name for optional fields, empty when required
	union   string
	symbols map[string]string
}

func (AvroGenerator) Generate(data TableData, schema Schema) (string, error) {
	recordName := pascalIdentifier(schema.Name, "Table")
	names := uniqueNames{}
	typeNames := uniqueNames{recordName: 1}

	fieldSchemas := make([]map[string]any, 0, len(schema.Columns)+1)
	fields := make([]avroField, 0, len(schema.Columns))

	fieldSchemas = append(fieldSchemas, map[string]any{"name": names.claim("id"), "type": "long"})

	for _, c := range schema.Columns {
		f := avroField{column: c, name: names.claim(snakeIdentifier(c.Name))}

		var typ any
		branch := avroPrimitive(c.DataType)
		typ = branch
		if c.DataType == datatype.TypeEnum {
			enumName := typeNames.claim(recordName + pascalIdentifier(c.Name, "Value"))
			symbols := make([]string, 0, len(c.EnumValues))
			f.symbols = make(map[string]string, len(c.EnumValues))
			taken := uniqueNames{}
			for _, v := range c.EnumValues {
				sym := taken.claim(snakeIdentifier(v))
				symbols = append(symbols, sym)
				f.symbols[v] = sym
			}
			typ = map[string]any{"type": "enum", "name": enumName, "symbols": symbols}
			branch = avroNamespace + "." + enumName
		}

		fieldSchema := map[string]any{"name": f.name, "doc": "Column: " + c.Name}
		if c.IsRequired {
			fieldSchema["type"] = typ
		} else {
			fieldSchema["type"] = []any{"null", typ}
			fieldSchema["default"] = nil
			f.union = branch
		}
		fieldSchemas = append(fieldSchemas, fieldSchema)
		fields = append(fields, f)
	}

	record := map[string]any{
		"type":      "record",
		"name":      recordName,
		"namespace": avroNamespace,
		"doc":       "Table: " + titleOf(schema),
		"fields":    fieldSchemas,
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	codec, err := goavro.NewCodec(string(encoded))
	if err != nil {
		return "", fmt.Errorf("invalid avro schema: %w", err)
	}

	for _, row := range data.Rows {
		native, err := avroNative(row, fields)
		if err != nil {
			return "", err
		}
		if _, err := codec.BinaryFromNative(nil, native); err != nil {
			return "", utils.NewValidationError(
				fmt.Sprintf("Row %d does not conform to the avro schema", row.ID), err.Error())
		}
	}

	return marshalIndent(record)
}

func avroPrimitive(t datatype.DataType) string {
	switch t {
	case datatype.TypeInteger, datatype.TypeReference:
		return "long"
	case datatype.TypeFloat:
		return "double"
	case datatype.TypeBoolean:
		return "boolean"
	default:
		return "string"
	}
}

func avroNative(row Row, fields []avroField) (map[string]any, error) {
	native := map[string]any{"id": int64(row.ID)}
	for _, f := range fields {
		raw := normalize(row.Cells[f.column.Name])
		v, err := avroValue(raw, f)
		if err != nil {
			return nil, utils.NewValidationError(
				fmt.Sprintf("Row %d column '%s': %v", row.ID, f.column.Name, err), "")
		}
		if f.union != "" && v != nil {
			native[f.name] = goavro.Union(f.union, v)
		} else {
			native[f.name] = v
		}
	}
	return native, nil
}

func avroValue(raw any, f avroField) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch f.column.DataType {
	case datatype.TypeInteger, datatype.TypeReference:
		switch n := raw.(type) {
		case int64:
			return n, nil
		case float64:
			if n == math.Trunc(n) {
				return int64(n), nil
			}
		}
		return nil, fmt.Errorf("expected a whole number, got %v", raw)
	case datatype.TypeFloat:
		switch n := raw.(type) {
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		}
		return nil, fmt.Errorf("expected a number, got %v", raw)
	case datatype.TypeBoolean:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("expected a boolean, got %v", raw)
	case datatype.TypeEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected an enum member, got %v", raw)
		}
		sym, ok := f.symbols[s]
		if !ok {
			return nil, fmt.Errorf("'%s' is not an enum member", s)
		}
		return sym, nil
	default:
		if s, ok := raw.(string); ok {
			return s, nil
		}
		return fmt.Sprint(raw), nil
	}
}
