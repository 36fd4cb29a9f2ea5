// Package codegen renders a table schema and a data snapshot into external
// formats. Generators are stateless; a Registry dispatches to them by name.
package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"game-data-hub/internal/datatype"
	"game-data-hub/internal/utils"
)

// ColumnSchema is the generator-facing view of a column
type ColumnSchema struct {
	Name             string            `json:"name" yaml:"name"`
	DataType         datatype.DataType `json:"data_type" yaml:"data_type"`
	IsRequired       bool              `json:"is_required" yaml:"is_required"`
	DefaultValue     *string           `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	EnumValues       []string          `json:"enum_values,omitempty" yaml:"enum_values,omitempty"`
	ReferenceTableID *uint             `json:"reference_table_id,omitempty" yaml:"reference_table_id,omitempty"`
	Order            int               `json:"order" yaml:"order"`
}

// Schema is a table name with its columns in display order
type Schema struct {
	Name    string         `json:"name"`
	Columns []ColumnSchema `json:"columns"`
}

// Row is one data row with cell values keyed by column name
type Row struct {
	ID      uint           `json:"id"`
	TableID uint           `json:"table_id"`
	Cells   map[string]any `json:"cells"`
}

// TableData is the row snapshot handed to a generator
type TableData struct {
	Rows []Row `json:"rows"`
}

// Snapshot bundles a schema with its data, the input format of the CLI
type Snapshot struct {
	Schema Schema    `json:"schema"`
	Data   TableData `json:"data"`
}

// Generator renders one output format
type Generator interface {
	Name() string
	Generate(data TableData, schema Schema) (string, error)
	FileExtension() string
	MimeType() string
}

// Validate checks that every column has a name, a known type and the
// payload its type requires.
func (s Schema) Validate() error {
	for i, c := range s.Columns {
		if c.Name == "" {
			return utils.NewValidationError(fmt.Sprintf("Column %d has no name", i), "")
		}
		if _, err := c.Definition(); err != nil {
			return err
		}
	}
	return nil
}

// Definition builds the type-system definition for the column.
func (c ColumnSchema) Definition() (datatype.Definition, error) {
	t, err := datatype.ParseDataType(string(c.DataType))
	if err != nil {
		return nil, err
	}
	var refID uint
	if c.ReferenceTableID != nil {
		refID = *c.ReferenceTableID
	}
	return datatype.NewDefinition(t, c.EnumValues, refID)
}

// DecodeSnapshot reads a JSON snapshot, keeping numbers exact.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var snapshot Snapshot
	if err := dec.Decode(&snapshot); err != nil {
		return nil, utils.NewErrorBuilder(utils.ErrCodeInvalidJSON).
			WithDetails(err.Error()).
			WithCause(err).
			Build()
	}
	if err := snapshot.Schema.Validate(); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// normalize folds the numeric types a row may carry (json.Number from
// decoded input, Go ints from callers) into int64 or float64.
func normalize(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}

// marshalIndent renders v with two-space indentation and without HTML
// escaping.
func marshalIndent(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
