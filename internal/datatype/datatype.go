// Package datatype is the column type system: the closed set of data types a
// column may declare, the tagged value union cells carry, and the parsing and
// validation rules that tie the two together. It performs no I/O.
package datatype

import (
	"fmt"
	"strings"

	"game-data-hub/internal/utils"
)

// DataType is the tag of a column's declared type.
type DataType string

const (
	TypeString    DataType = "string"
	TypeInteger   DataType = "integer"
	TypeFloat     DataType = "float"
	TypeBoolean   DataType = "boolean"
	TypeEnum      DataType = "enum"
	TypeReference DataType = "reference"
)

// All returns every supported data type in declaration order.
func All() []DataType {
	return []DataType{TypeString, TypeInteger, TypeFloat, TypeBoolean, TypeEnum, TypeReference}
}

// IsValid reports whether t is one of the supported tags.
func (t DataType) IsValid() bool {
	switch t {
	case TypeString, TypeInteger, TypeFloat, TypeBoolean, TypeEnum, TypeReference:
		return true
	default:
		return false
	}
}

func (t DataType) String() string {
	return string(t)
}

// ParseDataType resolves a tag name case-insensitively.
func ParseDataType(name string) (DataType, error) {
	t := DataType(strings.ToLower(strings.TrimSpace(name)))
	if !t.IsValid() {
		return "", utils.NewValidationError(fmt.Sprintf("Invalid data type: %s", name), "")
	}
	return t, nil
}
