package datatype

import (
	"slices"

	"game-data-hub/internal/utils"
)

// Definition is the type half of a column definition. Each data type has its
// own case; enum and reference carry their payload so a definition that
// exists is always structurally complete.
type Definition interface {
	DataType() DataType
	isDefinition()
}

type StringDef struct{}

func (StringDef) DataType() DataType { return TypeString }
func (StringDef) isDefinition()      {}

type IntegerDef struct{}

func (IntegerDef) DataType() DataType { return TypeInteger }
func (IntegerDef) isDefinition()      {}

type FloatDef struct{}

func (FloatDef) DataType() DataType { return TypeFloat }
func (FloatDef) isDefinition()      {}

type BooleanDef struct{}

func (BooleanDef) DataType() DataType { return TypeBoolean }
func (BooleanDef) isDefinition()      {}

// EnumDef lists the members an enum column accepts. Build it with NewEnumDef.
type EnumDef struct {
	values []string
}

// NewEnumDef fails when no members are given.
func NewEnumDef(values ...string) (EnumDef, error) {
	if len(values) == 0 {
		return EnumDef{}, utils.NewValidationError("Enum type requires enum_values", "")
	}
	return EnumDef{values: slices.Clone(values)}, nil
}

func (EnumDef) DataType() DataType { return TypeEnum }
func (EnumDef) isDefinition()      {}

// Values returns a copy of the member list in declaration order.
func (d EnumDef) Values() []string {
	return slices.Clone(d.values)
}

// Contains reports whether name is a member.
func (d EnumDef) Contains(name string) bool {
	return slices.Contains(d.values, name)
}

// ReferenceDef points at the table whose rows a reference column targets.
// Build it with NewReferenceDef.
type ReferenceDef struct {
	tableID uint
}

// NewReferenceDef fails when tableID is zero.
func NewReferenceDef(tableID uint) (ReferenceDef, error) {
	if tableID == 0 {
		return ReferenceDef{}, utils.NewValidationError("Reference type requires reference_table_id", "")
	}
	return ReferenceDef{tableID: tableID}, nil
}

func (ReferenceDef) DataType() DataType { return TypeReference }
func (ReferenceDef) isDefinition()      {}

// TableID returns the referenced table's identity.
func (d ReferenceDef) TableID() uint {
	return d.tableID
}

// NewDefinition builds the definition case for t. enumValues is only read for
// TypeEnum and referenceTableID only for TypeReference.
func NewDefinition(t DataType, enumValues []string, referenceTableID uint) (Definition, error) {
	switch t {
	case TypeString:
		return StringDef{}, nil
	case TypeInteger:
		return IntegerDef{}, nil
	case TypeFloat:
		return FloatDef{}, nil
	case TypeBoolean:
		return BooleanDef{}, nil
	case TypeEnum:
		return NewEnumDef(enumValues...)
	case TypeReference:
		return NewReferenceDef(referenceTableID)
	default:
		return nil, utils.NewValidationError("Invalid data type: "+string(t), "")
	}
}

// Constraint is a complete column definition as far as value checks go.
type Constraint struct {
	Definition Definition
	Required   bool
}
