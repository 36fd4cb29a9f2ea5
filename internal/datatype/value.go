package datatype

// Value is a sealed union of the cell values the type system understands.
// A nil Value stands for SQL NULL / JSON null.
type Value interface {
	// Type reports the tag this value was produced for.
	Type() DataType
	// Native returns the plain Go representation (string, int64, float64 or bool).
	Native() any
	isValue()
}

// TextValue holds a string column value.
type TextValue string

func (TextValue) Type() DataType { return TypeString }
func (v TextValue) Native() any  { return string(v) }
func (TextValue) isValue()       {}

// IntegerValue holds a whole number.
type IntegerValue int64

func (IntegerValue) Type() DataType { return TypeInteger }
func (v IntegerValue) Native() any  { return int64(v) }
func (IntegerValue) isValue()       {}

// FloatValue holds any finite number.
type FloatValue float64

func (FloatValue) Type() DataType { return TypeFloat }
func (v FloatValue) Native() any  { return float64(v) }
func (FloatValue) isValue()       {}

// BooleanValue holds true or false.
type BooleanValue bool

func (BooleanValue) Type() DataType { return TypeBoolean }
func (v BooleanValue) Native() any  { return bool(v) }
func (BooleanValue) isValue()       {}

// EnumValue holds the name of an enumeration member. Membership is checked by
// Validate against the owning column's definition.
type EnumValue string

func (EnumValue) Type() DataType { return TypeEnum }
func (v EnumValue) Native() any  { return string(v) }
func (EnumValue) isValue()       {}

// ReferenceValue holds the row identity of a referenced table's row.
type ReferenceValue int64

func (ReferenceValue) Type() DataType { return TypeReference }
func (v ReferenceValue) Native() any  { return int64(v) }
func (ReferenceValue) isValue()       {}

// NativeOf unwraps v, mapping nil to nil.
func NativeOf(v Value) any {
	if v == nil {
		return nil
	}
	return v.Native()
}
