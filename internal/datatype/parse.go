package datatype

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"game-data-hub/internal/utils"
)

// Parse converts textual input into the canonical value for t. Empty input
// is an empty string for TypeString and null for every other type.
func Parse(raw string, t DataType) (Value, error) {
	if raw == "" && t != TypeString {
		return nil, nil
	}

	switch t {
	case TypeString:
		return TextValue(raw), nil
	case TypeEnum:
		return EnumValue(raw), nil
	case TypeInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, utils.NewValidationError(fmt.Sprintf("Invalid integer value: '%s'", raw), "")
		}
		return IntegerValue(n), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, utils.NewValidationError(fmt.Sprintf("Invalid float value: '%s'", raw), "")
		}
		return FloatValue(f), nil
	case TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1", "yes":
			return BooleanValue(true), nil
		default:
			return BooleanValue(false), nil
		}
	case TypeReference:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || n <= 0 {
			return nil, utils.NewValidationError(fmt.Sprintf("Invalid reference value: '%s'", raw), "references must be positive row ids")
		}
		return ReferenceValue(n), nil
	default:
		return nil, utils.NewValidationError("Invalid data type: "+string(t), "")
	}
}

// Coerce turns a decoded request value (string, number, bool, nil or an
// existing Value) into a Value for def. Strings go through Parse for the
// numeric and boolean types so defaults like "0" become numbers.
func Coerce(raw any, def Definition) (Value, error) {
	t := def.DataType()

	switch v := raw.(type) {
	case nil:
		return nil, nil
	case Value:
		return coerceValue(v, t)
	case string:
		switch t {
		case TypeString:
			return TextValue(v), nil
		case TypeEnum:
			return EnumValue(v), nil
		default:
			return Parse(v, t)
		}
	case bool:
		if t == TypeBoolean {
			return BooleanValue(v), nil
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return coerceInt(n, t)
		}
		f, err := v.Float64()
		if err != nil {
			return nil, mismatch(raw, t)
		}
		return coerceFloat(f, t)
	case float64:
		return coerceFloat(v, t)
	case float32:
		return coerceFloat(float64(v), t)
	case int:
		return coerceInt(int64(v), t)
	case int32:
		return coerceInt(int64(v), t)
	case int64:
		return coerceInt(v, t)
	case uint:
		return coerceInt(int64(v), t)
	case uint32:
		return coerceInt(int64(v), t)
	case uint64:
		if v <= math.MaxInt64 {
			return coerceInt(int64(v), t)
		}
	}
	return nil, mismatch(raw, t)
}

func coerceValue(v Value, t DataType) (Value, error) {
	if v.Type() == t {
		return v, nil
	}
	switch n := v.(type) {
	case IntegerValue:
		return coerceInt(int64(n), t)
	case ReferenceValue:
		return coerceInt(int64(n), t)
	case FloatValue:
		return coerceFloat(float64(n), t)
	case TextValue:
		if t == TypeEnum {
			return EnumValue(n), nil
		}
	case EnumValue:
		if t == TypeString {
			return TextValue(n), nil
		}
	}
	return nil, mismatch(v.Native(), t)
}

func coerceInt(n int64, t DataType) (Value, error) {
	switch t {
	case TypeInteger:
		return IntegerValue(n), nil
	case TypeFloat:
		return FloatValue(float64(n)), nil
	case TypeReference:
		if n > 0 {
			return ReferenceValue(n), nil
		}
	}
	return nil, mismatch(n, t)
}

func coerceFloat(f float64, t DataType) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, mismatch(f, t)
	}
	if t == TypeFloat {
		return FloatValue(f), nil
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return coerceInt(int64(f), t)
	}
	return nil, mismatch(f, t)
}

func mismatch(raw any, t DataType) error {
	return utils.NewValidationError(fmt.Sprintf("Value %v does not match data type %s", raw, t), "")
}

// Validate reports whether v is acceptable for c. Nil passes only for
// optional columns; a required-but-missing value is the caller's error to raise.
func Validate(v Value, c Constraint) bool {
	if v == nil {
		return !c.Required
	}

	switch def := c.Definition.(type) {
	case StringDef:
		_, ok := v.(TextValue)
		return ok
	case IntegerDef:
		_, ok := v.(IntegerValue)
		return ok
	case FloatDef:
		switch v.(type) {
		case FloatValue, IntegerValue:
			return true
		}
		return false
	case BooleanDef:
		_, ok := v.(BooleanValue)
		return ok
	case EnumDef:
		switch m := v.(type) {
		case EnumValue:
			return def.Contains(string(m))
		case TextValue:
			return def.Contains(string(m))
		}
		return false
	case ReferenceDef:
		switch r := v.(type) {
		case ReferenceValue:
			return r > 0
		case IntegerValue:
			return r > 0
		}
		return false
	default:
		return false
	}
}

// Encode renders v as a JSON scalar; nil encodes to nil bytes.
func Encode(v Value) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v.Native())
}

// Decode reads a stored JSON scalar back into a Value for def.
func Decode(raw []byte, def Definition) (Value, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, utils.NewValidationError("Stored value is not valid JSON", err.Error())
	}
	return Coerce(decoded, def)
}
