// Package diff computes and stores cell-level change maps.
package diff

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math/big"
	"sort"
	"strconv"
)

// Change is the before/after pair recorded for one key.
type Change struct {
	OldValue any `json:"old_value"`
	NewValue any `json:"new_value"`
}

// ChangeSet maps a key (a cell id as text for commits, a column name for row
// diffs) to its change.
type ChangeSet map[string]Change

// Value implements driver.Valuer interface for GORM
func (c ChangeSet) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM
func (c *ChangeSet) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*c = ChangeSet{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("cannot scan change set")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	out := ChangeSet{}
	if err := dec.Decode(&out); err != nil {
		return err
	}
	*c = out
	return nil
}

// Keys returns the change keys, numeric keys first in numeric order.
func (c ChangeSet) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// Compare walks the union of keys and records an entry wherever the two sides
// differ. A key missing on one side compares as null.
func Compare(before, after map[string]any) ChangeSet {
	changes := ChangeSet{}
	for k, old := range before {
		next := after[k]
		if !Equal(old, next) {
			changes[k] = Change{OldValue: old, NewValue: next}
		}
	}
	for k, next := range after {
		if _, seen := before[k]; seen {
			continue
		}
		if !Equal(nil, next) {
			changes[k] = Change{OldValue: nil, NewValue: next}
		}
	}
	return changes
}

// Cells diffs two cell-id keyed snapshots.
func Cells(before, after map[uint]any) ChangeSet {
	return Compare(keyByID(before), keyByID(after))
}

// Rows diffs two column-name keyed cell maps of the same row.
func Rows(before, after map[string]any) ChangeSet {
	return Compare(before, after)
}

// Equal compares by JSON value, so 10 and 10.0 match and map ordering is
// irrelevant. Numbers compare exactly, without a float64 round trip.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	da, errA := decodeJSON(a)
	db, errB := decodeJSON(b)
	if errA != nil || errB != nil {
		return false
	}
	return equalJSON(da, db)
}

// DisplayChange is one row of a rendered diff.
type DisplayChange struct {
	CellID    string `json:"cell_id"`
	OldValue  any    `json:"old_value"`
	NewValue  any    `json:"new_value"`
	HasChange bool   `json:"has_change"`
}

// FormatForDisplay flattens a change set into a sorted list.
func FormatForDisplay(changes ChangeSet) []DisplayChange {
	formatted := make([]DisplayChange, 0, len(changes))
	for _, k := range changes.Keys() {
		change := changes[k]
		formatted = append(formatted, DisplayChange{
			CellID:    k,
			OldValue:  change.OldValue,
			NewValue:  change.NewValue,
			HasChange: !Equal(change.OldValue, change.NewValue),
		})
	}
	return formatted
}

func keyByID(values map[uint]any) map[string]any {
	out := make(map[string]any, len(values))
	for id, v := range values {
		out[strconv.FormatUint(uint64(id), 10)] = v
	}
	return out
}

// decodeJSON re-reads the encoding of v with numbers kept as json.Number.
func decodeJSON(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func equalJSON(a, b any) bool {
	switch av := a.(type) {
	case json.Number:
		bv, ok := b.(json.Number)
		return ok && equalNumber(av, bv)
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, x := range av {
			y, seen := bv[k]
			if !seen || !equalJSON(x, y) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalJSON(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func equalNumber(a, b json.Number) bool {
	if a == b {
		return true
	}
	ra, okA := new(big.Rat).SetString(a.String())
	rb, okB := new(big.Rat).SetString(b.String())
	return okA && okB && ra.Cmp(rb) == 0
}

func sortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseUint(keys[i], 10, 64)
		b, errB := strconv.ParseUint(keys[j], 10, 64)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
}
