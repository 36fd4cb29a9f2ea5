package diff

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellsOnlyRecordsDifferences(t *testing.T) {
	before := map[uint]any{1: 10, 2: "a", 3: true}
	after := map[uint]any{1: 10.0, 2: "b", 4: 7}

	changes := Cells(before, after)

	assert.Len(t, changes, 3)
	assert.Equal(t, Change{OldValue: "a", NewValue: "b"}, changes["2"])
	assert.Equal(t, Change{OldValue: true, NewValue: nil}, changes["3"])
	assert.Equal(t, Change{OldValue: nil, NewValue: 7}, changes["4"])
	assert.NotContains(t, changes, "1")
}

func TestCompareIsSymmetric(t *testing.T) {
	a := map[string]any{"hp": 10, "name": "Slime", "boss": false, "drop": nil}
	b := map[string]any{"hp": 25, "name": "Slime", "boss": true, "tier": "Rare"}

	ab := Compare(a, b)
	ba := Compare(b, a)

	require.Equal(t, ab.Keys(), ba.Keys())
	for _, k := range ab.Keys() {
		assert.Equal(t, ab[k].OldValue, ba[k].NewValue, k)
		assert.Equal(t, ab[k].NewValue, ba[k].OldValue, k)
	}
}

func TestRowsKeyedByColumnName(t *testing.T) {
	changes := Rows(
		map[string]any{"hp": 10, "element": "Fire"},
		map[string]any{"hp": 20, "element": "Fire"},
	)
	assert.Equal(t, ChangeSet{"hp": {OldValue: 10, NewValue: 20}}, changes)
}

func TestFormatForDisplaySortsNumerically(t *testing.T) {
	changes := ChangeSet{
		"10": {OldValue: 1, NewValue: 2},
		"2":  {OldValue: "x", NewValue: "y"},
		"9":  {OldValue: 5, NewValue: 5.0},
	}

	formatted := FormatForDisplay(changes)

	require.Len(t, formatted, 3)
	assert.Equal(t, []string{"2", "9", "10"}, []string{formatted[0].CellID, formatted[1].CellID, formatted[2].CellID})
	assert.True(t, formatted[0].HasChange)
	assert.False(t, formatted[1].HasChange)
}

func TestChangeSetScanRoundTrip(t *testing.T) {
	original := ChangeSet{"5": {OldValue: 10, NewValue: 20}}
	stored, err := original.Value()
	require.NoError(t, err)

	var loaded ChangeSet
	require.NoError(t, loaded.Scan(stored))
	assert.Equal(t, json.Number("10"), loaded["5"].OldValue)
	assert.True(t, Equal(20, loaded["5"].NewValue))

	require.NoError(t, loaded.Scan(nil))
	assert.Empty(t, loaded)
}

func TestEqualKeepsLargeIntegersExact(t *testing.T) {
	before := map[uint]any{5: int64(9007199254740993), 6: json.Number("9007199254740993")}
	after := map[uint]any{5: int64(9007199254740992), 6: int64(9007199254740993)}

	changes := Cells(before, after)

	require.Len(t, changes, 1)
	assert.Equal(t, Change{OldValue: int64(9007199254740993), NewValue: int64(9007199254740992)}, changes["5"])
	assert.False(t, Equal(int64(math.MaxInt64), int64(math.MaxInt64-1)))
}

func TestEqualNumberSpellings(t *testing.T) {
	assert.True(t, Equal(json.Number("1e3"), 1000))
	assert.True(t, Equal(json.Number("2.50"), 2.5))
	assert.True(t, Equal(map[string]any{"a": []any{1, "x"}}, map[string]any{"a": []any{1.0, "x"}}))
	assert.False(t, Equal(map[string]any{"a": 1}, map[string]any{"a": 1, "b": nil}))
	assert.False(t, Equal("1", 1))
	assert.False(t, Equal(true, "true"))
}
