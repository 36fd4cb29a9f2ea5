package model

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"game-data-hub/internal/datatype"
)

// Row is one record of a table; its values live in Cells
type Row struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TableID   uint      `gorm:"not null;index" json:"table_id"`
	Cells     []Cell    `gorm:"foreignKey:RowID" json:"cells,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Row) TableName() string {
	return "rows"
}

// Cell holds a single value as a JSON scalar. A NULL or "null" value is null.
type Cell struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RowID     uint      `gorm:"not null;index;uniqueIndex:idx_cell_row_column" json:"row_id"`
	ColumnID  uint      `gorm:"not null;index;uniqueIndex:idx_cell_row_column" json:"column_id"`
	Value     CellValue `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Cell) TableName() string {
	return "cells"
}

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool {
	return len(c.Value) == 0 || string(c.Value) == "null"
}

// Typed decodes the stored value against def.
func (c Cell) Typed(def datatype.Definition) (datatype.Value, error) {
	if c.IsNull() {
		return nil, nil
	}
	return datatype.Decode(c.Value, def)
}

// Raw decodes the stored value without a type, numbers as json.Number.
func (c Cell) Raw() (any, error) {
	if c.IsNull() {
		return nil, nil
	}
	return DecodeScalar(c.Value)
}

// SetTyped stores v, nil clearing the cell.
func (c *Cell) SetTyped(v datatype.Value) error {
	raw, err := datatype.Encode(v)
	if err != nil {
		return err
	}
	c.Value = CellValue(raw)
	return nil
}

// SetRaw stores an untyped value as-is.
func (c *Cell) SetRaw(v any) error {
	raw, err := EncodeScalar(v)
	if err != nil {
		return err
	}
	c.Value = CellValue(raw)
	return nil
}

// CellValue is a JSON scalar column. It stores like datatypes.JSON, but SQLite
// gives a JSON column numeric affinity and hands numbers and booleans back as
// native values, so Scan re-encodes those.
type CellValue datatypes.JSON

func (v CellValue) Value() (driver.Value, error) {
	return datatypes.JSON(v).Value()
}

func (v *CellValue) Scan(src interface{}) error {
	switch native := src.(type) {
	case int64, float64, bool:
		raw, err := json.Marshal(native)
		if err != nil {
			return err
		}
		*v = CellValue(raw)
		return nil
	case []byte, string, nil:
		var j datatypes.JSON
		if err := j.Scan(src); err != nil {
			return err
		}
		*v = CellValue(j)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into a cell value", src)
	}
}

func (v CellValue) MarshalJSON() ([]byte, error) {
	return datatypes.JSON(v).MarshalJSON()
}

func (v *CellValue) UnmarshalJSON(b []byte) error {
	var j datatypes.JSON
	if err := j.UnmarshalJSON(b); err != nil {
		return err
	}
	*v = CellValue(j)
	return nil
}

func (v CellValue) String() string {
	return string(v)
}

func (CellValue) GormDataType() string {
	return datatypes.JSON{}.GormDataType()
}

func (CellValue) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return datatypes.JSON{}.GormDBDataType(db, field)
}

func (v CellValue) GormValue(ctx context.Context, db *gorm.DB) clause.Expr {
	return datatypes.JSON(v).GormValue(ctx, db)
}
