package model

import (
	"time"

	"gorm.io/datatypes"

	"game-data-hub/internal/datatype"
)

// Table is a user-defined schema inside a project
type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"not null;index" json:"project_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Columns     []Column  `gorm:"foreignKey:TableID" json:"columns"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Table) TableName() string {
	return "tables"
}

// ColumnByName returns the column with the given name, if any.
func (t *Table) ColumnByName(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Column describes one typed field of a table. EnumValues and
// ReferenceTableID are only meaningful for their data type; Definition turns
// them into the payload-carrying datatype.Definition.
type Column struct {
	ID               uint                        `gorm:"primaryKey" json:"id"`
	TableID          uint                        `gorm:"not null;index" json:"table_id"`
	Name             string                      `gorm:"size:255;not null" json:"name"`
	DataType         datatype.DataType           `gorm:"size:20;not null" json:"data_type"`
	IsRequired       bool                        `gorm:"not null;default:false" json:"is_required"`
	DefaultValue     *string                     `gorm:"type:text" json:"default_value"`
	EnumValues       datatypes.JSONSlice[string] `json:"enum_values,omitempty"`
	ReferenceTableID *uint                       `gorm:"index" json:"reference_table_id,omitempty"`
	Order            int                         `gorm:"column:display_order;not null;default:0" json:"order"`
	CreatedAt        time.Time                   `json:"created_at"`
}

func (Column) TableName() string {
	return "columns"
}

// Definition builds the type-system definition for the column.
func (c Column) Definition() (datatype.Definition, error) {
	var refID uint
	if c.ReferenceTableID != nil {
		refID = *c.ReferenceTableID
	}
	return datatype.NewDefinition(c.DataType, c.EnumValues, refID)
}

// Constraint pairs the definition with the required flag.
func (c Column) Constraint() (datatype.Constraint, error) {
	def, err := c.Definition()
	if err != nil {
		return datatype.Constraint{}, err
	}
	return datatype.Constraint{Definition: def, Required: c.IsRequired}, nil
}
