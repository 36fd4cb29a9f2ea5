package model

import (
	"time"

	"game-data-hub/internal/diff"
)

// Version is an immutable commit of cell-level changes. Changes is keyed by
// cell id as text.
type Version struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProjectID uint           `gorm:"not null;index" json:"project_id"`
	TableID   *uint          `gorm:"index" json:"table_id"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Changes   diff.ChangeSet `gorm:"type:json;not null" json:"changes"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (Version) TableName() string {
	return "versions"
}
