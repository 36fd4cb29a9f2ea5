package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"game-data-hub/internal/model"
)

type dataRepository struct {
	db *gorm.DB
}

// NewDataRepository creates a new instance of DataRepository
func NewDataRepository(db *gorm.DB) DataRepository {
	return &dataRepository{db: db}
}

// CreateRow inserts the row alone; cells are attached afterwards with the
// assigned row id.
func (r *dataRepository) CreateRow(ctx context.Context, row *model.Row) error {
	return r.db.WithContext(ctx).Omit("Cells").Create(row).Error
}

func (r *dataRepository) GetRowByID(ctx context.Context, id uint) (*model.Row, error) {
	var row model.Row
	result := r.db.WithContext(ctx).
		Preload("Cells", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("id = ?", id).
		First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRowNotFound
		}
		return nil, result.Error
	}
	return &row, nil
}

func (r *dataRepository) GetRowsByTable(ctx context.Context, tableID uint, skip, limit int) ([]*model.Row, error) {
	var rows []*model.Row
	result := r.db.WithContext(ctx).
		Preload("Cells", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("table_id = ?", tableID).
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (r *dataRepository) CountRowsByTable(ctx context.Context, tableID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Row{}).Where("table_id = ?", tableID).Count(&count).Error
	return count, err
}

func (r *dataRepository) DeleteRow(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("row_id = ?", id).Delete(&model.Cell{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Row{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (r *dataRepository) CreateCells(ctx context.Context, cells []*model.Cell) error {
	if len(cells) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&cells).Error
}

func (r *dataRepository) GetCellByID(ctx context.Context, id uint) (*model.Cell, error) {
	var cell model.Cell
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&cell)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCellNotFound
		}
		return nil, result.Error
	}
	return &cell, nil
}

func (r *dataRepository) UpdateCellValue(ctx context.Context, cell *model.Cell) error {
	cell.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&model.Cell{}).
		Where("id = ?", cell.ID).
		Updates(map[string]interface{}{
			"value":      cell.Value,
			"updated_at": cell.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCellNotFound
	}
	return nil
}
