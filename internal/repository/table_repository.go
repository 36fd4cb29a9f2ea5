package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"game-data-hub/internal/model"
)

type tableRepository struct {
	db *gorm.DB
}

// NewTableRepository creates a new instance of TableRepository
func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func orderedColumns(db *gorm.DB) *gorm.DB {
	return db.Order("display_order ASC, id ASC")
}

func (r *tableRepository) Create(ctx context.Context, table *model.Table) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *tableRepository) GetByID(ctx context.Context, id uint) (*model.Table, error) {
	var table model.Table
	result := r.db.WithContext(ctx).
		Preload("Columns", orderedColumns).
		Where("id = ?", id).
		First(&table)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, result.Error
	}
	return &table, nil
}

func (r *tableRepository) ListByProject(ctx context.Context, projectID uint) ([]*model.Table, error) {
	var tables []*model.Table
	result := r.db.WithContext(ctx).
		Preload("Columns", orderedColumns).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&tables)
	if result.Error != nil {
		return nil, result.Error
	}
	return tables, nil
}

func (r *tableRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteTableContents(tx, []uint{id}); err != nil {
			return err
		}
		if err := tx.Model(&model.Version{}).Where("table_id = ?", id).Update("table_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Table{}).Error
	})
}

type columnRepository struct {
	db *gorm.DB
}

// NewColumnRepository creates a new instance of ColumnRepository
func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &columnRepository{db: db}
}

func (r *columnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Create(column).Error
}

func (r *columnRepository) GetByID(ctx context.Context, id uint) (*model.Column, error) {
	var column model.Column
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&column)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, result.Error
	}
	return &column, nil
}

func (r *columnRepository) ListByTable(ctx context.Context, tableID uint) ([]*model.Column, error) {
	var columns []*model.Column
	result := r.db.WithContext(ctx).Where("table_id = ?", tableID).Order("display_order ASC, id ASC").Find(&columns)
	if result.Error != nil {
		return nil, result.Error
	}
	return columns, nil
}

func (r *columnRepository) ExistsByName(ctx context.Context, tableID uint, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Column{}).
		Where("table_id = ? AND name = ?", tableID, name).
		Count(&count).Error
	return count > 0, err
}

func (r *columnRepository) MaxOrder(ctx context.Context, tableID uint) (int, bool, error) {
	var result struct {
		MaxOrder *int
	}
	err := r.db.WithContext(ctx).Model(&model.Column{}).
		Select("MAX(display_order) AS max_order").
		Where("table_id = ?", tableID).
		Scan(&result).Error
	if err != nil {
		return 0, false, err
	}
	if result.MaxOrder == nil {
		return 0, false, nil
	}
	return *result.MaxOrder, true, nil
}

func (r *columnRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("column_id = ?", id).Delete(&model.Cell{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Column{}).Error
	})
}
