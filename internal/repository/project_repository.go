package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"game-data-hub/internal/model"
)

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&project)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, result.Error
	}
	return &project, nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]*model.Project, int64, error) {
	var projects []*model.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Project{}).Where("owner_id = ?", ownerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := query.Limit(limit).Offset(offset).Order("id ASC").Find(&projects)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return projects, total, nil
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tableIDs := tx.Model(&model.Table{}).Select("id").Where("project_id = ?", id)
		if err := deleteTableContents(tx, tableIDs); err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Version{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Table{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Project{}).Error
	})
}

// deleteTableContents removes cells, rows and columns of the tables selected
// by tableIDs (a subquery or a slice of ids).
func deleteTableContents(tx *gorm.DB, tableIDs interface{}) error {
	rowIDs := tx.Model(&model.Row{}).Select("id").Where("table_id IN (?)", tableIDs)
	if err := tx.Where("row_id IN (?)", rowIDs).Delete(&model.Cell{}).Error; err != nil {
		return err
	}
	if err := tx.Where("table_id IN (?)", tableIDs).Delete(&model.Row{}).Error; err != nil {
		return err
	}
	return tx.Where("table_id IN (?)", tableIDs).Delete(&model.Column{}).Error
}
