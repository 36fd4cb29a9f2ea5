package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"game-data-hub/internal/model"
)

type versionRepository struct {
	db *gorm.DB
}

// NewVersionRepository creates a new instance of VersionRepository
func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) Create(ctx context.Context, version *model.Version) error {
	return r.db.WithContext(ctx).Create(version).Error
}

func (r *versionRepository) GetByID(ctx context.Context, id uint) (*model.Version, error) {
	var version model.Version
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&version)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, result.Error
	}
	return &version, nil
}

func (r *versionRepository) ListByProject(ctx context.Context, projectID uint, limit, offset int) ([]*model.Version, int64, error) {
	return r.list(r.db.WithContext(ctx).Model(&model.Version{}).Where("project_id = ?", projectID), limit, offset)
}

func (r *versionRepository) ListByTable(ctx context.Context, tableID uint, limit, offset int) ([]*model.Version, int64, error) {
	return r.list(r.db.WithContext(ctx).Model(&model.Version{}).Where("table_id = ?", tableID), limit, offset)
}

func (r *versionRepository) list(query *gorm.DB, limit, offset int) ([]*model.Version, int64, error) {
	var versions []*model.Version
	var total int64

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := query.Session(&gorm.Session{}).Limit(limit).Offset(offset).Order("created_at DESC, id DESC").Find(&versions)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return versions, total, nil
}

func (r *versionRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Version{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
