package repository

import (
	"context"

	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a Store backed by db
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository       { return NewUserRepository(s.db) }
func (s *gormStore) Projects() ProjectRepository { return NewProjectRepository(s.db) }
func (s *gormStore) Tables() TableRepository     { return NewTableRepository(s.db) }
func (s *gormStore) Columns() ColumnRepository   { return NewColumnRepository(s.db) }
func (s *gormStore) Data() DataRepository        { return NewDataRepository(s.db) }
func (s *gormStore) Versions() VersionRepository { return NewVersionRepository(s.db) }

func (s *gormStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
