package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"game-data-hub/internal/cache"
	"game-data-hub/internal/datatype"
	"game-data-hub/internal/model"
	"game-data-hub/internal/repository"
	"game-data-hub/internal/utils"
)

type TableService interface {
	CreateTable(ctx context.Context, req *CreateTableRequest) (*model.Table, error)
	GetTable(ctx context.Context, id uint) (*model.Table, error)
	ListTables(ctx context.Context, projectID uint) ([]*model.Table, error)
	DeleteTable(ctx context.Context, id uint) error

	CreateColumn(ctx context.Context, tableID uint, req *CreateColumnRequest) (*model.Column, error)
	ListColumns(ctx context.Context, tableID uint) ([]*model.Column, error)
	DeleteColumn(ctx context.Context, id uint) error
}

type tableService struct {
	store   repository.Store
	schemas *cache.SchemaCache
	log     logrus.FieldLogger
}

type CreateTableRequest struct {
	ProjectID   uint   `json:"project_id" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=10000"`
}

// CreateColumnRequest describes a new column. EnumValues is read only for
// enum columns and ReferenceTableID only for reference columns.
type CreateColumnRequest struct {
	Name             string   `json:"name" validate:"required,min=1,max=255"`
	DataType         string   `json:"data_type" validate:"required"`
	IsRequired       bool     `json:"is_required"`
	DefaultValue     *string  `json:"default_value,omitempty"`
	EnumValues       []string `json:"enum_values,omitempty" validate:"omitempty,dive,required"`
	ReferenceTableID *uint    `json:"reference_table_id,omitempty"`
	Order            *int     `json:"order,omitempty"`
}

// NewTableService creates a new instance of TableService
func NewTableService(store repository.Store, schemas *cache.SchemaCache, log logrus.FieldLogger) TableService {
	if schemas == nil {
		schemas = cache.NewSchemaCache(0)
	}
	return &tableService{
		store:   store,
		schemas: schemas,
		log:     log,
	}
}

func (s *tableService) CreateTable(ctx context.Context, req *CreateTableRequest) (*model.Table, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, utils.NewValidationError("Table name cannot be empty", "")
	}
	if _, err := s.store.Projects().GetByID(ctx, req.ProjectID); err != nil {
		return nil, translateError(err, req.ProjectID, "failed to get project")
	}

	table := &model.Table{
		ProjectID:   req.ProjectID,
		Name:        name,
		Description: req.Description,
		Columns:     []model.Column{},
	}
	if err := s.store.Tables().Create(ctx, table); err != nil {
		return nil, translateError(err, 0, "failed to create table")
	}
	return table, nil
}

// GetTable returns the table with its ordered columns, served from the
// schema cache when possible
func (s *tableService) GetTable(ctx context.Context, id uint) (*model.Table, error) {
	return loadSchema(ctx, s.store, s.schemas, id)
}

func (s *tableService) ListTables(ctx context.Context, projectID uint) ([]*model.Table, error) {
	if _, err := s.store.Projects().GetByID(ctx, projectID); err != nil {
		return nil, translateError(err, projectID, "failed to get project")
	}
	tables, err := s.store.Tables().ListByProject(ctx, projectID)
	if err != nil {
		return nil, translateError(err, projectID, "failed to list tables")
	}
	return tables, nil
}

func (s *tableService) DeleteTable(ctx context.Context, id uint) error {
	if _, err := s.store.Tables().GetByID(ctx, id); err != nil {
		return translateError(err, id, "failed to get table")
	}
	if err := s.store.Tables().Delete(ctx, id); err != nil {
		return translateError(err, id, "failed to delete table")
	}

	s.schemas.Invalidate(id)
	s.log.WithField("table_id", id).Info("table deleted")
	return nil
}

func (s *tableService) CreateColumn(ctx context.Context, tableID uint, req *CreateColumnRequest) (*model.Column, error) {
	if _, err := s.store.Tables().GetByID(ctx, tableID); err != nil {
		return nil, translateError(err, tableID, "failed to get table")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, utils.NewValidationError("Column name cannot be empty", "")
	}

	dataType, err := datatype.ParseDataType(req.DataType)
	if err != nil {
		return nil, err
	}

	var refID uint
	if req.ReferenceTableID != nil {
		refID = *req.ReferenceTableID
	}
	def, err := datatype.NewDefinition(dataType, req.EnumValues, refID)
	if err != nil {
		return nil, err
	}

	column := &model.Column{
		TableID:    tableID,
		Name:       name,
		DataType:   dataType,
		IsRequired: req.IsRequired,
	}

	switch d := def.(type) {
	case datatype.EnumDef:
		column.EnumValues = d.Values()
	case datatype.ReferenceDef:
		target := d.TableID()
		if _, err := s.store.Tables().GetByID(ctx, target); err != nil {
			return nil, translateError(err, target, "failed to get reference table")
		}
		column.ReferenceTableID = &target
	}

	exists, err := s.store.Columns().ExistsByName(ctx, tableID, name)
	if err != nil {
		return nil, translateError(err, tableID, "failed to check column name")
	}
	if exists {
		return nil, utils.NewValidationError(fmt.Sprintf("Column '%s' already exists", name), "")
	}

	if req.DefaultValue != nil {
		if err := validateDefault(*req.DefaultValue, def); err != nil {
			return nil, err
		}
		defaultValue := *req.DefaultValue
		column.DefaultValue = &defaultValue
	}

	if req.Order != nil {
		column.Order = *req.Order
	} else {
		highest, found, err := s.store.Columns().MaxOrder(ctx, tableID)
		if err != nil {
			return nil, translateError(err, tableID, "failed to read column order")
		}
		column.Order = 1
		if found {
			column.Order = highest + 1
		}
	}

	if err := s.store.Columns().Create(ctx, column); err != nil {
		return nil, translateError(err, tableID, "failed to create column")
	}

	s.schemas.Invalidate(tableID)
	return column, nil
}

func (s *tableService) ListColumns(ctx context.Context, tableID uint) ([]*model.Column, error) {
	if _, err := s.store.Tables().GetByID(ctx, tableID); err != nil {
		return nil, translateError(err, tableID, "failed to get table")
	}
	columns, err := s.store.Columns().ListByTable(ctx, tableID)
	if err != nil {
		return nil, translateError(err, tableID, "failed to list columns")
	}
	return columns, nil
}

func (s *tableService) DeleteColumn(ctx context.Context, id uint) error {
	column, err := s.store.Columns().GetByID(ctx, id)
	if err != nil {
		return translateError(err, id, "failed to get column")
	}
	if err := s.store.Columns().Delete(ctx, id); err != nil {
		return translateError(err, id, "failed to delete column")
	}

	s.schemas.Invalidate(column.TableID)
	return nil
}

// validateDefault checks that a default parses to an acceptable value for def.
// An empty default stands for null except on string columns, where it is "".
func validateDefault(raw string, def datatype.Definition) error {
	value, err := datatype.Parse(raw, def.DataType())
	if err != nil {
		return utils.NewValidationError(fmt.Sprintf("Invalid default value: '%s'", raw), err.Error())
	}
	if !datatype.Validate(value, datatype.Constraint{Definition: def}) {
		return utils.NewValidationError(
			fmt.Sprintf("Invalid default value: '%s'", raw),
			fmt.Sprintf("not a valid %s value", def.DataType()),
		)
	}
	return nil
}

// loadSchema reads a table through the schema cache
func loadSchema(ctx context.Context, store repository.Store, schemas *cache.SchemaCache, id uint) (*model.Table, error) {
	load := func(ctx context.Context, tableID uint) (*model.Table, error) {
		table, err := store.Tables().GetByID(ctx, tableID)
		if err != nil {
			return nil, translateError(err, tableID, "failed to get table")
		}
		return table, nil
	}
	if schemas == nil {
		return load(ctx, id)
	}
	return schemas.Refresh(ctx, id, load)
}
