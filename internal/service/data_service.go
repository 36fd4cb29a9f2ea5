package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"game-data-hub/internal/cache"
	"game-data-hub/internal/datatype"
	"game-data-hub/internal/diff"
	"game-data-hub/internal/metrics"
	"game-data-hub/internal/model"
	"game-data-hub/internal/repository"
	"game-data-hub/internal/utils"
)

type DataService interface {
	GetTableData(ctx context.Context, tableID uint, req *ListRowsRequest) (*TableDataResponse, error)
	CreateRow(ctx context.Context, req *CreateRowRequest) (*RowResponse, error)
	UpdateRow(ctx context.Context, rowID, userID uint, req *UpdateRowRequest) (*UpdateRowResponse, error)
	UpdateCell(ctx context.Context, req *UpdateCellRequest) (*CellResponse, error)
	DeleteRow(ctx context.Context, rowID uint) (bool, error)
}

type dataService struct {
	store   repository.Store
	schemas *cache.SchemaCache
	log     logrus.FieldLogger
}

type ListRowsRequest struct {
	Skip  int `form:"skip" validate:"omitempty,min=0"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=1000"`
}

type CreateRowRequest struct {
	TableID uint           `json:"table_id" validate:"required"`
	Cells   map[string]any `json:"cells"`
}

// UpdateRowRequest names the columns to overwrite. A non-empty CommitMessage
// records the resulting cell changes as a table version.
type UpdateRowRequest struct {
	Cells         map[string]any `json:"cells" validate:"required"`
	CommitMessage string         `json:"commit_message,omitempty" validate:"max=10000"`
}

type UpdateCellRequest struct {
	CellID uint `json:"cell_id" validate:"required"`
	Value  any  `json:"value"`
}

// RowResponse exposes a row keyed by column name, with the cell id of each
// value so clients can address single cells and commits
type RowResponse struct {
	ID        uint            `json:"id"`
	TableID   uint            `json:"table_id"`
	Cells     map[string]any  `json:"cells"`
	CellIDs   map[string]uint `json:"cell_ids"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type TableDataResponse struct {
	TableID uint           `json:"table_id"`
	Rows    []*RowResponse `json:"rows"`
	Total   int64          `json:"total"`
	Skip    int            `json:"skip"`
	Limit   int            `json:"limit"`
}

type UpdateRowResponse struct {
	Row     *RowResponse   `json:"row"`
	Version *model.Version `json:"version,omitempty"`
}

type CellResponse struct {
	CellID    uint      `json:"cell_id"`
	Value     any       `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDataService creates a new instance of DataService
func NewDataService(store repository.Store, schemas *cache.SchemaCache, log logrus.FieldLogger) DataService {
	return &dataService{
		store:   store,
		schemas: schemas,
		log:     log,
	}
}

func (s *dataService) GetTableData(ctx context.Context, tableID uint, req *ListRowsRequest) (*TableDataResponse, error) {
	table, err := loadSchema(ctx, s.store, s.schemas, tableID)
	if err != nil {
		return nil, err
	}

	skip := clampOffset(req.Skip)
	limit := clampLimit(req.Limit, defaultRowLimit, maxRowLimit)

	rows, err := s.store.Data().GetRowsByTable(ctx, tableID, skip, limit)
	if err != nil {
		return nil, translateError(err, tableID, "failed to load rows")
	}
	total, err := s.store.Data().CountRowsByTable(ctx, tableID)
	if err != nil {
		return nil, translateError(err, tableID, "failed to count rows")
	}

	out := make([]*RowResponse, 0, len(rows))
	for _, row := range rows {
		resp, err := newRowResponse(row, table)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}

	return &TableDataResponse{
		TableID: tableID,
		Rows:    out,
		Total:   total,
		Skip:    skip,
		Limit:   limit,
	}, nil
}

// CreateRow resolves a value for every column (supplied, else default, else
// null) and stores the row with one cell per column. Names that match no
// column are dropped.
func (s *dataService) CreateRow(ctx context.Context, req *CreateRowRequest) (*RowResponse, error) {
	table, err := loadSchema(ctx, s.store, s.schemas, req.TableID)
	if err != nil {
		return nil, err
	}
	s.warnUnknownColumns(table, req.Cells, "create")

	values := make([]datatype.Value, len(table.Columns))
	for i, column := range table.Columns {
		value, err := resolveCreateValue(column, req.Cells)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}

	var created *model.Row
	err = s.store.WithTransaction(ctx, func(tx repository.Store) error {
		row := &model.Row{TableID: table.ID}
		if err := tx.Data().CreateRow(ctx, row); err != nil {
			return err
		}

		cells := make([]*model.Cell, 0, len(table.Columns))
		for i, column := range table.Columns {
			cell := &model.Cell{RowID: row.ID, ColumnID: column.ID}
			if err := cell.SetTyped(values[i]); err != nil {
				return err
			}
			cells = append(cells, cell)
		}
		if len(cells) > 0 {
			if err := tx.Data().CreateCells(ctx, cells); err != nil {
				return err
			}
		}

		created, err = tx.Data().GetRowByID(ctx, row.ID)
		return err
	})
	if err != nil {
		return nil, translateError(err, req.TableID, "failed to create row")
	}

	return newRowResponse(created, table)
}

// UpdateRow overwrites only the named columns, creating missing cells. When
// a commit message is given, the changed cells are committed in the same
// transaction.
func (s *dataService) UpdateRow(ctx context.Context, rowID, userID uint, req *UpdateRowRequest) (*UpdateRowResponse, error) {
	row, err := s.store.Data().GetRowByID(ctx, rowID)
	if err != nil {
		return nil, translateError(err, rowID, "failed to get row")
	}
	table, err := loadSchema(ctx, s.store, s.schemas, row.TableID)
	if err != nil {
		return nil, err
	}
	s.warnUnknownColumns(table, req.Cells, "update")

	existing := make(map[uint]model.Cell, len(row.Cells))
	for _, cell := range row.Cells {
		existing[cell.ColumnID] = cell
	}

	type pendingWrite struct {
		column model.Column
		value  datatype.Value
	}
	var writes []pendingWrite
	for _, column := range table.Columns {
		raw, named := req.Cells[column.Name]
		if !named {
			continue
		}
		value, err := resolveValue(column, raw)
		if err != nil {
			return nil, err
		}
		if column.IsRequired && value == nil {
			return nil, requiredError(column)
		}
		writes = append(writes, pendingWrite{column: column, value: value})
	}

	resp := &UpdateRowResponse{}
	var updated *model.Row
	err = s.store.WithTransaction(ctx, func(tx repository.Store) error {
		before := make(map[uint]any, len(writes))
		after := make(map[uint]any, len(writes))

		for _, w := range writes {
			cell, found := existing[w.column.ID]
			if found {
				old, err := cell.Raw()
				if err != nil {
					return err
				}
				before[cell.ID] = old
			} else {
				cell = model.Cell{RowID: row.ID, ColumnID: w.column.ID}
			}
			if err := cell.SetTyped(w.value); err != nil {
				return err
			}

			if found {
				if err := tx.Data().UpdateCellValue(ctx, &cell); err != nil {
					return err
				}
			} else if err := tx.Data().CreateCells(ctx, []*model.Cell{&cell}); err != nil {
				return err
			}
			after[cell.ID] = datatype.NativeOf(w.value)
		}

		changes := diff.Cells(before, after)
		if req.CommitMessage != "" && len(changes) > 0 {
			tableID := table.ID
			version := &model.Version{
				ProjectID: table.ProjectID,
				TableID:   &tableID,
				Message:   req.CommitMessage,
				AuthorID:  userID,
				Changes:   changes,
			}
			if err := tx.Versions().Create(ctx, version); err != nil {
				return err
			}
			resp.Version = version
		}

		var err error
		updated, err = tx.Data().GetRowByID(ctx, row.ID)
		return err
	})
	if err != nil {
		return nil, translateError(err, rowID, "failed to update row")
	}

	if resp.Version != nil {
		metrics.RecordCommit("table")
		s.log.WithFields(logrus.Fields{
			"row_id":     rowID,
			"version_id": resp.Version.ID,
			"changes":    len(resp.Version.Changes),
		}).Info("row update committed")
	}

	resp.Row, err = newRowResponse(updated, table)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateCell overwrites one cell without checking it against the column type
func (s *dataService) UpdateCell(ctx context.Context, req *UpdateCellRequest) (*CellResponse, error) {
	cell, err := s.store.Data().GetCellByID(ctx, req.CellID)
	if err != nil {
		return nil, translateError(err, req.CellID, "failed to get cell")
	}
	if !isScalar(req.Value) {
		return nil, utils.NewValidationError("Invalid cell value type", "cell values must be a string, number, boolean or null")
	}

	if err := cell.SetRaw(req.Value); err != nil {
		return nil, utils.NewValidationError("Invalid cell value type", err.Error())
	}
	if err := s.store.Data().UpdateCellValue(ctx, cell); err != nil {
		return nil, translateError(err, req.CellID, "failed to update cell")
	}

	value, err := cell.Raw()
	if err != nil {
		return nil, utils.NewDatabaseError(err, "failed to decode cell")
	}
	return &CellResponse{CellID: cell.ID, Value: value, UpdatedAt: cell.UpdatedAt}, nil
}

func (s *dataService) DeleteRow(ctx context.Context, rowID uint) (bool, error) {
	deleted, err := s.store.Data().DeleteRow(ctx, rowID)
	if err != nil {
		return false, translateError(err, rowID, "failed to delete row")
	}
	return deleted, nil
}

func (s *dataService) warnUnknownColumns(table *model.Table, cells map[string]any, op string) {
	var unknown []string
	for name := range cells {
		if _, ok := table.ColumnByName(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return
	}
	sort.Strings(unknown)
	s.log.WithFields(logrus.Fields{
		"table_id":  table.ID,
		"operation": op,
		"columns":   unknown,
	}).Warn("ignoring values for unknown columns")
}

func resolveCreateValue(column model.Column, supplied map[string]any) (datatype.Value, error) {
	value, err := resolveValue(column, supplied[column.Name])
	if err != nil {
		return nil, err
	}
	if value == nil && column.DefaultValue != nil {
		value, err = datatype.Parse(*column.DefaultValue, column.DataType)
		if err != nil {
			return nil, utils.NewValidationError(
				fmt.Sprintf("Invalid default for column '%s'", column.Name), err.Error())
		}
	}
	if column.IsRequired && value == nil {
		return nil, requiredError(column)
	}
	return value, nil
}

// resolveValue coerces a request value to the column type and validates it.
// A nil raw value resolves to nil.
func resolveValue(column model.Column, raw any) (datatype.Value, error) {
	constraint, err := column.Constraint()
	if err != nil {
		return nil, err
	}
	value, err := datatype.Coerce(raw, constraint.Definition)
	if err != nil {
		details := err.Error()
		if appErr, ok := utils.AsAppError(err); ok {
			details = appErr.Message
		}
		return nil, utils.NewValidationError(fmt.Sprintf("Invalid value for column '%s'", column.Name), details)
	}
	if value != nil && !datatype.Validate(value, datatype.Constraint{Definition: constraint.Definition}) {
		return nil, utils.NewValidationError(
			fmt.Sprintf("Invalid value for column '%s'", column.Name),
			fmt.Sprintf("%v is not a valid %s value", raw, column.DataType),
		)
	}
	return value, nil
}

func requiredError(column model.Column) error {
	return utils.NewValidationError(fmt.Sprintf("Column '%s' is required", column.Name), "")
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, json.Number,
		float32, float64, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func newRowResponse(row *model.Row, table *model.Table) (*RowResponse, error) {
	resp := &RowResponse{
		ID:        row.ID,
		TableID:   row.TableID,
		Cells:     make(map[string]any, len(table.Columns)),
		CellIDs:   make(map[string]uint, len(table.Columns)),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	byColumn := make(map[uint]model.Cell, len(row.Cells))
	for _, cell := range row.Cells {
		byColumn[cell.ColumnID] = cell
	}

	for _, column := range table.Columns {
		cell, ok := byColumn[column.ID]
		if !ok {
			resp.Cells[column.Name] = nil
			continue
		}
		value, err := cell.Raw()
		if err != nil {
			return nil, utils.NewDatabaseError(err, fmt.Sprintf("cell %d holds invalid JSON", cell.ID))
		}
		resp.Cells[column.Name] = value
		resp.CellIDs[column.Name] = cell.ID
	}
	return resp, nil
}
