package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"game-data-hub/internal/cache"
	"game-data-hub/internal/logger"
	"game-data-hub/internal/model"
	"game-data-hub/internal/repository"
	"game-data-hub/internal/testutil"
)

type harness struct {
	store    repository.Store
	schemas  *cache.SchemaCache
	projects ProjectService
	tables   TableService
	data     DataService
	versions VersionService
	codegen  CodeGenerationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.Discard()
	store := repository.NewStore(testutil.NewDB(t))
	schemas := cache.NewSchemaCache(0)
	return &harness{
		store:    store,
		schemas:  schemas,
		projects: NewProjectService(store, schemas, log),
		tables:   NewTableService(store, schemas, log),
		data:     NewDataService(store, schemas, log),
		versions: NewVersionService(store, log),
		codegen:  NewCodeGenerationService(store, schemas, nil, 0, log),
	}
}

// seedTable creates a project owned by ownerID with one empty table
func (h *harness) seedTable(t *testing.T, ownerID uint) (*model.Project, *model.Table) {
	t.Helper()
	ctx := context.Background()

	project, err := h.projects.CreateProject(ctx, ownerID, &CreateProjectRequest{Name: "Monsters"})
	require.NoError(t, err)
	table, err := h.tables.CreateTable(ctx, &CreateTableRequest{ProjectID: project.ID, Name: "enemies"})
	require.NoError(t, err)
	return project, table
}

func (h *harness) addColumn(t *testing.T, tableID uint, req CreateColumnRequest) *model.Column {
	t.Helper()
	column, err := h.tables.CreateColumn(context.Background(), tableID, &req)
	require.NoError(t, err)
	return column
}

// seedCell stores a raw cell with a fixed id
func (h *harness) seedCell(t *testing.T, id, tableID, columnID uint, raw string) {
	t.Helper()
	ctx := context.Background()

	row := &model.Row{TableID: tableID}
	require.NoError(t, h.store.Data().CreateRow(ctx, row))
	cell := &model.Cell{ID: id, RowID: row.ID, ColumnID: columnID, Value: model.CellValue(raw)}
	require.NoError(t, h.store.Data().CreateCells(ctx, []*model.Cell{cell}))
}

func (h *harness) cellValue(t *testing.T, id uint) any {
	t.Helper()
	cell, err := h.store.Data().GetCellByID(context.Background(), id)
	require.NoError(t, err)
	v, err := cell.Raw()
	require.NoError(t, err)
	return v
}

func strPtr(s string) *string { return &s }

func num(s string) json.Number { return json.Number(s) }
