package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-data-hub/internal/utils"
)

func TestCreateColumnAssignsOrder(t *testing.T) {
	h := newHarness(t)
	_, table := h.seedTable(t, 1)

	first := h.addColumn(t, table.ID, CreateColumnRequest{Name: "name", DataType: "string"})
	second := h.addColumn(t, table.ID, CreateColumnRequest{Name: "hp", DataType: "Integer"})
	pinned := h.addColumn(t, table.ID, CreateColumnRequest{Name: "id", DataType: "integer", Order: intPtr(0)})

	assert.Equal(t, 1, first.Order)
	assert.Equal(t, 2, second.Order)
	assert.Equal(t, 0, pinned.Order)

	loaded, err := h.tables.GetTable(context.Background(), table.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Columns, 3)
	assert.Equal(t, []string{"id", "name", "hp"}, []string{loaded.Columns[0].Name, loaded.Columns[1].Name, loaded.Columns[2].Name})
}

func TestCreateColumnValidation(t *testing.T) {
	h := newHarness(t)
	_, table := h.seedTable(t, 1)
	h.addColumn(t, table.ID, CreateColumnRequest{Name: "hp", DataType: "integer"})
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateColumnRequest
		code string
		msg  string
	}{
		{"unknown type", CreateColumnRequest{Name: "x", DataType: "decimal"}, utils.ErrCodeValidationFailed, "Invalid data type: decimal"},
		{"enum without values", CreateColumnRequest{Name: "x", DataType: "enum"}, utils.ErrCodeValidationFailed, "Enum type requires enum_values"},
		{"reference without target", CreateColumnRequest{Name: "x", DataType: "reference"}, utils.ErrCodeValidationFailed, "Reference type requires reference_table_id"},
		{"reference to missing table", CreateColumnRequest{Name: "x", DataType: "reference", ReferenceTableID: uintPtr(999)}, utils.ErrCodeNotFound, "Table not found: 999"},
		{"duplicate name", CreateColumnRequest{Name: "hp", DataType: "integer"}, utils.ErrCodeValidationFailed, "Column 'hp' already exists"},
		{"bad default", CreateColumnRequest{Name: "x", DataType: "integer", DefaultValue: strPtr("abc")}, utils.ErrCodeValidationFailed, "Invalid default value: 'abc'"},
		{"default outside enum", CreateColumnRequest{Name: "x", DataType: "enum", EnumValues: []string{"Fire"}, DefaultValue: strPtr("Ice")}, utils.ErrCodeValidationFailed, "Invalid default value: 'Ice'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := h.tables.CreateColumn(ctx, table.ID, &req)
			require.Error(t, err)
			assert.True(t, utils.IsErrorType(err, tt.code), err.Error())
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	_, err := h.tables.CreateColumn(ctx, 999, &CreateColumnRequest{Name: "x", DataType: "string"})
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeNotFound))
}

func TestCreateColumnPayloads(t *testing.T) {
	h := newHarness(t)
	_, table := h.seedTable(t, 1)
	_, target := h.seedTable(t, 1)

	enum := h.addColumn(t, table.ID, CreateColumnRequest{Name: "element", DataType: "enum", EnumValues: []string{"Fire", "Ice"}, ReferenceTableID: &target.ID})
	assert.Equal(t, []string{"Fire", "Ice"}, []string(enum.EnumValues))
	assert.Nil(t, enum.ReferenceTableID)

	ref := h.addColumn(t, table.ID, CreateColumnRequest{Name: "drop", DataType: "reference", ReferenceTableID: &target.ID, EnumValues: []string{"ignored"}})
	require.NotNil(t, ref.ReferenceTableID)
	assert.Equal(t, target.ID, *ref.ReferenceTableID)
	assert.Empty(t, ref.EnumValues)
}

func TestSchemaCacheSeesNewColumns(t *testing.T) {
	h := newHarness(t)
	_, table := h.seedTable(t, 1)
	ctx := context.Background()

	before, err := h.tables.GetTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Empty(t, before.Columns)

	h.addColumn(t, table.ID, CreateColumnRequest{Name: "hp", DataType: "integer"})

	after, err := h.tables.GetTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Len(t, after.Columns, 1)

	columns, err := h.tables.ListColumns(ctx, table.ID)
	require.NoError(t, err)
	require.Len(t, columns, 1)

	require.NoError(t, h.tables.DeleteColumn(ctx, columns[0].ID))
	after, err = h.tables.GetTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Columns)
}

func TestTablesLifecycle(t *testing.T) {
	h := newHarness(t)
	project, table := h.seedTable(t, 1)
	ctx := context.Background()

	_, err := h.tables.CreateTable(ctx, &CreateTableRequest{ProjectID: project.ID, Name: "  "})
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeValidationFailed))
	_, err = h.tables.CreateTable(ctx, &CreateTableRequest{ProjectID: 999, Name: "t"})
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeNotFound))

	tables, err := h.tables.ListTables(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	require.NoError(t, h.tables.DeleteTable(ctx, table.ID))
	_, err = h.tables.GetTable(ctx, table.ID)
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeNotFound))
	err = h.tables.DeleteTable(ctx, table.ID)
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeNotFound))
}

func TestProjectOwnership(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	project, err := h.projects.CreateProject(ctx, 1, &CreateProjectRequest{Name: " Monsters "})
	require.NoError(t, err)
	assert.Equal(t, "Monsters", project.Name)

	_, err = h.projects.GetProject(ctx, project.ID, 2)
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeForbidden))
	_, err = h.projects.UpdateProject(ctx, project.ID, 2, &UpdateProjectRequest{Name: strPtr("Mine")})
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeForbidden))
	err = h.projects.DeleteProject(ctx, project.ID, 2)
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeForbidden))

	updated, err := h.projects.UpdateProject(ctx, project.ID, 1, &UpdateProjectRequest{Description: strPtr("bestiary")})
	require.NoError(t, err)
	assert.Equal(t, "Monsters", updated.Name)
	assert.Equal(t, "bestiary", updated.Description)

	_, err = h.projects.UpdateProject(ctx, project.ID, 1, &UpdateProjectRequest{Name: strPtr(" ")})
	assert.Contains(t, err.Error(), "Project name cannot be empty")

	list, err := h.projects.ListProjects(ctx, 1, &ListProjectsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	list, err = h.projects.ListProjects(ctx, 2, &ListProjectsRequest{})
	require.NoError(t, err)
	assert.Zero(t, list.Total)

	require.NoError(t, h.projects.DeleteProject(ctx, project.ID, 1))
	_, err = h.projects.GetProject(ctx, project.ID, 1)
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeNotFound))
}

func intPtr(v int) *int { return &v }
