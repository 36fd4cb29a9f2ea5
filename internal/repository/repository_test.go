package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-data-hub/internal/datatype"
	"game-data-hub/internal/diff"
	"game-data-hub/internal/model"
	"game-data-hub/internal/testutil"
)

func seedTable(t *testing.T, store Store) (*model.Project, *model.Table) {
	t.Helper()
	ctx := context.Background()

	project := &model.Project{Name: "Monsters", OwnerID: 1}
	require.NoError(t, store.Projects().Create(ctx, project))

	table := &model.Table{ProjectID: project.ID, Name: "enemies"}
	require.NoError(t, store.Tables().Create(ctx, table))
	return project, table
}

func TestColumnsOrderedAndMaxOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.NewDB(t))
	_, table := seedTable(t, store)

	_, found, err := store.Columns().MaxOrder(ctx, table.ID)
	require.NoError(t, err)
	assert.False(t, found)

	for _, c := range []model.Column{
		{TableID: table.ID, Name: "hp", DataType: datatype.TypeInteger, Order: 2},
		{TableID: table.ID, Name: "name", DataType: datatype.TypeString, Order: 1},
	} {
		c := c
		require.NoError(t, store.Columns().Create(ctx, &c))
	}

	highest, found, err := store.Columns().MaxOrder(ctx, table.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, highest)

	loaded, err := store.Tables().GetByID(ctx, table.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Columns, 2)
	assert.Equal(t, "name", loaded.Columns[0].Name)
	assert.Equal(t, "hp", loaded.Columns[1].Name)

	exists, err := store.Columns().ExistsByName(ctx, table.ID, "hp")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRowsAndCells(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.NewDB(t))
	_, table := seedTable(t, store)

	column := &model.Column{TableID: table.ID, Name: "hp", DataType: datatype.TypeInteger}
	require.NoError(t, store.Columns().Create(ctx, column))

	for i := 0; i < 3; i++ {
		row := &model.Row{TableID: table.ID}
		require.NoError(t, store.Data().CreateRow(ctx, row))
		require.NotZero(t, row.ID)
		cell := &model.Cell{RowID: row.ID, ColumnID: column.ID, Value: model.CellValue(`10`)}
		require.NoError(t, store.Data().CreateCells(ctx, []*model.Cell{cell}))
	}

	rows, err := store.Data().GetRowsByTable(ctx, table.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, rows[0].Cells, 1)

	cell := rows[0].Cells[0]
	cell.Value = nil
	require.NoError(t, store.Data().UpdateCellValue(ctx, &cell))

	reloaded, err := store.Data().GetCellByID(ctx, cell.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsNull())

	err = store.Data().UpdateCellValue(ctx, &model.Cell{ID: 9999})
	assert.ErrorIs(t, err, ErrCellNotFound)

	deleted, err := store.Data().DeleteRow(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.Data().GetCellByID(ctx, cell.ID)
	assert.ErrorIs(t, err, ErrCellNotFound)

	deleted, err = store.Data().DeleteRow(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteTableCascadesAndDetachesVersions(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.NewDB(t))
	project, table := seedTable(t, store)

	column := &model.Column{TableID: table.ID, Name: "hp", DataType: datatype.TypeInteger}
	require.NoError(t, store.Columns().Create(ctx, column))
	row := &model.Row{TableID: table.ID}
	require.NoError(t, store.Data().CreateRow(ctx, row))
	cell := &model.Cell{RowID: row.ID, ColumnID: column.ID, Value: model.CellValue(`1`)}
	require.NoError(t, store.Data().CreateCells(ctx, []*model.Cell{cell}))

	version := &model.Version{
		ProjectID: project.ID,
		TableID:   &table.ID,
		Message:   "seed",
		AuthorID:  1,
		Changes:   diff.ChangeSet{"1": {OldValue: nil, NewValue: 1}},
	}
	require.NoError(t, store.Versions().Create(ctx, version))

	require.NoError(t, store.Tables().Delete(ctx, table.ID))

	_, err := store.Tables().GetByID(ctx, table.ID)
	assert.ErrorIs(t, err, ErrTableNotFound)
	_, err = store.Data().GetRowByID(ctx, row.ID)
	assert.ErrorIs(t, err, ErrRowNotFound)
	_, err = store.Columns().GetByID(ctx, column.ID)
	assert.ErrorIs(t, err, ErrColumnNotFound)

	kept, err := store.Versions().GetByID(ctx, version.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.TableID)
	assert.Contains(t, kept.Changes, "1")
}

func TestDeleteProjectRemovesVersions(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.NewDB(t))
	project, table := seedTable(t, store)

	version := &model.Version{ProjectID: project.ID, TableID: &table.ID, Message: "m", AuthorID: 1, Changes: diff.ChangeSet{}}
	require.NoError(t, store.Versions().Create(ctx, version))

	require.NoError(t, store.Projects().Delete(ctx, project.ID))

	_, err := store.Versions().GetByID(ctx, version.ID)
	assert.ErrorIs(t, err, ErrVersionNotFound)
	_, err = store.Projects().GetByID(ctx, project.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestWithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.NewDB(t))
	_, table := seedTable(t, store)

	boom := errors.New("boom")
	err := store.WithTransaction(ctx, func(tx Store) error {
		if err := tx.Data().CreateRow(ctx, &model.Row{TableID: table.ID}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := store.Data().CountRowsByTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestVersionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.NewDB(t))
	project, _ := seedTable(t, store)

	for _, msg := range []string{"first", "second", "third"} {
		require.NoError(t, store.Versions().Create(ctx, &model.Version{ProjectID: project.ID, Message: msg, AuthorID: 1, Changes: diff.ChangeSet{}}))
	}

	versions, total, err := store.Versions().ListByProject(ctx, project.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, versions, 2)
	assert.Equal(t, "third", versions[0].Message)
}

func TestCellValuesReadBack(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.NewDB(t))
	_, table := seedTable(t, store)

	column := &model.Column{TableID: table.ID, Name: "stat", DataType: datatype.TypeString}
	require.NoError(t, store.Columns().Create(ctx, column))

	tests := []struct {
		name  string
		value model.CellValue
		want  any
	}{
		{"zero", model.CellValue(`0`), json.Number("0")},
		{"integer", model.CellValue(`20`), json.Number("20")},
		{"large integer", model.CellValue(`9007199254740993`), json.Number("9007199254740993")},
		{"float", model.CellValue(`1.5`), json.Number("1.5")},
		{"bool", model.CellValue(`true`), true},
		{"numeric text", model.CellValue(`"42"`), "42"},
		{"text", model.CellValue(`"Fire"`), "Fire"},
		{"null", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := &model.Row{TableID: table.ID}
			require.NoError(t, store.Data().CreateRow(ctx, row))
			cell := &model.Cell{RowID: row.ID, ColumnID: column.ID, Value: tt.value}
			require.NoError(t, store.Data().CreateCells(ctx, []*model.Cell{cell}))

			reloaded, err := store.Data().GetCellByID(ctx, cell.ID)
			require.NoError(t, err)
			raw, err := reloaded.Raw()
			require.NoError(t, err)
			assert.Equal(t, tt.want, raw)

			rows, err := store.Data().GetRowsByTable(ctx, table.ID, 0, 100)
			require.NoError(t, err)
			require.NotEmpty(t, rows)
		})
	}
}
