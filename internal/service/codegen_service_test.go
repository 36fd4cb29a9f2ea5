package service

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-data-hub/internal/logger"
	"game-data-hub/internal/storage/blob"
	"game-data-hub/internal/utils"
)

func seedMonsters(t *testing.T, h *harness) (uint, uint) {
	t.Helper()
	project, table := h.seedTable(t, 1)
	h.addColumn(t, table.ID, CreateColumnRequest{Name: "name", DataType: "string", IsRequired: true})
	h.addColumn(t, table.ID, CreateColumnRequest{Name: "hp", DataType: "integer", IsRequired: true})
	h.addColumn(t, table.ID, CreateColumnRequest{Name: "element", DataType: "enum", EnumValues: []string{"Fire", "Ice"}})

	ctx := context.Background()
	for _, cells := range []map[string]any{
		{"name": "Slime", "hp": 10, "element": "Ice"},
		{"name": "Dragon", "hp": 500},
	} {
		_, err := h.data.CreateRow(ctx, &CreateRowRequest{TableID: table.ID, Cells: cells})
		require.NoError(t, err)
	}
	return project.ID, table.ID
}

func TestGenerateForTable(t *testing.T) {
	h := newHarness(t)
	_, tableID := seedMonsters(t, h)
	ctx := context.Background()

	file, err := h.codegen.GenerateForTable(ctx, tableID, "JSON")
	require.NoError(t, err)
	assert.Equal(t, "enemies.json", file.Filename)
	assert.Equal(t, "application/json", file.MimeType)
	assert.Equal(t, "json", file.Format)

	var doc struct {
		Items struct {
			Required []string `json:"required"`
		} `json:"items"`
		Data []struct {
			Cells map[string]any `json:"cells"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(file.Content), &doc))
	assert.Equal(t, []string{"name", "hp"}, doc.Items.Required)
	require.Len(t, doc.Data, 2)
	assert.Equal(t, "Dragon", doc.Data[1].Cells["name"])

	file, err = h.codegen.GenerateForTable(ctx, tableID, "unity")
	require.NoError(t, err)
	assert.Equal(t, "enemies.cs", file.Filename)
	assert.Contains(t, file.Content, "public class EnemiesData : ScriptableObject")

	_, err = h.codegen.GenerateForTable(ctx, tableID, "protobuf")
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeValidationFailed))
	_, err = h.codegen.GenerateForTable(ctx, 999, "json")
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeNotFound))
}

func TestSnapshotRespectsRowCap(t *testing.T) {
	h := newHarness(t)
	_, tableID := seedMonsters(t, h)
	capped := NewCodeGenerationService(h.store, h.schemas, nil, 1, logger.Discard())

	snapshot, err := capped.Snapshot(context.Background(), tableID)
	require.NoError(t, err)
	assert.Equal(t, "enemies", snapshot.Schema.Name)
	require.Len(t, snapshot.Schema.Columns, 3)
	assert.Equal(t, []string{"Fire", "Ice"}, snapshot.Schema.Columns[2].EnumValues)
	require.Len(t, snapshot.Data.Rows, 1)
	assert.Equal(t, "Slime", snapshot.Data.Rows[0].Cells["name"])

	assert.Len(t, capped.Formats(), 5)
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "enemy_stats", artifactName(" enemy stats "))
	assert.Equal(t, "table", artifactName("!!"))
}

func TestExportStoresArtifact(t *testing.T) {
	h := newHarness(t)
	projectID, tableID := seedMonsters(t, h)
	store := blob.NewMemory()
	exports := NewExportService(h.codegen, h.tables, store, "/exports/", logger.Discard()).(*exportService)
	exports.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	info, err := exports.Export(ctx, tableID, "yaml")
	require.NoError(t, err)

	prefix := "exports/" + idString(projectID) + "/" + idString(tableID) + "/20240301T123000Z-"
	assert.True(t, strings.HasPrefix(info.Key, prefix), info.Key)
	assert.True(t, strings.HasSuffix(info.Key, ".yaml"), info.Key)
	assert.Equal(t, "application/yaml", info.ContentType)
	assert.Equal(t, "yaml", info.Metadata["format"])

	_, body, err := store.Get(ctx, info.Key)
	require.NoError(t, err)
	defer body.Close()
	content, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(content), "table: enemies")

	_, err = exports.Export(ctx, tableID, "json")
	require.NoError(t, err)

	listed, err := exports.ListExports(ctx, tableID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	_, err = exports.Export(ctx, tableID, "protobuf")
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeValidationFailed))
	_, err = exports.ListExports(ctx, 999)
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeNotFound))
}
