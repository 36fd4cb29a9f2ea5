package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-data-hub/internal/datatype"
	"game-data-hub/internal/diff"
	"game-data-hub/internal/model"
	"game-data-hub/internal/utils"
)

func seedScoreCell(t *testing.T, h *harness, ownerID uint) (*model.Project, *model.Table) {
	t.Helper()
	project, table := h.seedTable(t, ownerID)
	column := &model.Column{TableID: table.ID, Name: "score", DataType: datatype.TypeInteger, Order: 1}
	require.NoError(t, h.store.Columns().Create(context.Background(), column))
	h.seedCell(t, 5, table.ID, column.ID, `20`)
	return project, table
}

func TestRollbackRestoresOldValues(t *testing.T) {
	h := newHarness(t)
	project, _ := seedScoreCell(t, h, 1)
	ctx := context.Background()

	version, err := h.versions.Commit(ctx, 1, &CommitRequest{
		ProjectID: project.ID,
		Message:   "raise score",
		Changes:   diff.ChangeSet{"5": {OldValue: 10, NewValue: 20}},
	})
	require.NoError(t, err)
	assert.Equal(t, num("20"), h.cellValue(t, 5))

	ok, err := h.versions.Rollback(ctx, version.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, num("10"), h.cellValue(t, 5))
}

func TestRollbackByOtherUserIsForbidden(t *testing.T) {
	h := newHarness(t)
	project, _ := seedScoreCell(t, h, 1)
	ctx := context.Background()

	version, err := h.versions.Commit(ctx, 1, &CommitRequest{
		ProjectID: project.ID,
		Message:   "raise score",
		Changes:   diff.ChangeSet{"5": {OldValue: 10, NewValue: 20}},
	})
	require.NoError(t, err)

	ok, err := h.versions.Rollback(ctx, version.ID, 2)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeForbidden))
	assert.Contains(t, err.Error(), "You can only rollback your own versions")
	assert.Equal(t, num("20"), h.cellValue(t, 5))
}

func TestRollbackSkipsDeletedCells(t *testing.T) {
	h := newHarness(t)
	project, _ := seedScoreCell(t, h, 1)
	ctx := context.Background()

	version, err := h.versions.Commit(ctx, 1, &CommitRequest{
		ProjectID: project.ID,
		Message:   "mixed",
		Changes: diff.ChangeSet{
			"5":   {OldValue: nil, NewValue: 20},
			"404": {OldValue: 1, NewValue: 2},
		},
	})
	require.NoError(t, err)

	ok, err := h.versions.Rollback(ctx, version.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, h.cellValue(t, 5))

	_, err = h.versions.Rollback(ctx, 9999, 1)
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeNotFound))
}

func TestCommitValidation(t *testing.T) {
	h := newHarness(t)
	project, table := h.seedTable(t, 1)
	other, err := h.projects.CreateProject(context.Background(), 1, &CreateProjectRequest{Name: "Other"})
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CommitRequest
		code string
		msg  string
	}{
		{"blank message", CommitRequest{ProjectID: project.ID, Message: "  "}, utils.ErrCodeValidationFailed, "Commit message cannot be empty"},
		{"non cell key", CommitRequest{ProjectID: project.ID, Message: "m", Changes: diff.ChangeSet{"hp": {}}}, utils.ErrCodeValidationFailed, "Change key 'hp'"},
		{"missing project", CommitRequest{ProjectID: 999, Message: "m"}, utils.ErrCodeNotFound, "Project not found: 999"},
		{"missing table", CommitRequest{ProjectID: project.ID, TableID: uintPtr(999), Message: "m"}, utils.ErrCodeNotFound, "Table not found: 999"},
		{"foreign table", CommitRequest{ProjectID: other.ID, TableID: &table.ID, Message: "m"}, utils.ErrCodeValidationFailed, "does not belong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := h.versions.Commit(ctx, 1, &req)
			require.Error(t, err)
			assert.True(t, utils.IsErrorType(err, tt.code), err.Error())
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	version, err := h.versions.Commit(ctx, 1, &CommitRequest{ProjectID: project.ID, TableID: &table.ID, Message: " tidy "})
	require.NoError(t, err)
	assert.Equal(t, "tidy", version.Message)
	assert.NotNil(t, version.Changes)
}

func TestGetDiffIsStable(t *testing.T) {
	h := newHarness(t)
	project, _ := h.seedTable(t, 1)
	ctx := context.Background()

	version, err := h.versions.Commit(ctx, 1, &CommitRequest{
		ProjectID: project.ID,
		Message:   "m",
		Changes:   diff.ChangeSet{"3": {OldValue: "a", NewValue: "b"}},
	})
	require.NoError(t, err)

	first, err := h.versions.GetDiff(ctx, version.ID)
	require.NoError(t, err)
	second, err := h.versions.GetDiff(ctx, version.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "m", first.Message)
	assert.Equal(t, diff.Change{OldValue: "a", NewValue: "b"}, first.Changes["3"])
}

func TestListAndDeleteVersions(t *testing.T) {
	h := newHarness(t)
	project, table := h.seedTable(t, 1)
	ctx := context.Background()

	for _, msg := range []string{"one", "two"} {
		_, err := h.versions.Commit(ctx, 1, &CommitRequest{ProjectID: project.ID, TableID: &table.ID, Message: msg})
		require.NoError(t, err)
	}
	_, err := h.versions.Commit(ctx, 1, &CommitRequest{ProjectID: project.ID, Message: "project wide"})
	require.NoError(t, err)

	byProject, err := h.versions.ListByProject(ctx, project.ID, &ListVersionsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), byProject.Total)
	assert.Equal(t, defaultListLimit, byProject.Limit)

	byTable, err := h.versions.ListByTable(ctx, table.ID, &ListVersionsRequest{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byTable.Total)
	require.Len(t, byTable.Versions, 1)
	assert.Equal(t, "two", byTable.Versions[0].Message)

	require.NoError(t, h.versions.DeleteVersion(ctx, byTable.Versions[0].ID))
	err = h.versions.DeleteVersion(ctx, byTable.Versions[0].ID)
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeNotFound))

	_, err = h.versions.ListByTable(ctx, 999, &ListVersionsRequest{})
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeNotFound))
}

func TestComputeDiff(t *testing.T) {
	h := newHarness(t)

	resp := h.versions.ComputeDiff(&ComputeDiffRequest{
		Before: map[string]any{"1": 10, "2": "x"},
		After:  map[string]any{"1": 10.0, "2": "y", "3": true},
	})

	assert.Len(t, resp.Changes, 2)
	require.Len(t, resp.Display, 2)
	assert.Equal(t, "2", resp.Display[0].CellID)
	assert.Equal(t, "3", resp.Display[1].CellID)
}

func uintPtr(v uint) *uint { return &v }

func TestComputeDiffIsSymmetric(t *testing.T) {
	h := newHarness(t)
	a := map[string]any{"1": 10, "2": "Slime", "3": false, "4": nil, "6": num("9007199254740993")}
	b := map[string]any{"1": 25, "2": "Slime", "3": true, "5": "Rare", "6": num("9007199254740992")}

	ab := h.versions.ComputeDiff(&ComputeDiffRequest{Before: a, After: b}).Changes
	ba := h.versions.ComputeDiff(&ComputeDiffRequest{Before: b, After: a}).Changes

	require.Equal(t, []string{"1", "3", "5", "6"}, ab.Keys())
	require.Equal(t, ab.Keys(), ba.Keys())
	for _, k := range ab.Keys() {
		assert.Equal(t, ab[k].OldValue, ba[k].NewValue, k)
		assert.Equal(t, ab[k].NewValue, ba[k].OldValue, k)
	}
}
