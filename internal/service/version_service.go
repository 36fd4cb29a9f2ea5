package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"game-data-hub/internal/diff"
	"game-data-hub/internal/metrics"
	"game-data-hub/internal/model"
	"game-data-hub/internal/repository"
	"game-data-hub/internal/utils"
)

type VersionService interface {
	Commit(ctx context.Context, authorID uint, req *CommitRequest) (*model.Version, error)
	GetDiff(ctx context.Context, versionID uint) (*DiffResponse, error)
	Rollback(ctx context.Context, versionID, userID uint) (bool, error)
	ListByProject(ctx context.Context, projectID uint, req *ListVersionsRequest) (*ListVersionsResponse, error)
	ListByTable(ctx context.Context, tableID uint, req *ListVersionsRequest) (*ListVersionsResponse, error)
	DeleteVersion(ctx context.Context, versionID uint) error
	ComputeDiff(req *ComputeDiffRequest) *ComputeDiffResponse
}

type versionService struct {
	store repository.Store
	log   logrus.FieldLogger
}

// CommitRequest carries an already computed change map keyed by cell id
type CommitRequest struct {
	ProjectID uint           `json:"project_id" validate:"required"`
	TableID   *uint          `json:"table_id,omitempty"`
	Message   string         `json:"message"`
	Changes   diff.ChangeSet `json:"changes"`
}

type DiffResponse struct {
	VersionID uint           `json:"version_id"`
	Message   string         `json:"message"`
	Changes   diff.ChangeSet `json:"changes"`
	CreatedAt time.Time      `json:"created_at"`
}

type ListVersionsRequest struct {
	Skip  int `form:"skip" validate:"omitempty,min=0"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

type ListVersionsResponse struct {
	Versions []*model.Version `json:"versions"`
	Total    int64            `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
}

type ComputeDiffRequest struct {
	Before map[string]any `json:"before"`
	After  map[string]any `json:"after"`
}

type ComputeDiffResponse struct {
	Changes diff.ChangeSet       `json:"changes"`
	Display []diff.DisplayChange `json:"display"`
}

// NewVersionService creates a new instance of VersionService
func NewVersionService(store repository.Store, log logrus.FieldLogger) VersionService {
	return &versionService{
		store: store,
		log:   log,
	}
}

// Commit persists the change map as is. It never writes cell values.
func (s *versionService) Commit(ctx context.Context, authorID uint, req *CommitRequest) (*model.Version, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, utils.NewValidationError("Commit message cannot be empty", "")
	}
	for key := range req.Changes {
		if _, err := parseCellKey(key); err != nil {
			return nil, err
		}
	}

	if _, err := s.store.Projects().GetByID(ctx, req.ProjectID); err != nil {
		return nil, translateError(err, req.ProjectID, "failed to get project")
	}
	if req.TableID != nil {
		table, err := s.store.Tables().GetByID(ctx, *req.TableID)
		if err != nil {
			return nil, translateError(err, *req.TableID, "failed to get table")
		}
		if table.ProjectID != req.ProjectID {
			return nil, utils.NewValidationError(
				fmt.Sprintf("Table %d does not belong to project %d", table.ID, req.ProjectID), "")
		}
	}

	changes := req.Changes
	if changes == nil {
		changes = diff.ChangeSet{}
	}

	version := &model.Version{
		ProjectID: req.ProjectID,
		TableID:   req.TableID,
		Message:   message,
		AuthorID:  authorID,
		Changes:   changes,
	}
	if err := s.store.Versions().Create(ctx, version); err != nil {
		return nil, translateError(err, 0, "failed to create version")
	}

	scope := "project"
	if req.TableID != nil {
		scope = "table"
	}
	metrics.RecordCommit(scope)
	s.log.WithFields(logrus.Fields{
		"version_id": version.ID,
		"project_id": version.ProjectID,
		"changes":    len(changes),
	}).Info("version committed")

	return version, nil
}

func (s *versionService) GetDiff(ctx context.Context, versionID uint) (*DiffResponse, error) {
	version, err := s.store.Versions().GetByID(ctx, versionID)
	if err != nil {
		return nil, translateError(err, versionID, "failed to get version")
	}

	return &DiffResponse{
		VersionID: version.ID,
		Message:   version.Message,
		Changes:   version.Changes,
		CreatedAt: version.CreatedAt,
	}, nil
}

// Rollback writes every recorded old value back to its cell in one
// transaction. Cells deleted since the commit are skipped. No new version is
// recorded.
func (s *versionService) Rollback(ctx context.Context, versionID, userID uint) (bool, error) {
	version, err := s.store.Versions().GetByID(ctx, versionID)
	if err != nil {
		metrics.RecordRollback("not_found", 0)
		return false, translateError(err, versionID, "failed to get version")
	}
	if version.AuthorID != userID {
		metrics.RecordRollback("forbidden", 0)
		return false, utils.NewAuthorizationError("You can only rollback your own versions")
	}

	restored, skipped := 0, 0
	err = s.store.WithTransaction(ctx, func(tx repository.Store) error {
		restored, skipped = 0, 0
		for _, key := range version.Changes.Keys() {
			cellID, err := parseCellKey(key)
			if err != nil {
				return err
			}

			cell, err := tx.Data().GetCellByID(ctx, cellID)
			if errors.Is(err, repository.ErrCellNotFound) {
				skipped++
				continue
			}
			if err != nil {
				return err
			}

			if err := cell.SetRaw(version.Changes[key].OldValue); err != nil {
				return err
			}
			if err := tx.Data().UpdateCellValue(ctx, cell); err != nil {
				return err
			}
			restored++
		}
		return nil
	})
	if err != nil {
		metrics.RecordRollback("error", 0)
		return false, translateError(err, versionID, "failed to roll back version")
	}

	metrics.RecordRollback("success", restored)
	entry := s.log.WithFields(logrus.Fields{
		"version_id": versionID,
		"restored":   restored,
		"skipped":    skipped,
	})
	if skipped > 0 {
		entry.Warn("rollback skipped deleted cells")
	} else {
		entry.Info("version rolled back")
	}
	return true, nil
}

func (s *versionService) ListByProject(ctx context.Context, projectID uint, req *ListVersionsRequest) (*ListVersionsResponse, error) {
	if _, err := s.store.Projects().GetByID(ctx, projectID); err != nil {
		return nil, translateError(err, projectID, "failed to get project")
	}

	skip := clampOffset(req.Skip)
	limit := clampLimit(req.Limit, defaultListLimit, maxListLimit)
	versions, total, err := s.store.Versions().ListByProject(ctx, projectID, limit, skip)
	if err != nil {
		return nil, translateError(err, projectID, "failed to list versions")
	}
	return &ListVersionsResponse{Versions: versions, Total: total, Skip: skip, Limit: limit}, nil
}

func (s *versionService) ListByTable(ctx context.Context, tableID uint, req *ListVersionsRequest) (*ListVersionsResponse, error) {
	if _, err := s.store.Tables().GetByID(ctx, tableID); err != nil {
		return nil, translateError(err, tableID, "failed to get table")
	}

	skip := clampOffset(req.Skip)
	limit := clampLimit(req.Limit, defaultListLimit, maxListLimit)
	versions, total, err := s.store.Versions().ListByTable(ctx, tableID, limit, skip)
	if err != nil {
		return nil, translateError(err, tableID, "failed to list versions")
	}
	return &ListVersionsResponse{Versions: versions, Total: total, Skip: skip, Limit: limit}, nil
}

// DeleteVersion removes the commit record only; cells are untouched
func (s *versionService) DeleteVersion(ctx context.Context, versionID uint) error {
	deleted, err := s.store.Versions().Delete(ctx, versionID)
	if err != nil {
		return translateError(err, versionID, "failed to delete version")
	}
	if !deleted {
		return utils.NewNotFoundError("Version", idString(versionID))
	}
	return nil
}

func (s *versionService) ComputeDiff(req *ComputeDiffRequest) *ComputeDiffResponse {
	changes := diff.Compare(req.Before, req.After)
	return &ComputeDiffResponse{
		Changes: changes,
		Display: diff.FormatForDisplay(changes),
	}
}

func parseCellKey(key string) (uint, error) {
	id, err := strconv.ParseUint(key, 10, 64)
	if err != nil || id == 0 {
		return 0, utils.NewValidationError(fmt.Sprintf("Change key '%s' is not a cell id", key), "")
	}
	return uint(id), nil
}
