package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"game-data-hub/internal/metrics"
	"game-data-hub/internal/storage/blob"
	"game-data-hub/internal/utils"
)

const exportTimestampFormat = "20060102T150405Z"

type ExportService interface {
	Export(ctx context.Context, tableID uint, format string) (*blob.Info, error)
	ListExports(ctx context.Context, tableID uint) ([]blob.Info, error)
}

type exportService struct {
	generator CodeGenerationService
	tables    TableService
	blobs     blob.Store
	prefix    string
	now       func() time.Time
	log       logrus.FieldLogger
}

// NewExportService creates a new instance of ExportService. Artifacts are
// written under prefix in blobs.
func NewExportService(generator CodeGenerationService, tables TableService, blobs blob.Store, prefix string, log logrus.FieldLogger) ExportService {
	return &exportService{
		generator: generator,
		tables:    tables,
		blobs:     blobs,
		prefix:    strings.Trim(prefix, "/"),
		now:       time.Now,
		log:       log,
	}
}

// Export renders the table in format and stores it as a new object
func (s *exportService) Export(ctx context.Context, tableID uint, format string) (*blob.Info, error) {
	table, err := s.tables.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}

	file, err := s.generator.GenerateForTable(ctx, tableID, format)
	if err != nil {
		return nil, err
	}

	ext := file.Filename[strings.LastIndex(file.Filename, "."):]
	key := fmt.Sprintf("%s%s-%s%s",
		s.tablePrefix(table.ProjectID, tableID),
		s.now().UTC().Format(exportTimestampFormat),
		uuid.NewString(),
		ext,
	)

	info, err := s.blobs.Put(ctx, key, strings.NewReader(file.Content), blob.PutOptions{
		ContentType: file.MimeType,
		Metadata: map[string]string{
			"format":   file.Format,
			"filename": file.Filename,
			"table-id": idString(tableID),
		},
	})
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("export upload failed")
		return nil, utils.NewErrorBuilder(utils.ErrCodeExportFailed).
			WithDetails(fmt.Sprintf("failed to store %s", key)).
			WithCause(err).
			Build()
	}

	metrics.RecordExport(string(s.blobs.Driver()), int(info.Size))
	s.log.WithFields(logrus.Fields{
		"table_id": tableID,
		"format":   file.Format,
		"key":      info.Key,
		"bytes":    info.Size,
		"driver":   s.blobs.Driver(),
	}).Info("table exported")

	return &info, nil
}

// ListExports returns the stored artifacts of a table, oldest first
func (s *exportService) ListExports(ctx context.Context, tableID uint) ([]blob.Info, error) {
	table, err := s.tables.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}

	infos, err := s.blobs.List(ctx, s.tablePrefix(table.ProjectID, tableID))
	if err != nil && !errors.Is(err, blob.ErrNotFound) {
		return nil, utils.NewErrorBuilder(utils.ErrCodeExportFailed).
			WithDetails("failed to list exports").
			WithCause(err).
			Build()
	}
	if infos == nil {
		infos = []blob.Info{}
	}
	return infos, nil
}

func (s *exportService) tablePrefix(projectID, tableID uint) string {
	p := fmt.Sprintf("%d/%d/", projectID, tableID)
	if s.prefix == "" {
		return p
	}
	return s.prefix + "/" + p
}
