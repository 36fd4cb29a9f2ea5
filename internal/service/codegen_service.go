package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"game-data-hub/internal/cache"
	"game-data-hub/internal/codegen"
	"game-data-hub/internal/metrics"
	"game-data-hub/internal/model"
	"game-data-hub/internal/repository"
	"game-data-hub/internal/utils"
)

const defaultCodegenMaxRows = 1000

type CodeGenerationService interface {
	GenerateForTable(ctx context.Context, tableID uint, format string) (*GeneratedFile, error)
	Snapshot(ctx context.Context, tableID uint) (*codegen.Snapshot, error)
	Formats() []codegen.FormatInfo
}

type codeGenerationService struct {
	store    repository.Store
	schemas  *cache.SchemaCache
	registry *codegen.Registry
	maxRows  int
	log      logrus.FieldLogger
}

// GeneratedFile is a rendered artifact ready for download
type GeneratedFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	MimeType string `json:"mime_type"`
	Format   string `json:"format"`
}

// NewCodeGenerationService creates a new instance of CodeGenerationService.
// maxRows caps the rows read into one snapshot.
func NewCodeGenerationService(store repository.Store, schemas *cache.SchemaCache, registry *codegen.Registry, maxRows int, log logrus.FieldLogger) CodeGenerationService {
	if registry == nil {
		registry = codegen.DefaultRegistry()
	}
	if maxRows <= 0 {
		maxRows = defaultCodegenMaxRows
	}
	return &codeGenerationService{
		store:    store,
		schemas:  schemas,
		registry: registry,
		maxRows:  maxRows,
		log:      log,
	}
}

func (s *codeGenerationService) Formats() []codegen.FormatInfo {
	return s.registry.Formats()
}

func (s *codeGenerationService) GenerateForTable(ctx context.Context, tableID uint, format string) (*GeneratedFile, error) {
	generator, err := s.registry.Get(format)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.Snapshot(ctx, tableID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	content, err := generator.Generate(snapshot.Data, snapshot.Schema)
	metrics.RecordCodegen(generator.Name(), err == nil, time.Since(start))
	if err != nil {
		if _, ok := utils.AsAppError(err); ok {
			return nil, err
		}
		return nil, utils.NewGenerationError(err, generator.Name())
	}

	s.log.WithFields(logrus.Fields{
		"table_id": tableID,
		"format":   generator.Name(),
		"rows":     len(snapshot.Data.Rows),
	}).Info("code generated")

	return &GeneratedFile{
		Filename: artifactName(snapshot.Schema.Name) + generator.FileExtension(),
		Content:  content,
		MimeType: generator.MimeType(),
		Format:   generator.Name(),
	}, nil
}

// Snapshot reads the table schema and up to maxRows rows in the shape the
// generators and the gdhgen CLI consume.
func (s *codeGenerationService) Snapshot(ctx context.Context, tableID uint) (*codegen.Snapshot, error) {
	table, err := loadSchema(ctx, s.store, s.schemas, tableID)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.Data().GetRowsByTable(ctx, tableID, 0, s.maxRows)
	if err != nil {
		return nil, translateError(err, tableID, "failed to list rows")
	}

	data, err := snapshotRows(table, rows)
	if err != nil {
		return nil, err
	}
	return &codegen.Snapshot{Schema: schemaOf(table), Data: data}, nil
}

func schemaOf(table *model.Table) codegen.Schema {
	columns := make([]codegen.ColumnSchema, 0, len(table.Columns))
	for _, c := range table.Columns {
		columns = append(columns, codegen.ColumnSchema{
			Name:             c.Name,
			DataType:         c.DataType,
			IsRequired:       c.IsRequired,
			DefaultValue:     c.DefaultValue,
			EnumValues:       append([]string(nil), c.EnumValues...),
			ReferenceTableID: c.ReferenceTableID,
			Order:            c.Order,
		})
	}
	return codegen.Schema{Name: table.Name, Columns: columns}
}

func snapshotRows(table *model.Table, rows []*model.Row) (codegen.TableData, error) {
	names := make(map[uint]string, len(table.Columns))
	for _, c := range table.Columns {
		names[c.ID] = c.Name
	}

	out := make([]codegen.Row, 0, len(rows))
	for _, row := range rows {
		cells := make(map[string]any, len(row.Cells))
		for _, cell := range row.Cells {
			name, ok := names[cell.ColumnID]
			if !ok {
				continue
			}
			v, err := cell.Raw()
			if err != nil {
				return codegen.TableData{}, utils.NewErrorBuilder(utils.ErrCodeInternalError).
					WithMessage(fmt.Sprintf("Cell %d holds an unreadable value", cell.ID)).
					WithCause(err).
					Build()
			}
			cells[name] = v
		}
		out = append(out, codegen.Row{ID: row.ID, TableID: row.TableID, Cells: cells})
	}
	return codegen.TableData{Rows: out}, nil
}

// artifactName turns a table name into a file stem
func artifactName(name string) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(name))
	if strings.Trim(stem, "_") == "" {
		return "table"
	}
	return stem
}
