package repository

import (
	"context"

	"game-data-hub/internal/model"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// Exists reports whether the username or the email is already taken
	Exists(ctx context.Context, username, email string) (bool, error)
}

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id uint) (*model.Project, error)
	ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]*model.Project, int64, error)
	Update(ctx context.Context, project *model.Project) error

	// Delete removes the project with its tables, rows, cells and versions
	Delete(ctx context.Context, id uint) error
}

// TableRepository defines the interface for table and column operations
type TableRepository interface {
	Create(ctx context.Context, table *model.Table) error

	// GetByID loads the table with its columns ordered by display order
	GetByID(ctx context.Context, id uint) (*model.Table, error)
	ListByProject(ctx context.Context, projectID uint) ([]*model.Table, error)

	// Delete removes the table with its columns, rows and cells. Versions
	// scoped to the table are kept as project history with the table cleared.
	Delete(ctx context.Context, id uint) error
}

// ColumnRepository defines the interface for column operations
type ColumnRepository interface {
	Create(ctx context.Context, column *model.Column) error
	GetByID(ctx context.Context, id uint) (*model.Column, error)
	ListByTable(ctx context.Context, tableID uint) ([]*model.Column, error)
	ExistsByName(ctx context.Context, tableID uint, name string) (bool, error)

	// MaxOrder returns the highest display order on the table and whether
	// the table has any column at all
	MaxOrder(ctx context.Context, tableID uint) (int, bool, error)

	// Delete removes the column and its cells
	Delete(ctx context.Context, id uint) error
}

// DataRepository defines the interface for row and cell operations
type DataRepository interface {
	CreateRow(ctx context.Context, row *model.Row) error

	// GetRowByID loads the row with its cells
	GetRowByID(ctx context.Context, id uint) (*model.Row, error)
	GetRowsByTable(ctx context.Context, tableID uint, skip, limit int) ([]*model.Row, error)
	CountRowsByTable(ctx context.Context, tableID uint) (int64, error)

	// DeleteRow removes the row and its cells, reporting whether it existed
	DeleteRow(ctx context.Context, id uint) (bool, error)

	CreateCells(ctx context.Context, cells []*model.Cell) error
	GetCellByID(ctx context.Context, id uint) (*model.Cell, error)

	// UpdateCellValue writes the cell's value and bumps its timestamp
	UpdateCellValue(ctx context.Context, cell *model.Cell) error
}

// VersionRepository defines the interface for commit records
type VersionRepository interface {
	Create(ctx context.Context, version *model.Version) error
	GetByID(ctx context.Context, id uint) (*model.Version, error)

	// ListByProject returns versions newest first
	ListByProject(ctx context.Context, projectID uint, limit, offset int) ([]*model.Version, int64, error)
	ListByTable(ctx context.Context, tableID uint, limit, offset int) ([]*model.Version, int64, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// Store bundles the repositories over one connection so a service can run
// several of them inside a single transaction.
type Store interface {
	Users() UserRepository
	Projects() ProjectRepository
	Tables() TableRepository
	Columns() ColumnRepository
	Data() DataRepository
	Versions() VersionRepository

	// WithTransaction runs fn against a Store bound to one transaction,
	// committing when fn returns nil and rolling back otherwise
	WithTransaction(ctx context.Context, fn func(tx Store) error) error

	// Ping checks connectivity of the underlying database
	Ping(ctx context.Context) error
}
