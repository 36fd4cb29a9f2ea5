package repository

import "errors"

// Common repository errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrTableNotFound   = errors.New("table not found")
	ErrColumnNotFound  = errors.New("column not found")
	ErrRowNotFound     = errors.New("row not found")
	ErrCellNotFound    = errors.New("cell not found")
	ErrVersionNotFound = errors.New("version not found")
)
