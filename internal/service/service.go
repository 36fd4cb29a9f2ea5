// Package service holds the application services behind the HTTP handlers.
// Services translate repository sentinels into utils.AppError values.
package service

import (
	"errors"
	"strconv"

	"game-data-hub/internal/repository"
	"game-data-hub/internal/utils"
)

const (
	defaultRowLimit = 100
	maxRowLimit     = 1000

	defaultListLimit = 20
	maxListLimit     = 100
)

var notFoundResources = []struct {
	err      error
	resource string
}{
	{repository.ErrUserNotFound, "User"},
	{repository.ErrProjectNotFound, "Project"},
	{repository.ErrTableNotFound, "Table"},
	{repository.ErrColumnNotFound, "Column"},
	{repository.ErrRowNotFound, "Row"},
	{repository.ErrCellNotFound, "Cell"},
	{repository.ErrVersionNotFound, "Version"},
}

// translateError maps repository sentinels to NOT_FOUND and anything else
// that is not already an AppError to DATABASE_ERROR.
func translateError(err error, id uint, action string) error {
	if err == nil {
		return nil
	}
	if _, ok := utils.AsAppError(err); ok {
		return err
	}
	for _, nf := range notFoundResources {
		if errors.Is(err, nf.err) {
			return utils.NewNotFoundError(nf.resource, idString(id))
		}
	}
	return utils.NewDatabaseError(err, action)
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func clampLimit(limit, fallback, ceiling int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > ceiling {
		return ceiling
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
