// Package repository provides data access to the entity store.
package repository

import (
	"errors"

	"inkwell/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// lookupError converts a single-row lookup failure into an AppError.
func lookupError(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// writeError converts an insert/update failure, reporting unique violations as ALREADY_EXISTS.
func writeError(err error, duplicateMessage string) error {
	if isUniqueViolation(err) {
		return models.NewAlreadyExistsError(duplicateMessage)
	}
	return models.NewInternalError(err)
}

// isUniqueViolation also catches raw postgres errors from sessions opened
// without TranslateError.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func applyPage(db *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		db = db.Limit(limit)
	}
	if offset > 0 {
		db = db.Offset(offset)
	}
	return db
}
