package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// IsNotFoundError reports whether err means "no such row".
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a unique-constraint violation.
// Relies on gorm's TranslateError being enabled on the connection.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
