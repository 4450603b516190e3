package repo

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"go-gin-gorm-cache/internal/domain"
)

// translate maps driver errors onto the domain taxonomy.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), isDupKey(err):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreFault, err)
	}
}

// isDupKey catches unique violations from drivers that gorm does not translate.
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
