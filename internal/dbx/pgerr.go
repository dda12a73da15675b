package dbx

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes we react to.
const (
	codeUniqueViolation           = "23505"
	codeForeignKeyViolation       = "23503"
	codeCheckViolation            = "23514"
	codeInvalidTextRepresentation = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err carries SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// IsForeignKeyViolation reports whether err carries SQLSTATE 23503.
func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// IsCheckViolation reports whether err carries SQLSTATE 23514.
func IsCheckViolation(err error) bool {
	return pgCode(err) == codeCheckViolation
}

// IsInvalidTextRepresentation reports whether err carries SQLSTATE 22P02,
// which PostgreSQL returns for a malformed uuid among other things.
func IsInvalidTextRepresentation(err error) bool {
	return pgCode(err) == codeInvalidTextRepresentation
}

// DBError wraps a driver error that has no more specific meaning for the
// caller. A value that cannot even be parsed for its column matches no row,
// so it is reported as common.ErrorNotFound.
func DBError(err error) error {
	if IsInvalidTextRepresentation(err) {
		return fmt.Errorf("%w: %v", common.ErrorNotFound, err)
	}
	return fmt.Errorf("db error: %w", err)
}
