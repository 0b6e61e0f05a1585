package postgres

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registra el dialecto postgres
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Piecework-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation  = "23505"
	codeCheckViolation   = "23514"
	codeLockNotAvailable = "55P03"
	codeDeadlockDetected = "40P01"
	codeQueryCanceled    = "57014"
)

var dialect = goqu.Dialect("postgres")

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}

func isCheckViolation(err error) bool {
	return pgErrorCode(err) == codeCheckViolation
}

// classifyTxError traduce timeouts de lock, deadlocks y cancelaciones por statement_timeout
// a domain.ErrRetryable; el resto se devuelve tal cual.
func classifyTxError(err error) error {
	switch pgErrorCode(err) {
	case codeLockNotAvailable, codeDeadlockDetected, codeQueryCanceled:
		return fmt.Errorf("%w: %w", domain.ErrRetryable, err)
	}
	return err
}

// variantCond condición canónica de variante: NULL es "sin variante".
func variantCond(variant *string) exp.Expression {
	if variant == nil {
		return goqu.C("variant").IsNull()
	}
	return goqu.C("variant").Eq(*variant)
}
