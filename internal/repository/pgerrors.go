package repository

import (
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pesio-ai/be-plt-settings/internal/platform/errors"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
