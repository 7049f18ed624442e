package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// esViolacionUnica reports whether err is a PostgreSQL unique_violation (23505).
// gorm.ErrDuplicatedKey covers connections opened with TranslateError.
func esViolacionUnica(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// ErrDuplicado is returned when an insert or update collides with a unique index.
var ErrDuplicado = errors.New("registro duplicado")

func traducirError(err error) error {
	if err != nil && esViolacionUnica(err) {
		return ErrDuplicado
	}
	return err
}
