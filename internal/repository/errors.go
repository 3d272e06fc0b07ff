package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// Дата уже занята активной бронью (сработал частичный уникальный индекс).
	ErrActiveBookingExists = errors.New("active booking already exists for this date")
	// Параллельный запрос успел создать клиента с тем же email.
	ErrCustomerExists = errors.New("customer with this email already exists")
)

const pgUniqueViolation = "23505"

// isUniqueViolation распознаёт нарушение уникальности для обоих драйверов.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
