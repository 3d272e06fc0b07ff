package service

import (
	"fmt"
	"strings"
)

// Некорректный или неполный ввод (400).
type ValidationError struct {
	Message       string
	MissingFields []string
}

func (e *ValidationError) Error() string { return e.Message }

func missingFieldsError(fields []string) *ValidationError {
	return &ValidationError{
		Message:       "missing required fields: " + strings.Join(fields, ", "),
		MissingFields: fields,
	}
}

// Дата занята или недопустимый переход статуса (409).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// 404
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InternalError — сбой хранилища. Наружу отдаём только общий текст,
// причина доступна через Unwrap для логов.
type InternalError struct {
	Op  string
	Err error
}

const internalErrorMessage = "internal error, please try again later"

func (e *InternalError) Error() string { return internalErrorMessage }

func (e *InternalError) Unwrap() error { return e.Err }

// Detail отдаёт полную причину для лога.
func (e *InternalError) Detail() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func dateAlreadyBooked() error {
	return &ConflictError{Message: "date already booked"}
}

func invalidTransition(from, to string) error {
	return &ConflictError{Message: fmt.Sprintf("invalid status transition: %s -> %s", from, to)}
}
