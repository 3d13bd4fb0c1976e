package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorCode standardizes storage failure semantics for the service layer.
type ErrorCode string

const (
	CodeNotFound  ErrorCode = "not_found"
	CodeConflict  ErrorCode = "conflict"
	CodeRetryable ErrorCode = "retryable"
	CodeInternal  ErrorCode = "internal"
)

// Error is the canonical storage error wrapper.
type Error struct {
	Code  ErrorCode
	Op    string
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s (%s)", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Op, e.Cause, e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

// IsCode checks whether err (or a wrapped err) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code, or "" when err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// MapError maps gorm/pgx failures onto error codes.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	wrap := func(code ErrorCode) error { return &Error{Code: code, Op: strings.TrimSpace(op), Cause: err} }

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return wrap(CodeNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return wrap(CodeConflict)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return wrap(CodeRetryable)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return wrap(CodeConflict) // unique_violation
		case "40001", "40P01", "55P03":
			return wrap(CodeRetryable) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		return wrap(CodeConflict)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "timeout"):
		return wrap(CodeRetryable)
	default:
		return wrap(CodeInternal)
	}
}
