package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("requested resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden access")
	ErrBadRequest     = errors.New("bad request")
	ErrConflict       = errors.New("resource conflict") // e.g., email already registered
	ErrInternalServer = errors.New("internal server error")
	ErrValidation     = errors.New("validation failed")

	ErrInvalidTestCases    = errors.New("invalid or missing test cases")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrJudgeUnavailable    = errors.New("judge service unavailable")
	ErrJudgeTimeout        = errors.New("timed out waiting for judge results")
)

// TestCaseFailedError reports which reference solution run failed during
// problem authoring validation. TestCase is 1-based.
type TestCaseFailedError struct {
	Language string
	TestCase int
}

func (e *TestCaseFailedError) Error() string {
	return fmt.Sprintf("testcase %d failed for language %s", e.TestCase, e.Language)
}

func (e *TestCaseFailedError) Unwrap() error {
	return ErrValidation
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidTestCases),
		errors.Is(err, ErrUnsupportedLanguage):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrJudgeUnavailable), errors.Is(err, ErrJudgeTimeout):
		return http.StatusServiceUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" { // unique violation
			return http.StatusConflict
		}
	}

	return http.StatusInternalServerError
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
