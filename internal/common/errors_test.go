package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrNotFound, http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrBadRequest, http.StatusBadRequest},
		{ErrValidation, http.StatusBadRequest},
		{ErrInvalidTestCases, http.StatusBadRequest},
		{ErrUnsupportedLanguage, http.StatusBadRequest},
		{ErrConflict, http.StatusConflict},
		{ErrJudgeUnavailable, http.StatusServiceUnavailable},
		{ErrJudgeTimeout, http.StatusServiceUnavailable},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatusFromError(c.err))
	}
}

func TestHTTPStatusFromWrappedError(t *testing.T) {
	err := fmt.Errorf("problem not found: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatusFromError(err))
}

func TestTestCaseFailedError(t *testing.T) {
	err := &TestCaseFailedError{Language: "PYTHON", TestCase: 3}

	assert.Equal(t, "testcase 3 failed for language PYTHON", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, http.StatusBadRequest, HTTPStatusFromError(err))
}
