package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pribylovaa/go-task-tracker/internal/service"

	"github.com/stretchr/testify/require"
)

func TestToHTTP_Mapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{service.ErrInvalidEmail, http.StatusBadRequest, "validation_error"},
		{service.ErrWeakPassword, http.StatusBadRequest, "validation_error"},
		{service.ErrInvalidTitle, http.StatusBadRequest, "validation_error"},
		{service.ErrEmailTaken, http.StatusBadRequest, "email_taken"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{service.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
		{service.ErrTaskNotFound, http.StatusNotFound, "not_found"},
		{errors.New("db down"), http.StatusInternalServerError, "internal"},
		{nil, http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		status, resp := ToHTTP(tc.err)
		require.Equal(t, tc.status, status, "err=%v", tc.err)
		require.Equal(t, tc.code, resp.Error.Code, "err=%v", tc.err)
	}
}

// TestToHTTP_WrappedError — маппинг работает по errors.Is через цепочку %w.
func TestToHTTP_WrappedError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("service.tasks.TaskByID: %w", service.ErrTaskNotFound)
	status, resp := ToHTTP(wrapped)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "not_found", resp.Error.Code)
}

func TestWriteError_RequestIDPropagated(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("X-Request-Id", "rid-123")

	rec := httptest.NewRecorder()
	WriteError(rec, req, service.ErrTaskNotFound)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), `"request_id":"rid-123"`)
	require.Contains(t, rec.Body.String(), `"code":"not_found"`)
}
