package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/fplmetric/fplmetric/internal/usecase"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: max_cost must be a number", usecase.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantReason: "invalidInput",
		},
		{
			name:       "not found",
			err:        usecase.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantReason: "notFound",
		},
		{
			name:       "unauthorized",
			err:        usecase.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantReason: "unauthorized",
		},
		{
			name:       "source unavailable survives wrapping",
			err:        crerr.Wrap(usecase.ErrSourceUnavailable, "fetch bootstrap"),
			wantStatus: http.StatusServiceUnavailable,
			wantReason: "sourceUnavailable",
		},
		{
			name:       "unknown error is internal",
			err:        crerr.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantReason: "internalError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapError(tt.err)
			require.Equal(t, tt.wantStatus, mapped.HTTPStatus)
			require.Equal(t, tt.wantReason, mapped.Reason)
		})
	}
}

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: player 42", usecase.ErrNotFound))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	envelope := decodeEnvelope(t, rec.Body.Bytes())
	require.NotNil(t, envelope.Error)
	require.Equal(t, http.StatusNotFound, envelope.Error.Code)
	require.Equal(t, "NOT_FOUND", envelope.Error.Status)
	require.Len(t, envelope.Error.Errors, 1)
	require.Equal(t, errorDomain, envelope.Error.Errors[0].Domain)
}

func TestWriteInternalError_HidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeInternalError(context.Background(), rec)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decodeEnvelope(t, rec.Body.Bytes())
	require.NotNil(t, envelope.Error)
	require.Equal(t, "internal server error", envelope.Error.Message)
}
