package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fekuna/trimstore-service/internal/handlerutils"
	"github.com/fekuna/trimstore-service/internal/servererrors"
	"github.com/fekuna/trimstore-service/pkg/logger"
)

func TestErrorHandler(t *testing.T) {
	mw := NewMiddleware(logger.NewNopLogger())

	tests := []struct {
		name     string
		handler  handlerutils.APIHandler
		wantCode int
		wantBody string
	}{
		{
			name: "success passes through",
			handler: func(w http.ResponseWriter, r *http.Request) error {
				return handlerutils.WriteSuccessJSON(w, http.StatusOK, "ok", map[string]int{"n": 1})
			},
			wantCode: http.StatusOK,
			wantBody: `{"success":true,"message":"ok","data":{"n":1}}`,
		},
		{
			name: "client error keeps message",
			handler: func(w http.ResponseWriter, r *http.Request) error {
				return servererrors.New(http.StatusUnprocessableEntity, "validation failed", []string{"name"})
			},
			wantCode: http.StatusUnprocessableEntity,
			wantBody: `{"success":false,"message":"validation failed","errors":["name"]}`,
		},
		{
			name: "unknown error is hidden",
			handler: func(w http.ResponseWriter, r *http.Request) error {
				return errors.New("pq: connection refused")
			},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"success":false,"message":"something went wrong"}`,
		},
		{
			name: "server error keeps status without details",
			handler: func(w http.ResponseWriter, r *http.Request) error {
				return servererrors.New(http.StatusServiceUnavailable, "service busy, try again", "lock")
			},
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"success":false,"message":"service busy, try again"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mw.ErrorHandler(tt.handler)(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
