package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/airrush/charter-api/internal/core/domain"
)

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"cargo not found", domain.ErrCargoNotFound, http.StatusNotFound},
		{"passenger not found", domain.ErrPassengerNotFound, http.StatusNotFound},
		{"missing field", fmt.Errorf("%w: origin is required", domain.ErrMissingRequiredField), http.StatusBadRequest},
		{"missing location", domain.ErrMissingLocation, http.StatusBadRequest},
		{"invalid checkpoint", domain.ErrInvalidCheckpoint, http.StatusBadRequest},
		{"invalid transition", fmt.Errorf("%w: from Arrived to Booked", domain.ErrInvalidTransition), http.StatusUnprocessableEntity},
		{"invalid state", domain.ErrInvalidState, http.StatusConflict},
		{"receipt refused", domain.ErrReceiptNotAllowed, http.StatusConflict},
		{"version conflict", domain.ErrConflict, http.StatusConflict},
		{"echo error", echo.NewHTTPError(http.StatusTeapot, "teapot"), http.StatusTeapot},
		{"unexpected", fmt.Errorf("mongo exploded"), http.StatusInternalServerError},
	}

	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/cargo/track/x", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["error"] == "" {
				t.Fatal("error envelope must carry a message")
			}
		})
	}
}

func TestHTTPErrorHandler_HidesInternalDetails(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(fmt.Errorf("dial tcp 10.0.0.3:27017: connection refused"), c)

	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["error"] != "internal server error" {
		t.Fatalf("internal detail leaked: %q", resp["error"])
	}
}
