package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/pkg/logger/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestRespondServiceError(t *testing.T) {
	log := &types.Logger{SugaredLogger: zap.NewNop().Sugar()}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"forbidden", errorz.ErrForbidden, http.StatusForbidden},
		{"not attending", errorz.ErrNotAttending, http.StatusForbidden},
		{"event not active", errorz.ErrEventNotActive, http.StatusBadRequest},
		{"own event", errorz.ErrOwnEvent, http.StatusBadRequest},
		{"bad transition", errorz.ErrBadTransition, http.StatusBadRequest},
		{"email taken", errorz.ErrEmailTaken, http.StatusConflict},
		{"already reviewed", errorz.ErrAlreadyReviewed, http.StatusConflict},
		{"duplicated key", gorm.ErrDuplicatedKey, http.StatusConflict},
		{"invalid credentials", errorz.ErrInvalidCredentials, http.StatusUnauthorized},
		{"token revoked", errorz.ErrTokenRevoked, http.StatusUnauthorized},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, log, tt.err)
			if rec.Code != tt.want {
				t.Fatalf("status=%d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRespondCapacityErrorDetails(t *testing.T) {
	log := &types.Logger{SugaredLogger: zap.NewNop().Sugar()}

	rec := httptest.NewRecorder()
	respondServiceError(rec, log, &errorz.CapacityError{Available: 3})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rec.Code)
	}

	var body struct {
		Error   string         `json:"error"`
		Details map[string]int `json:"details"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Details["available"] != 3 {
		t.Fatalf("details=%v, want available=3", body.Details)
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	log := &types.Logger{SugaredLogger: zap.NewNop().Sugar()}

	rec := httptest.NewRecorder()
	respondServiceError(rec, log, errors.New("pq: column secret does not exist"))

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "internal server error" {
		t.Fatalf("error=%q, internals must not leak", body.Error)
	}
}
