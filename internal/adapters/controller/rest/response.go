package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/pkg/logger/types"
	"gorm.io/gorm"
)

type errorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string, details interface{}) {
	respondJSON(w, status, errorResponse{Error: message, Details: details})
}

// respondServiceError maps domain errors onto the HTTP error taxonomy:
// validation 400, not-found 404, forbidden 403, conflict 409, anything
// unrecognized 500.
func respondServiceError(w http.ResponseWriter, logger *types.Logger, err error) {
	if capErr, ok := errorz.AsCapacityError(err); ok {
		respondError(w, http.StatusBadRequest, "capacity exceeded", map[string]int{"available": capErr.Available})
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]string, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details[fieldErr.Field()] = fieldErr.Tag()
		}
		respondError(w, http.StatusBadRequest, "validation failed", details)
		return
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, errorz.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, errorz.ErrForbidden), errors.Is(err, errorz.ErrNotAttending):
		respondError(w, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, errorz.ErrEventNotActive), errors.Is(err, errorz.ErrOwnEvent),
		errors.Is(err, errorz.ErrBadTransition):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, errorz.ErrEmailTaken), errors.Is(err, errorz.ErrAlreadyReviewed),
		errors.Is(err, gorm.ErrDuplicatedKey):
		respondError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, errorz.ErrInvalidCredentials), errors.Is(err, errorz.ErrTokenRevoked):
		respondError(w, http.StatusUnauthorized, err.Error(), nil)
	default:
		logger.Errorf("unhandled error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}
