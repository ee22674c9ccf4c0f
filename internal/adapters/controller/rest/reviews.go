package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mainevents/server/internal/domain/dto"
)

func (c *Controller) CreateReview(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateReview
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body", nil)
		return
	}
	if err := c.validate.Struct(&body); err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	claims := claimsFromContext(r.Context())
	review, err := c.reviewService.Create(r.Context(), claims.UserID, body)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewReviewFromEntity(*review))
}

func (c *Controller) ListReviews(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	reviews, err := c.reviewService.GetByEventID(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	views := make([]dto.Review, 0, len(reviews))
	for _, review := range reviews {
		views = append(views, dto.NewReviewFromEntity(review))
	}
	respondJSON(w, http.StatusOK, views)
}
