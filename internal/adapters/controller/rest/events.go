package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mainevents/server/internal/domain/dto"
)

const (
	defaultPageSize  = 20
	maxPageSize      = 100
	featuredPageSize = 10
)

func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= maxPageSize {
			limit = parsed
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

func (c *Controller) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateEvent
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body", nil)
		return
	}
	if err := c.validate.Struct(&body); err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	claims := claimsFromContext(r.Context())
	event, err := c.eventService.Create(r.Context(), claims.UserID, body)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewEventFromEntity(*event, false))
}

func (c *Controller) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	events, err := c.eventService.GetWithPagination(r.Context(), limit, offset, "start_time ASC")
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	views := make([]dto.Event, 0, len(events))
	for _, event := range events {
		views = append(views, dto.NewEventFromEntity(event, false))
	}
	respondJSON(w, http.StatusOK, views)
}

func (c *Controller) FeaturedEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.eventService.GetFeatured(r.Context(), featuredPageSize)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	views := make([]dto.Event, 0, len(events))
	for _, event := range events {
		views = append(views, dto.NewEventFromEntity(event, false))
	}
	respondJSON(w, http.StatusOK, views)
}

func (c *Controller) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	event, err := c.eventService.Get(r.Context(), eventID)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	isFavorite := false
	if claims := claimsFromContext(r.Context()); claims != nil {
		isFavorite, _ = c.eventService.IsFavorite(r.Context(), eventID, claims.UserID)
	}
	respondJSON(w, http.StatusOK, dto.NewEventFromEntity(*event, isFavorite))
}

func (c *Controller) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var body dto.UpdateEvent
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body", nil)
		return
	}
	if err := c.validate.Struct(&body); err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	claims := claimsFromContext(r.Context())
	event, err := c.eventService.Update(r.Context(), chi.URLParam(r, "id"), claims.UserID, body)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewEventFromEntity(*event, false))
}

func (c *Controller) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if err := c.eventService.Delete(r.Context(), chi.URLParam(r, "id"), claims.UserID); err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (c *Controller) CancelEvent(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	event, err := c.eventService.Cancel(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewEventFromEntity(*event, false))
}

func (c *Controller) Attend(w http.ResponseWriter, r *http.Request) {
	var body dto.Attend
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body", nil)
		return
	}
	if err := c.validate.Struct(&body); err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	claims := claimsFromContext(r.Context())
	event, err := c.attendanceService.Attend(r.Context(), chi.URLParam(r, "id"), claims.UserID, body.Quantity)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.AttendResult{
		EventID:   event.ID,
		Quantity:  body.Quantity,
		Attending: event.Attending,
		Available: event.Available(),
	})
}

func (c *Controller) CancelAttendance(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	event, err := c.attendanceService.Cancel(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.AttendResult{
		EventID:   event.ID,
		Attending: event.Attending,
		Available: event.Available(),
	})
}

func (c *Controller) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var body dto.Favorite
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body", nil)
		return
	}
	if err := c.validate.Struct(&body); err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	claims := claimsFromContext(r.Context())
	favorited, err := c.eventService.ToggleFavorite(r.Context(), body.EventID, claims.UserID)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.FavoriteResult{EventID: body.EventID, Favorited: favorited})
}

func (c *Controller) CreateComment(w http.ResponseWriter, r *http.Request) {
	var body dto.Comment
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body", nil)
		return
	}
	if err := c.validate.Struct(&body); err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	claims := claimsFromContext(r.Context())
	comment, err := c.eventService.Comment(r.Context(), body.EventID, claims.UserID, body.Text)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewCommentFromEntity(*comment))
}

func (c *Controller) ListComments(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	comments, err := c.eventService.GetComments(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	views := make([]dto.CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, dto.NewCommentFromEntity(comment))
	}
	respondJSON(w, http.StatusOK, views)
}

func (c *Controller) TicketQR(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	png, err := c.attendanceService.TicketQR(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (c *Controller) ExportAttendees(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	eventID := chi.URLParam(r, "id")
	buf, err := c.attendanceService.ExportAttendees(r.Context(), eventID, claims.UserID)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=attendees-%s.xlsx", eventID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
