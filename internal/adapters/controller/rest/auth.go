package rest

import (
	"encoding/json"
	"net/http"

	"github.com/mainevents/server/internal/domain/dto"
)

func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	var body dto.Register
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body", nil)
		return
	}
	if err := c.validate.Struct(&body); err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	user, err := c.userService.Register(r.Context(), body)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	token, err := c.jwt.Generate(user)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	http.SetCookie(w, c.jwt.authCookie(token))
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"user":  dto.NewUserFromEntity(*user),
		"token": token,
	})
}

func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	var body dto.Login
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body", nil)
		return
	}
	if err := c.validate.Struct(&body); err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	user, err := c.userService.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	token, err := c.jwt.Generate(user)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	http.SetCookie(w, c.jwt.authCookie(token))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":  dto.NewUserFromEntity(*user),
		"token": token,
	})
}

func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	c.jwt.Revoke(r.Context(), claims)
	http.SetCookie(w, c.jwt.clearCookie())
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	user, err := c.userService.Get(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewUserFromEntity(*user))
}

func (c *Controller) LinkTelegram(w http.ResponseWriter, r *http.Request) {
	var body dto.LinkTelegram
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body", nil)
		return
	}
	if err := c.validate.Struct(&body); err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	claims := claimsFromContext(r.Context())
	if _, err := c.userService.LinkTelegram(r.Context(), claims.UserID, body.ChatID); err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "linked"})
}
