package handlers

import (
	"net/http"

	"github.com/pribylovaa/go-task-tracker/internal/transport/http/httperr"
)

// Register регистрирует пользователя и возвращает проекцию {id,email}
// вместе с парой токенов.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteCode(w, r, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	user, pair, err := h.service.RegisterUser(r.Context(), in.Email, in.Password)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Login аутентифицирует пользователя и возвращает новую пару токенов.
// Прежние пары остаются валидными до своего истечения.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteCode(w, r, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	user, pair, err := h.service.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh выпускает новую пару токенов по refresh-токену.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteCode(w, r, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	pair, err := h.service.RefreshTokens(r.Context(), in.RefreshToken)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout — stateless no-op на сервере: списков отзыва нет, контракт в том,
// что клиент выбрасывает свою пару токенов.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}
