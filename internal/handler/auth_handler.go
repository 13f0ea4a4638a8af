package handler

import (
	"net/http"

	"postboard/internal/model"
	"postboard/internal/service"
)

type AuthHandler struct {
	service *service.AuthService
	cookies *SessionCookies
}

func NewAuthHandler(service *service.AuthService, cookies *SessionCookies) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.cookies.Set(w, session.Token)
	writeSuccess(w, http.StatusCreated, session)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.cookies.Set(w, session.Token)
	writeSuccess(w, http.StatusOK, session)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.cookies.Clear(w)
	writeSuccess(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.Me(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}
