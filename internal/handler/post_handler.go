package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"postboard/internal/model"
	"postboard/internal/service"
)

type PostHandler struct {
	service *service.PostService
}

func NewPostHandler(service *service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := h.service.Feed(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.FeedResponse{Posts: items})
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.PostContentRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.service.Create(r.Context(), id, payload.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, post)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, post)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.PostContentRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.service.Update(r.Context(), id, chi.URLParam(r, "id"), payload.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	postID := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id, postID); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"id": postID})
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.service.ToggleLike(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}
