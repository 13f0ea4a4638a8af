package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"postboard/internal/auth"
	"postboard/internal/model"
	"postboard/internal/service"
	"postboard/internal/view"
	"postboard/pkg/apierror"
)

// PageHandler serves the server-rendered site. Failures are rendered as
// pages rather than JSON envelopes.
type PageHandler struct {
	auth    *service.AuthService
	posts   *service.PostService
	cookies *SessionCookies
	views   *view.Renderer
}

func NewPageHandler(auth *service.AuthService, posts *service.PostService, cookies *SessionCookies, views *view.Renderer) *PageHandler {
	return &PageHandler{auth: auth, posts: posts, cookies: cookies, views: views}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.PageIndex, view.Data{Title: "Register"})
}

func (h *PageHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.PageLogin, view.Data{Title: "Log in"})
}

func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, apierror.BadRequest("invalid form", ""))
		return
	}

	age := 0
	if raw := strings.TrimSpace(r.PostFormValue("age")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.renderError(w, r, apierror.BadRequest("age must be a number", raw))
			return
		}
		age = parsed
	}

	session, err := h.auth.Register(r.Context(), model.RegisterRequest{
		Username: r.PostFormValue("username"),
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Age:      age,
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.cookies.Set(w, session.Token)
	http.Redirect(w, r, "/feed", http.StatusSeeOther)
}

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, apierror.BadRequest("invalid form", ""))
		return
	}

	session, err := h.auth.Login(r.Context(), model.LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.cookies.Set(w, session.Token)
	http.Redirect(w, r, "/feed", http.StatusSeeOther)
}

func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginRequired is the deny handler for protected pages.
func (h *PageHandler) LoginRequired(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusUnauthorized, view.PageLoginRequired, view.Data{Title: "Log in required"})
}

func (h *PageHandler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusForbidden, view.PageUnauthorized, view.Data{Title: "Not allowed"})
}

func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	profile, err := h.posts.Profile(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, view.PageProfile, view.Data{
		Title:    profile.User.Name,
		ViewerID: id.UserID,
		Profile:  profile,
	})
}

func (h *PageHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, view.PageCreate, view.Data{
		Title:     "New post",
		ViewerID:  id.UserID,
		MaxLength: h.posts.MaxLength(),
	})
}

func (h *PageHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if _, err := h.posts.Create(r.Context(), id, r.PostFormValue("content")); err != nil {
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *PageHandler) Feed(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	items, err := h.posts.Feed(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, view.PageFeed, view.Data{
		Title:    "Feed",
		ViewerID: id.UserID,
		Feed:     items,
	})
}

// Like toggles the caller's like. A missing post sends the caller back to
// the feed rather than to an error page.
func (h *PageHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	_, err = h.posts.ToggleLike(r.Context(), id, chi.URLParam(r, "id"))
	if errors.Is(err, model.ErrPostNotFound) {
		http.Redirect(w, r, "/feed", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	target := "/profile"
	if r.URL.Query().Get("from") == "feed" {
		target = "/feed"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *PageHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	post, err := h.posts.Owned(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, view.PageEdit, view.Data{
		Title:     "Edit post",
		ViewerID:  id.UserID,
		Post:      post,
		MaxLength: h.posts.MaxLength(),
	})
}

func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if _, err := h.posts.Update(r.Context(), id, chi.URLParam(r, "id"), r.PostFormValue("content")); err != nil {
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if err := h.posts.Delete(r.Context(), id, chi.URLParam(r, "id")); err != nil {
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// renderError picks the page for a failure. Both login failure causes land on
// the same page with the same status.
func (h *PageHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		h.LoginRequired(w, r)
	case errors.Is(err, auth.ErrForbidden):
		h.Unauthorized(w, r)
	case errors.Is(err, model.ErrInvalidCredentials):
		h.render(w, r, http.StatusUnauthorized, view.PageLoginError, view.Data{Title: "Login failed"})
	case errors.Is(err, model.ErrUserAlreadyExists):
		h.render(w, r, http.StatusConflict, view.PageUserExist, view.Data{Title: "Account exists"})
	default:
		status, body := classify(r, err)
		data := view.Data{Title: "Error"}
		if status < http.StatusInternalServerError {
			data.Message = body.Message
			if body.Details != "" {
				data.Message += " (" + body.Details + ")"
			}
		}
		h.render(w, r, status, view.PageError, data)
	}
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data view.Data) {
	if err := h.views.Render(w, status, page, data); err != nil {
		slog.Error("render page", "page", page, "error", err.Error(), "path", r.URL.Path)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
