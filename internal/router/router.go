package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"postboard/internal/config"
	"postboard/internal/handler"
	"postboard/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Posts  *handler.PostHandler
	Pages  *handler.PageHandler
	Live   *handler.LiveHandler
	Health *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", h.Health.Health)

	// The websocket stays outside the timeout wrapper, which cannot hijack.
	r.With(authMiddleware.RequireAuth(http.HandlerFunc(middleware.UnauthorizedJSON))).Get("/ws", h.Live.Serve)

	r.Group(func(site chi.Router) {
		site.Use(middleware.PageTimeout(cfg.RequestTimeout))

		site.Get("/unauthorized", h.Pages.Unauthorized)
		site.Get("/logout", h.Pages.Logout)

		site.Group(func(guest chi.Router) {
			guest.Use(authMiddleware.GuestOnly)
			guest.Get("/", h.Pages.Index)
			guest.Get("/login", h.Pages.LoginForm)
			guest.Post("/register", h.Pages.Register)
			guest.Post("/login", h.Pages.Login)
		})

		site.Group(func(member chi.Router) {
			member.Use(authMiddleware.RequireAuth(http.HandlerFunc(h.Pages.LoginRequired)))
			member.Get("/profile", h.Pages.Profile)
			member.Get("/create", h.Pages.CreateForm)
			member.Post("/post", h.Pages.CreatePost)
			member.Get("/feed", h.Pages.Feed)
			member.Post("/like/{id}", h.Pages.Like)
			member.Get("/edit/{id}", h.Pages.EditForm)
			member.Post("/update/{id}", h.Pages.Update)
			member.Post("/delete/{id}", h.Pages.Delete)
		})
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		requireAuth := authMiddleware.RequireAuth(http.HandlerFunc(middleware.UnauthorizedJSON))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.Post("/logout", h.Auth.Logout)
			auth.With(requireAuth).Get("/me", h.Auth.Me)
		})

		api.With(requireAuth).Get("/feed", h.Posts.Feed)
		api.With(requireAuth).Post("/posts", h.Posts.Create)
		api.With(requireAuth).Get("/posts/{id}", h.Posts.Get)
		api.With(requireAuth).Put("/posts/{id}", h.Posts.Update)
		api.With(requireAuth).Delete("/posts/{id}", h.Posts.Delete)
		api.With(requireAuth).Post("/posts/{id}/like", h.Posts.Like)
	})

	return r
}
