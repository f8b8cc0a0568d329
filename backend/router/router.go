package router

import (
	"net/http"
	"storyhub/backend/app/controllers"
	"storyhub/backend/app/middleware"
)

type Controllers struct {
	HTTP    *controllers.HTTPController
	Auth    *controllers.AuthController
	Stories *controllers.StoryController
	// Uploads is nil when object storage is disabled.
	Uploads *controllers.UploadController
}

func NewRouter(c Controllers, mw *middleware.Auth) http.Handler {
	mux := http.NewServeMux()
	handle := func(method, path string, h http.Handler) {
		// served both at the root and under /api
		for _, prefix := range []string{"", "/api"} {
			pattern := method + " " + prefix + path
			mux.Handle(pattern, middleware.WithRoute(pattern, h))
		}
	}

	// public
	handle(http.MethodGet, "/ping", http.HandlerFunc(c.HTTP.Ping))
	handle(http.MethodPost, "/auth/register", http.HandlerFunc(c.Auth.Register))
	handle(http.MethodPost, "/auth/login", http.HandlerFunc(c.Auth.Login))
	handle(http.MethodGet, "/stories/public", http.HandlerFunc(c.Stories.Public))
	handle(http.MethodGet, "/stories/{id}", mw.Optional(http.HandlerFunc(c.Stories.Get)))

	// authenticated
	handle(http.MethodGet, "/auth/me", mw.RequireAuth(http.HandlerFunc(c.Auth.Me)))
	handle(http.MethodPut, "/auth/password", mw.RequireAuth(http.HandlerFunc(c.Auth.ChangePassword)))
	handle(http.MethodPost, "/auth/logout", mw.RequireAuth(http.HandlerFunc(c.Auth.Logout)))
	handle(http.MethodPost, "/stories", mw.RequireAuth(http.HandlerFunc(c.Stories.Create)))
	handle(http.MethodGet, "/stories/my", mw.RequireAuth(http.HandlerFunc(c.Stories.Mine)))
	handle(http.MethodPost, "/stories/{id}/like", mw.RequireAuth(http.HandlerFunc(c.Stories.Like)))
	if c.Uploads != nil {
		handle(http.MethodPost, "/uploads", mw.RequireAuth(http.HandlerFunc(c.Uploads.Image)))
	}

	// admin-only
	handle(http.MethodGet, "/stories/pending", mw.RequireAdmin(http.HandlerFunc(c.Stories.Pending)))
	handle(http.MethodPut, "/stories/{id}/moderate", mw.RequireAdmin(http.HandlerFunc(c.Stories.Moderate)))

	return mux
}
