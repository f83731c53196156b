package ui

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yated/yated-sheets/ui/assets"
)

// NewRouter returns the HTTP handler for the UI, with request logging and panic recovery.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	MountRoutes(r, h)

	return r
}

func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/healthz", h.Healthz)

	staticFS, err := fs.Sub(assets.StaticFS(), "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	r.Group(func(r chi.Router) {
		r.Use(h.EnsureCSRFToken)
		r.Use(h.RequireCSRF)
		r.Get("/", h.Index)
		r.Get("/export.csv", h.Export)
		r.Post("/rows", h.AppendRow)
	})
}
