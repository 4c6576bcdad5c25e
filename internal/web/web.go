// Package web embeds the static query page served alongside the API.
package web

import (
	"embed"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed static
var assets embed.FS

// RegisterRoutes mounts the static assets on the router.
func RegisterRoutes(r chi.Router) {
	r.Get("/", serveAsset("static/index.html", "text/html; charset=utf-8"))
	r.Get("/index.css", serveAsset("static/index.css", "text/css; charset=utf-8"))
	r.Get("/query.js", serveAsset("static/query.js", "text/javascript; charset=utf-8"))
}

func serveAsset(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := assets.ReadFile(name)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(data)
	}
}
