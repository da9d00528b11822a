// Package assets serves player photos over plain HTTP for the
// broadcast tooling, under a fixed path prefix with a liveness probe.
package assets

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// PathPrefix is the fixed URL prefix the titling tools are pointed at.
const PathPrefix = "/Players/"

// NewHandler serves the photo directory under PathPrefix plus a
// /health probe, wrapped with permissive CORS so browser-based overlays
// can load the images cross-origin.
func NewHandler(dir string) http.Handler {
	mux := http.NewServeMux()

	fileServer := http.StripPrefix(PathPrefix, http.FileServer(http.Dir(dir)))
	mux.Handle(PathPrefix, fileServer)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	log.Info().Str("dir", dir).Str("prefix", PathPrefix).Msg("serving player photos")
	return cors.AllowAll().Handler(mux)
}
