//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
)

// Handler serves assets straight from the source tree.
func Handler() http.Handler {
	dir := SourceDir()
	slog.Info("static assets served from filesystem", "path", dir)

	fileServer := http.StripPrefix(urlPrefix, http.FileServer(http.FS(os.DirFS(dir))))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		fileServer.ServeHTTP(w, r)
	})
}

func version(string) string { return "" }
