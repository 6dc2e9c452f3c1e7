package server

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed assets/viewer.html
var assets embed.FS

var viewerTmpl = template.Must(template.ParseFS(assets, "assets/viewer.html"))

// handleViewer serves the single-page hierarchy browser. All data comes
// from the JSON API; the page itself is static except for the default
// version baked in at render time.
func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := viewerTmpl.Execute(w, struct {
		DefaultVersion string
	}{
		DefaultVersion: s.defaultVersion,
	})
	if err != nil {
		s.logger.Error("render viewer", "err", err)
	}
}
