package http

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

const shellIndex = "index.html"

// loadShell opens dir as the client build. It returns nil when dir is unset
// or has no index.html.
func loadShell(dir string) fs.FS {
	if dir == "" {
		return nil
	}
	fsys := os.DirFS(dir)
	if _, err := fs.Stat(fsys, shellIndex); err != nil {
		return nil
	}
	return fsys
}

// handleShell serves the client build. Unknown paths get index.html so the
// client router can resolve them; unknown /api/ paths get a JSON 404.
func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		NotFoundError("Not found").Write(w)
		return
	}

	if s.shell == nil {
		NewJSONResponse().
			Payload(map[string]string{
				"message":  "ur-money API is running. Build the client app to see the UI.",
				"api_docs": "/api/health",
			}).
			Write(w)
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name != "" && name != shellIndex {
		if info, err := fs.Stat(s.shell, name); err == nil && !info.IsDir() {
			http.ServeFileFS(w, r, s.shell, name)
			return
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			InternalServerError(err.Error()).Write(w)
			return
		}
		if strings.HasPrefix(name, "static/") {
			http.NotFound(w, r)
			return
		}
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFileFS(w, r, s.shell, shellIndex)
}
