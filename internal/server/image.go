package server

import (
	"net/http"

	"github.com/easelkit/easel/pkg/errors"
)

// handleImage handles GET /api/image?url=.
//
// The image is served through the content cache: hits and successful
// fetches deliver pixel bytes directly; the infallible fallback answers
// with a redirect to the raw locator so the client can load it natively.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if err := errors.ValidateURL(url); err != nil {
		s.respondError(w, err)
		return
	}

	img := <-s.cache.Get(r.Context(), url)
	if img.Remote {
		http.Redirect(w, r, img.URL, http.StatusFound)
		return
	}

	mime := img.MIME
	if mime == "" {
		mime = http.DetectContentType(img.Data)
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}
