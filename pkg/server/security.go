package server

import (
	"net/http"
	"strings"
)

const releaseProduction = "production"

// securityHeadersMiddleware sets the headers every response carries. HSTS is
// only sent in production since staging may be served over plain http.
func (s *Server) securityHeadersMiddleware(next http.Handler) http.Handler {
	hsts := s.release == "" || s.release == releaseProduction
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if hsts {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		// the API only serves JSON
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if strings.HasPrefix(r.URL.Path, "/api/") {
			h.Set("Cache-Control", "no-store")
		}

		next.ServeHTTP(w, r)
	})
}
