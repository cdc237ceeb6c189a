package server

import (
	"net/http"
	"strconv"
	"strings"

	"staybook/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

// withMetrics counts requests by normalized route and status.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		metrics.IncHTTPRequest(normalizeRoute(r.URL.Path), strconv.Itoa(status))
	})
}

// normalizeRoute collapses path parameters so metric labels stay bounded.
func normalizeRoute(path string) string {
	if rest, ok := strings.CutPrefix(path, "/api/hotels/"); ok && rest != "" {
		if strings.HasSuffix(rest, "/book") {
			return "/api/hotels/:id/book"
		}
		return "/api/hotels/:id"
	}
	return path
}
