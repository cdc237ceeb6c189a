package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staybook/internal/app"
	"staybook/internal/metrics"
	"staybook/internal/ratelimit"
	"staybook/internal/session"
	"staybook/internal/util"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App            *app.App
	CookieSecure   bool
	AllowedOrigin  string
	TrustedProxies *util.TrustedProxies

	// Optional per-IP limiters for the credential endpoints.
	RegisterLimiter *ratelimit.FixedWindowLimiter
	LoginLimiter    *ratelimit.FixedWindowLimiter
}

// Server exposes the booking HTTP endpoints.
type Server struct {
	app             *app.App
	mux             *http.ServeMux
	cookieSecure    bool
	allowedOrigin   string
	trustedProxies  *util.TrustedProxies
	registerLimiter *ratelimit.FixedWindowLimiter
	loginLimiter    *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:             cfg.App,
		mux:             http.NewServeMux(),
		cookieSecure:    cfg.CookieSecure,
		allowedOrigin:   cfg.AllowedOrigin,
		trustedProxies:  cfg.TrustedProxies,
		registerLimiter: cfg.RegisterLimiter,
		loginLimiter:    cfg.LoginLimiter,
	}
	s.routes()
	return s
}

// Router returns the configured handler with middleware applied.
func (s *Server) Router() http.Handler {
	var h http.Handler = s.mux
	h = s.withMetrics(h)
	h = util.WithRequestLog(h)
	h = util.WithRequestID(h)
	h = util.WithCORS(s.allowedOrigin, h)
	h = util.WithSecurityHeaders(h)
	return h
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())

	// auth
	s.mux.HandleFunc("/api/auth/register", s.handleRegister)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/auth/logout", s.handleLogout)
	s.mux.Handle("/api/auth/check", s.authenticated(s.handleCheckSession))

	// hotels & bookings
	s.mux.HandleFunc("/api/hotels", s.handleHotels)
	s.mux.HandleFunc("/api/hotels/", s.handleHotelPath)
	s.mux.Handle("/api/bookings", s.authenticated(s.handleMyBookings))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth gate
type authHandler func(http.ResponseWriter, *http.Request, session.Claims)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		next(w, r, claims)
	})
}

// requireSession validates the cookie-carried credential. On failure it has
// already written the 401 response.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (session.Claims, bool) {
	token, ok := session.TokenFromRequest(r)
	if !ok {
		metrics.IncAuthFailure("missing_token")
		s.audit(r, "session.verify", "fail", "reason", "missing_token")
		writeError(w, http.StatusUnauthorized, "authentication required")
		return session.Claims{}, false
	}
	claims, err := s.app.Authenticate(token)
	if err != nil {
		metrics.IncAuthFailure("invalid_token")
		s.audit(r, "session.verify", "fail", "reason", "invalid_or_expired")
		s.writeAppError(w, r, err)
		return session.Claims{}, false
	}
	return claims, true
}

// auth handlers
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.registerLimiter, "too many registration attempts") {
		s.audit(r, "auth.register", "rate_limited")
		return
	}
	var req registerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := s.app.Register(req.Name, req.Email, req.Password)
	if err != nil {
		s.audit(r, "auth.register", "fail", "reason", app.Message(err))
		s.writeAppError(w, r, err)
		return
	}
	metrics.IncUserRegistered()
	s.audit(r, "auth.register", "success", "user_id", user.ID)
	session.SetCookie(w, token, s.app.SessionTTL(), s.cookieSecure)
	writeJSON(w, http.StatusCreated, userResponse{User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.loginLimiter, "too many login attempts") {
		s.audit(r, "auth.login", "rate_limited")
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := s.app.Login(req.Email, req.Password)
	if err != nil {
		metrics.IncAuthFailure("bad_credentials")
		s.audit(r, "auth.login", "fail", "reason", app.Message(err))
		s.writeAppError(w, r, err)
		return
	}
	s.audit(r, "auth.login", "success", "user_id", user.ID)
	session.SetCookie(w, token, s.app.SessionTTL(), s.cookieSecure)
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if token, ok := session.TokenFromRequest(r); ok {
		if err := s.app.Logout(token); err != nil {
			s.audit(r, "auth.logout", "fail", "reason", app.Message(err))
			s.writeAppError(w, r, err)
			return
		}
	}
	s.audit(r, "auth.logout", "success")
	session.ClearCookie(w, s.cookieSecure)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleCheckSession(w http.ResponseWriter, r *http.Request, claims session.Claims) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:    claims.UserID(),
		Name:  claims.Name,
		Email: claims.Email,
	})
}

// hotel handlers
func (s *Server) handleHotels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	hotels, err := s.app.ListHotels()
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotels)
}

// handleHotelPath serves /api/hotels/{id} and /api/hotels/{id}/book.
func (s *Server) handleHotelPath(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/hotels/")
	parts := strings.SplitN(path, "/", 2)
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "hotel not found")
		return
	}

	if len(parts) == 2 {
		if parts[1] != "book" {
			http.NotFound(w, r)
			return
		}
		s.handleCreateBooking(w, r, id)
		return
	}

	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	hotel, err := s.app.GetHotel(id)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request, hotelID int64) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	claims, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	var req app.BookingRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	booking, err := s.app.CreateBooking(claims.UserID(), hotelID, req)
	if err != nil {
		s.audit(r, "booking.create", "fail", "hotel_id", hotelID, "reason", app.Message(err))
		s.writeAppError(w, r, err)
		return
	}
	metrics.IncBookingCreated(string(booking.RoomType))
	s.audit(r, "booking.create", "success", "booking_id", booking.ID, "hotel_id", hotelID, "user_id", booking.UserID)
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleMyBookings(w http.ResponseWriter, r *http.Request, claims session.Claims) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	bookings, err := s.app.ListUserBookings(claims.UserID())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": bookings,
		"count": len(bookings),
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	User any `json:"user"`
}

type sessionResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// helpers
func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	if limiter == nil {
		return true
	}
	key := r.URL.Path + "|" + util.ClientIP(r, s.trustedProxies)
	if limiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", util.ClientIP(r, s.trustedProxies),
		"request_id", util.RequestIDFromRequest(r),
	}
	logAttrs = append(logAttrs, attrs...)
	if outcome == "success" {
		slog.Info("security_event", logAttrs...)
		return
	}
	slog.Warn("security_event", logAttrs...)
}

func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		util.LoggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeError(w, status, app.Message(err))
}

func statusFor(err error) int {
	switch app.KindOf(err) {
	case app.KindValidation:
		return http.StatusBadRequest
	case app.KindAuth:
		return http.StatusUnauthorized
	case app.KindConflict:
		return http.StatusConflict
	case app.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
