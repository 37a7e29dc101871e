package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/dreschagin/rai-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

const sessionTTL = 12 * time.Hour

// AuthAPIHandler вход по статическому токену и статус сессии
type AuthAPIHandler struct {
	auth   middleware.AuthConfig
	logger *logger.Logger
}

type loginRequest struct {
	Token string `json:"token"`
}

type authResponse struct {
	Success       bool  `json:"success,omitempty"`
	AuthEnabled   bool  `json:"auth_enabled"`
	Authenticated *bool `json:"authenticated,omitempty"`
	CookiePresent *bool `json:"cookie_present,omitempty"`
}

func NewAuthAPIHandler(auth middleware.AuthConfig, log *logger.Logger) *AuthAPIHandler {
	return &AuthAPIHandler{auth: auth, logger: log}
}

// Login POST /api/v1/auth/login
func (h *AuthAPIHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.auth.Enabled {
		middleware.WriteJSON(w, http.StatusOK, authResponse{Success: true})
		return
	}

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token := strings.TrimSpace(req.Token)
	if !h.auth.Accepts(token) {
		h.logger.Warn("Login rejected", "remote_addr", r.RemoteAddr)
		middleware.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	middleware.StartSession(w, r, token, sessionTTL)
	middleware.WriteJSON(w, http.StatusOK, authResponse{Success: true, AuthEnabled: true})
}

// Logout POST /api/v1/auth/logout
func (h *AuthAPIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.EndSession(w, r)
	middleware.WriteJSON(w, http.StatusOK, authResponse{Success: true, AuthEnabled: h.auth.Enabled})
}

// Status GET /api/v1/auth/status
func (h *AuthAPIHandler) Status(w http.ResponseWriter, r *http.Request) {
	authenticated := h.auth.Check(r) == nil
	cookie := middleware.HasSession(r)
	middleware.WriteJSON(w, http.StatusOK, authResponse{
		AuthEnabled:   h.auth.Enabled,
		Authenticated: &authenticated,
		CookiePresent: &cookie,
	})
}
