package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

var ErrUnauthorized = errors.New("unauthorized")

const (
	AuthCookieName = "rai_auth_token"
	authRealm      = `Bearer realm="rai-dashboard"`
)

// AuthConfig статический bearer token дашборда
type AuthConfig struct {
	Enabled     bool
	BearerToken string
}

// Accepts сравнивает токен с настроенным за постоянное время
func (c AuthConfig) Accepts(token string) bool {
	expected := strings.TrimSpace(c.BearerToken)
	if expected == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1
}

// Check проверяет запрос. При выключенной авторизации пропускает всё.
func (c AuthConfig) Check(r *http.Request) error {
	if !c.Enabled {
		return nil
	}
	if !c.Accepts(ExtractToken(r)) {
		return ErrUnauthorized
	}
	return nil
}

// Auth отклоняет запросы без действующего токена
func Auth(cfg AuthConfig, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := cfg.Check(r); err != nil {
				log.Warn("Request rejected by auth",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				w.Header().Set("WWW-Authenticate", authRealm)
				WriteError(w, http.StatusUnauthorized, ErrUnauthorized.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// tokenSources порядок поиска токена: заголовок, cookie сессии, query.
// Query нужен браузерному WebSocket, который не шлет Authorization.
var tokenSources = []func(*http.Request) string{
	func(r *http.Request) string {
		scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return token
	},
	func(r *http.Request) string {
		c, err := r.Cookie(AuthCookieName)
		if err != nil {
			return ""
		}
		return c.Value
	},
	func(r *http.Request) string {
		return r.URL.Query().Get("token")
	},
}

// ExtractToken возвращает первый непустой токен из запроса
func ExtractToken(r *http.Request) string {
	for _, source := range tokenSources {
		if token := strings.TrimSpace(source(r)); token != "" {
			return token
		}
	}
	return ""
}

// StartSession ставит cookie с токеном на ttl
func StartSession(w http.ResponseWriter, r *http.Request, token string, ttl time.Duration) {
	http.SetCookie(w, sessionCookie(r, token, int(ttl/time.Second)))
}

// EndSession удаляет cookie сессии
func EndSession(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, sessionCookie(r, "", -1))
}

// HasSession true, если запрос несет непустую cookie сессии
func HasSession(r *http.Request) bool {
	c, err := r.Cookie(AuthCookieName)
	return err == nil && strings.TrimSpace(c.Value) != ""
}

func sessionCookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     AuthCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https"),
		SameSite: http.SameSiteLaxMode,
	}
}
