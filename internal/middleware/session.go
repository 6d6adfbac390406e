package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teachnotes/teachnotes-api/internal/models"
	"github.com/teachnotes/teachnotes-api/pkg/config"
)

// ContextUserKey is the gin context key storing the resolved user.
const ContextUserKey = "currentUser"

// SessionManager issues and clears the session cookie. The cookie value is
// the raw user primary key; each request resolves it back to a user record.
type SessionManager struct {
	cookieName string
	maxAge     int
	domain     string
	secure     bool
}

// NewSessionManager builds a session manager from config. The cookie is
// marked Secure only in production.
func NewSessionManager(cfg config.SessionConfig, env string) *SessionManager {
	return &SessionManager{
		cookieName: cfg.CookieName,
		maxAge:     int(cfg.TTL.Seconds()),
		domain:     cfg.Domain,
		secure:     env == config.EnvProduction,
	}
}

// Issue sets the session cookie for the user.
func (m *SessionManager) Issue(c *gin.Context, userID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, userID, m.maxAge, "/", m.domain, m.secure, true)
}

// Clear invalidates the session cookie by overwriting it with an empty value
// and an immediate expiry.
func (m *SessionManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", m.domain, m.secure, true)
}

// Read returns the session identifier carried by the request, or "".
func (m *SessionManager) Read(c *gin.Context) string {
	value, err := c.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return value
}

type userResolver interface {
	ResolveUser(ctx context.Context, id string) *models.User
}

// CurrentUser resolves the session cookie to a user record and stores it on
// the request context. An absent or stale cookie leaves no identity; it never
// blocks the request.
func CurrentUser(sessions *SessionManager, resolver userResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := sessions.Read(c); id != "" {
			if user := resolver.ResolveUser(c.Request.Context(), id); user != nil {
				c.Set(ContextUserKey, user)
			}
		}
		c.Next()
	}
}

// RouteGuard protects page navigation: any GET path outside the public set
// requires a session cookie (presence only) or the client is sent to /login;
// visiting /login or /register while sessioned redirects to /dashboard.
// Non-GET requests, API paths, and ops paths are left to their handlers,
// which reject unauthenticated access themselves.
func RouteGuard(sessions *SessionManager, publicPaths, exemptPrefixes []string) gin.HandlerFunc {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		for _, prefix := range exemptPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		sessionID := sessions.Read(c)

		if _, ok := public[path]; ok {
			if sessionID != "" && (path == "/login" || path == "/register") {
				c.Redirect(http.StatusSeeOther, "/dashboard")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if sessionID == "" {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		c.Next()
	}
}

// UserFromContext returns the resolved user for the request, or nil.
func UserFromContext(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
