package middleware

import (
	"net/http"

	"github.com/erp/console/internal/application/console"
	"github.com/erp/console/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by Session.
const (
	SessionKey   = "console_session"
	SessionIDKey = "session_id"
)

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	CookieName string
	Secure     bool
}

// Session binds the request to the operator's console session, creating one
// when the cookie is missing, unknown or expired. Every session gets its own
// shell, so no view state is shared between browsers.
func Session(sessions *console.Sessions, cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *console.Session
		if id, err := c.Cookie(cfg.CookieName); err == nil && id != "" {
			sess, _ = sessions.Get(id)
		}
		if sess == nil {
			sess = sessions.Create()
			logger.GetGinLogger(c).Debug("Started console session", zap.String("session_id", sess.ID))
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, sess.ID, 0, "/", "", cfg.Secure, true)

		c.Set(SessionKey, sess)
		c.Set(SessionIDKey, sess.ID)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), sess.ID))
		c.Next()
	}
}

// GetSession returns the session bound by Session, or nil.
func GetSession(c *gin.Context) *console.Session {
	if v, ok := c.Get(SessionKey); ok {
		if sess, ok := v.(*console.Session); ok {
			return sess
		}
	}
	return nil
}
