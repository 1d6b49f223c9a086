// Package csrf implements synchronizer tokens for the html forms.
package csrf

import (
	"crypto/subtle"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jon4hz/chessweb/internal/api/flash"
)

// FieldName is the name of the hidden form field carrying the token.
const FieldName = "csrf_token"

const sessionKey = "csrf_token"

// Token returns the token of the session, creating one if needed.
// A newly created token is only persisted once the session is saved.
func Token(session sessions.Session) string {
	if token, ok := session.Get(sessionKey).(string); ok && token != "" {
		return token
	}
	token := uuid.NewString()
	session.Set(sessionKey, token)
	return token
}

// Valid reports whether token matches the one stored in the session.
func Valid(session sessions.Session, token string) bool {
	expected, ok := session.Get(sessionKey).(string)
	if !ok || expected == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 1
}

// Protect rejects form posts without a valid token and sends the client back to the form.
func Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		session := sessions.Default(c)
		if Valid(session, c.PostForm(FieldName)) {
			c.Next()
			return
		}

		log.Warn("rejected request with invalid csrf token", "path", c.Request.URL.Path)
		flash.Add(session, flash.Danger, "The CSRF token is missing or invalid.")
		if err := session.Save(); err != nil {
			log.Error("Failed to save session", "error", err)
		}
		c.Redirect(http.StatusFound, c.Request.URL.RequestURI())
		c.Abort()
	}
}
