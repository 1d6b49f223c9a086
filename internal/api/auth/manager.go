// Package auth tracks who is logged in and gates routes that need a user.
package auth

import (
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/chessweb/internal/api/flash"
)

const (
	sessionUserID   = "user_id"
	sessionUsername = "user_username"
	sessionSince    = "user_since"
	sessionRemember = "remember"
)

// LoginPath is where anonymous users are sent.
const LoginPath = "/user/login"

// Manager starts and ends user sessions.
type Manager struct {
	rememberMaxAge int
	secure         bool
}

// NewManager returns a Manager. Remembered sessions live for rememberMaxAge seconds.
func NewManager(rememberMaxAge int, secure bool) *Manager {
	return &Manager{
		rememberMaxAge: rememberMaxAge,
		secure:         secure,
	}
}

// cookieOptions returns the session cookie options.
// A MaxAge of 0 makes the cookie expire with the browser session.
func (m *Manager) cookieOptions(remember bool) sessions.Options {
	opts := sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		opts.MaxAge = m.rememberMaxAge
	}
	return opts
}

// Login stores id in the session and attaches it to the current request.
func (m *Manager) Login(c *gin.Context, id Identity, remember bool) {
	if id.Since.IsZero() {
		id.Since = time.Now()
	}

	session := sessions.Default(c)
	session.Set(sessionUserID, id.UserID)
	session.Set(sessionUsername, id.Username)
	session.Set(sessionSince, id.Since.Unix())
	session.Set(sessionRemember, remember)
	session.Options(m.cookieOptions(remember))

	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
	log.Info("user logged in", "user_id", id.UserID, "remember", remember)
}

// Logout drops everything stored in the session.
func (m *Manager) Logout(c *gin.Context) {
	id := IdentityFrom(c.Request.Context())

	session := sessions.Default(c)
	session.Clear()
	session.Options(m.cookieOptions(false))

	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), Identity{}))
	log.Info("user logged out", "user_id", id.UserID)
}

// LoadIdentity attaches the identity stored in the session to the request context.
func (m *Manager) LoadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		var id Identity
		if userID, ok := session.Get(sessionUserID).(int64); ok {
			id.UserID = userID
			id.Username, _ = session.Get(sessionUsername).(string)
			if since, ok := session.Get(sessionSince).(int64); ok {
				id.Since = time.Unix(since, 0)
			}
		}

		// keep remembered cookies persistent when the session is written again
		if remember, _ := session.Get(sessionRemember).(bool); remember {
			session.Options(m.cookieOptions(true))
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// RequireAuth sends anonymous users to the login page, remembering where they wanted to go.
func (m *Manager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IdentityFrom(c.Request.Context()).Authenticated() {
			c.Next()
			return
		}

		session := sessions.Default(c)
		flash.Add(session, flash.Info, "Please log in to access this page.")
		if err := session.Save(); err != nil {
			log.Error("Failed to save session", "error", err)
		}

		q := url.Values{}
		q.Set("next", c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, LoginPath+"?"+q.Encode())
		c.Abort()
	}
}
