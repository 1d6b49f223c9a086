package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("test", cookie.NewStore([]byte("test-secret"))))

	var popped []Message
	router.GET("/add", func(c *gin.Context) {
		session := sessions.Default(c)
		Add(session, Success, "Login Successful!")
		Add(session, Info, "user id: 3")
		require.NoError(t, session.Save())
		c.Status(http.StatusNoContent)
	})
	router.GET("/pop", func(c *gin.Context) {
		session := sessions.Default(c)
		popped = Pop(session)
		require.NoError(t, session.Save())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/add", nil))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/pop", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, []Message{
		{Text: "Login Successful!", Category: Success},
		{Text: "user id: 3", Category: Info},
	}, popped)

	// messages are consumed
	req = httptest.NewRequest(http.MethodGet, "/pop", nil)
	for _, ck := range w.Result().Cookies() {
		req.AddCookie(ck)
	}
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.Empty(t, popped)
}
