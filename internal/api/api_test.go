package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/chessweb/internal/accounts"
	"github.com/jon4hz/chessweb/internal/config"
	"github.com/jon4hz/chessweb/internal/database/mock"
	"github.com/stretchr/testify/suite"
)

var csrfPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

type ServerTestSuite struct {
	suite.Suite
	db     *mock.MockDB
	server *Server
	ts     *httptest.Server
	client *http.Client
}

func (s *ServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.db = mock.NewMockDB()
	cfg := &config.Config{
		Host:           "127.0.0.1",
		Port:           10225,
		SessionKey:     "0123456789abcdef0123456789abcdef",
		RememberMaxAge: 3600,
		Database:       &config.DatabaseConfig{Driver: config.DatabaseDriverSQLite, Path: "unused.db"},
	}

	server, err := New(cfg, accounts.New(s.db))
	s.Require().NoError(err)
	s.server = server
	s.ts = httptest.NewServer(server.Handler())

	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	s.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *ServerTestSuite) TearDownTest() {
	s.ts.Close()
}

func (s *ServerTestSuite) get(path string) (*http.Response, string) {
	resp, err := s.client.Get(s.ts.URL + path)
	s.Require().NoError(err)
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, string(body)
}

// token loads a form page and returns its csrf token.
func (s *ServerTestSuite) token(path string) string {
	_, body := s.get(path)
	m := csrfPattern.FindStringSubmatch(body)
	s.Require().Len(m, 2, "no csrf token on %s", path)
	return m[1]
}

func (s *ServerTestSuite) post(path string, form url.Values) *http.Response {
	resp, err := s.client.PostForm(s.ts.URL+path, form)
	s.Require().NoError(err)
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp
}

// submit posts form to path with a fresh csrf token from formPath.
func (s *ServerTestSuite) submit(formPath, path string, form url.Values) *http.Response {
	form.Set("csrf_token", s.token(formPath))
	return s.post(path, form)
}

func (s *ServerTestSuite) login(username, password string, remember bool) *http.Response {
	form := url.Values{"username": {username}, "password": {password}}
	if remember {
		form.Set("remember_me", "true")
	}
	return s.submit("/user/login", "/user/login", form)
}

func (s *ServerTestSuite) TestIndex() {
	for _, path := range []string{"/", "/index"} {
		resp, body := s.get(path)
		s.Equal(http.StatusOK, resp.StatusCode, path)
		s.Contains(body, "ChessWeb")
		s.Contains(body, `href="/user/login"`)
	}
}

func (s *ServerTestSuite) TestBoard() {
	resp, body := s.get("/chess/board/")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "table is-bordered is-striped is-hoverable is-fullwidth")
	s.Equal(1, strings.Count(body, "♔"))
	s.Equal(1, strings.Count(body, "♚"))
	s.Equal(8, strings.Count(body, "♙"))
	s.Equal(8, strings.Count(body, "♟"))

	// rank 8 is rendered first
	s.Less(strings.Index(body, "<th>8</th>"), strings.Index(body, "<th>1</th>"))
}

func (s *ServerTestSuite) TestBoardIsStable() {
	table := func() string {
		resp, body := s.get("/chess/board/")
		s.Require().Equal(http.StatusOK, resp.StatusCode)
		start := strings.Index(body, "<table")
		end := strings.Index(body, "</table>")
		s.Require().True(start >= 0 && end > start)
		return body[start : end+len("</table>")]
	}

	first := table()
	s.Equal(first, table())
}

func (s *ServerTestSuite) TestSignupAndLogin() {
	resp := s.submit("/user/signup", "/user/signup", url.Values{
		"fname":            {"Bob"},
		"lname":            {"Builder"},
		"username":         {"bob"},
		"password":         {"pw"},
		"confirm_password": {"pw"},
	})
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/user/login", resp.Header.Get("Location"))
	s.Equal(1, s.db.AddUserCalls)

	user, ok := s.db.User("bob")
	s.Require().True(ok)
	s.Equal("pw", user.Password)

	_, body := s.get("/user/login")
	s.Contains(body, "Signup successful for bob!")

	resp = s.login("bob", "pw", false)
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/index", resp.Header.Get("Location"))

	_, body = s.get("/index")
	s.Contains(body, "Login Successful!")
	s.Contains(body, "user id: 1")
	s.Contains(body, "Signed in as")

	// flashes are shown once
	_, body = s.get("/index")
	s.NotContains(body, "Login Successful!")
}

func (s *ServerTestSuite) TestSignupInvalid() {
	resp := s.submit("/user/signup", "/user/signup", url.Values{
		"fname":            {"Bob"},
		"lname":            {"Builder"},
		"username":         {"bob"},
		"password":         {"pw"},
		"confirm_password": {"different"},
	})
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/user/signup", resp.Header.Get("Location"))
	s.Zero(s.db.AddUserCalls)

	_, body := s.get("/user/signup")
	s.Contains(body, "Signup Failed!")
	s.Contains(body, "Passwords must match.")
}

func (s *ServerTestSuite) TestSignupTakenUsername() {
	s.db.Seed("Ada", "Lovelace", "ada", "secret")

	resp := s.submit("/user/signup", "/user/signup", url.Values{
		"fname":            {"Other"},
		"lname":            {"Person"},
		"username":         {"ada"},
		"password":         {"pw"},
		"confirm_password": {"pw"},
	})
	s.Equal("/user/signup", resp.Header.Get("Location"))
	s.Zero(s.db.AddUserCalls)

	_, body := s.get("/user/signup")
	s.Contains(body, "Username already taken.")
}

func (s *ServerTestSuite) TestSignupBackendFailure() {
	s.db.AddUserError = errors.New("db down")

	resp := s.submit("/user/signup", "/user/signup", url.Values{
		"fname":            {"Bob"},
		"lname":            {"Builder"},
		"username":         {"bob"},
		"password":         {"pw"},
		"confirm_password": {"pw"},
	})
	s.Equal("/user/signup", resp.Header.Get("Location"))

	_, body := s.get("/user/signup")
	s.Contains(body, "Signup Failed! failed to add user to db")
}

func (s *ServerTestSuite) TestLoginWrongPassword() {
	s.db.Seed("Ada", "Lovelace", "ada", "secret")

	resp := s.login("ada", "wrong", false)
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/user/login", resp.Header.Get("Location"))

	_, body := s.get("/user/login")
	s.Contains(body, "Invalid Username or Password!")
	s.NotContains(body, "Signed in as")
}

func (s *ServerTestSuite) TestLoginBackendFailureFailsClosed() {
	s.db.Seed("Ada", "Lovelace", "ada", "secret")
	s.db.CheckPasswordError = errors.New("db down")

	resp := s.login("ada", "secret", false)
	s.Equal("/user/login", resp.Header.Get("Location"))
}

func (s *ServerTestSuite) TestProtectedRouteRoundTrip() {
	s.db.Seed("Ada", "Lovelace", "ada", "secret")

	resp, _ := s.get("/chess/rules")
	s.Equal(http.StatusFound, resp.StatusCode)
	location := resp.Header.Get("Location")
	s.Equal("/user/login?next=%2Fchess%2Frules", location)

	_, body := s.get(location)
	s.Contains(body, "Please log in to access this page.")
	s.Contains(body, `action="/user/login?next=%2Fchess%2Frules"`)

	form := url.Values{"username": {"ada"}, "password": {"secret"}, "csrf_token": {s.token(location)}}
	resp = s.post(location, form)
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/chess/rules", resp.Header.Get("Location"))

	resp, body = s.get("/chess/rules")
	s.Equal(http.StatusNotImplemented, resp.StatusCode)
	s.Contains(body, "Not Implemented")
}

func (s *ServerTestSuite) TestUnsafeNextIsIgnored() {
	s.db.Seed("Ada", "Lovelace", "ada", "secret")

	path := "/user/login?next=" + url.QueryEscape("http://evil.example.com/")
	form := url.Values{"username": {"ada"}, "password": {"secret"}, "csrf_token": {s.token(path)}}
	resp := s.post(path, form)
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/index", resp.Header.Get("Location"))
}

func (s *ServerTestSuite) TestRememberMeCookie() {
	s.db.Seed("Ada", "Lovelace", "ada", "secret")

	resp := s.login("ada", "secret", true)
	var found bool
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionName {
			found = true
			s.Equal(3600, ck.MaxAge)
		}
	}
	s.True(found)
}

func (s *ServerTestSuite) TestSessionCookieWithoutRemember() {
	s.db.Seed("Ada", "Lovelace", "ada", "secret")

	resp := s.login("ada", "secret", false)
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionName {
			s.Zero(ck.MaxAge)
			s.True(ck.HttpOnly)
		}
	}
}

func (s *ServerTestSuite) TestLoginPageRedirectsWhenAuthenticated() {
	s.db.Seed("Ada", "Lovelace", "ada", "secret")
	s.login("ada", "secret", false)

	for _, path := range []string{"/user/login", "/user/signup"} {
		resp, _ := s.get(path)
		s.Equal(http.StatusFound, resp.StatusCode, path)
		s.Equal("/index", resp.Header.Get("Location"))
	}
}

func (s *ServerTestSuite) TestLogout() {
	s.db.Seed("Ada", "Lovelace", "ada", "secret")
	s.login("ada", "secret", false)

	resp, _ := s.get("/user/logout")
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/user/login", resp.Header.Get("Location"))

	_, body := s.get("/user/login")
	s.Contains(body, "Successfully logged out!")

	resp, _ = s.get("/chess/rules")
	s.Equal(http.StatusFound, resp.StatusCode)
}

func (s *ServerTestSuite) TestLogoutRequiresLogin() {
	resp, _ := s.get("/user/logout")
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/user/login?next=%2Fuser%2Flogout", resp.Header.Get("Location"))
}

func (s *ServerTestSuite) TestForgotPassword() {
	s.db.Seed("Ada", "Lovelace", "ada", "secret")

	resp := s.submit("/user/forgot_password", "/user/forgot_password", url.Values{
		"username":     {"ada"},
		"new_password": {"newsecret"},
	})
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/index", resp.Header.Get("Location"))

	user, _ := s.db.User("ada")
	s.Equal("newsecret", user.Password)

	_, body := s.get("/index")
	s.Contains(body, "Password Reset Successful")
}

func (s *ServerTestSuite) TestForgotPasswordUnknownUser() {
	form := url.Values{
		"username":     {"nobody"},
		"new_password": {"newsecret"},
		"csrf_token":   {s.token("/user/forgot_password")},
	}
	resp, err := s.client.PostForm(s.ts.URL+"/user/forgot_password", form)
	s.Require().NoError(err)
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), "Password Reset Failed")
	s.Contains(string(body), "Invalid username or password")
	s.Zero(s.db.UpdatePasswordCalls)
}

func (s *ServerTestSuite) TestCSRFRejected() {
	s.db.Seed("Ada", "Lovelace", "ada", "secret")

	resp := s.post("/user/login", url.Values{"username": {"ada"}, "password": {"secret"}})
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/user/login", resp.Header.Get("Location"))
	s.Zero(s.db.CheckPasswordCalls)

	_, body := s.get("/user/login")
	s.Contains(body, "The CSRF token is missing or invalid.")
	s.NotContains(body, "Signed in as")
}

func (s *ServerTestSuite) TestSavedBoard() {
	s.db.Seed("Ada", "Lovelace", "ada", "secret")

	resp, _ := s.get("/chess/board/5")
	s.Equal(http.StatusFound, resp.StatusCode)

	s.login("ada", "secret", false)

	resp, body := s.get("/chess/board/5")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Saved games are not available yet.")
	s.NotContains(body, "♔")

	for _, id := range []string{"abc", "-5", "+5", "99999999999999999999"} {
		resp, _ = s.get("/chess/board/" + url.PathEscape(id))
		s.Equal(http.StatusNotFound, resp.StatusCode, id)
	}
}

func (s *ServerTestSuite) TestNotFound() {
	resp, body := s.get("/does/not/exist")
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Contains(body, "Page Not Found")
}

func (s *ServerTestSuite) TestStatic() {
	resp, body := s.get("/static/style.css")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, ".chess-board")
}

func (s *ServerTestSuite) TestSiteMap() {
	resp, body := s.get("/site-map")
	s.Equal(http.StatusOK, resp.StatusCode)

	var entries []SiteMapEntry
	s.Require().NoError(json.Unmarshal([]byte(body), &entries))

	paths := make([]string, 0, len(entries))
	methods := make(map[string][]string)
	for _, e := range entries {
		paths = append(paths, e.Path)
		methods[e.Path] = e.Methods
	}

	s.IsNonDecreasing(paths)
	s.Contains(paths, "/user/login")
	s.Contains(paths, "/site-map")
	s.NotContains(paths, "/static/*filepath")
	s.Equal([]string{"GET", "POST"}, methods["/user/login"])
	s.Equal([]string{"GET", "POST"}, methods["/chess/rules"])
	s.Equal([]string{"GET"}, methods["/chess/board/"])
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(nil, accounts.New(mock.NewMockDB()))
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	_, err = New(&config.Config{RememberMaxAge: 1}, nil)
	if err == nil {
		t.Fatal("expected error for missing store")
	}
}
