package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/chessweb/internal/api/csrf"
)

// route is an entry of the route table.
type route struct {
	methods     []string
	path        string
	handler     gin.HandlerFunc
	requireAuth bool
	csrf        bool
}

var (
	get        = []string{http.MethodGet}
	post       = []string{http.MethodPost}
	getAndPost = []string{http.MethodGet, http.MethodPost}
)

func (s *Server) routes() []route {
	h := s.handler
	return []route{
		{methods: get, path: "/", handler: h.Index},
		{methods: get, path: "/index", handler: h.Index},

		{methods: get, path: "/user/login", handler: h.LoginPage},
		{methods: post, path: "/user/login", handler: h.Login, csrf: true},
		{methods: get, path: "/user/signup", handler: h.SignupPage},
		{methods: post, path: "/user/signup", handler: h.Signup, csrf: true},
		{methods: get, path: "/user/forgot_password", handler: h.ForgotPasswordPage},
		{methods: post, path: "/user/forgot_password", handler: h.ForgotPassword, csrf: true},
		{methods: getAndPost, path: "/user/logout", handler: h.Logout, requireAuth: true},

		{methods: get, path: "/chess/board/", handler: h.Board},
		{methods: get, path: "/chess/board/:id", handler: h.SavedBoard, requireAuth: true},
		{methods: getAndPost, path: "/chess/rules", handler: h.Rules, requireAuth: true},
	}
}

// register mounts r, wrapping its handler with the gates it asks for.
func (s *Server) register(r route) {
	var chain []gin.HandlerFunc
	if r.requireAuth {
		chain = append(chain, s.authManager.RequireAuth())
	}
	if r.csrf {
		chain = append(chain, csrf.Protect())
	}
	chain = append(chain, r.handler)

	for _, method := range r.methods {
		s.ginEngine.Handle(method, r.path, chain...)
	}
}

func (s *Server) logRoutes() {
	for _, r := range s.ginEngine.Routes() {
		log.Debug("registered route", "method", r.Method, "path", r.Path)
	}
}
