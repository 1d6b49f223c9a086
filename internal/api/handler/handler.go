package handler

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/chessweb/internal/accounts"
	"github.com/jon4hz/chessweb/internal/api/auth"
	"github.com/jon4hz/chessweb/internal/api/csrf"
	"github.com/jon4hz/chessweb/internal/api/flash"
	"github.com/jon4hz/chessweb/internal/chess"
	"github.com/jon4hz/chessweb/web/templates/components"
	"github.com/jon4hz/chessweb/web/templates/pages"
)

type Handler struct {
	accounts *accounts.Store
	auth     *auth.Manager
}

func New(store *accounts.Store, manager *auth.Manager) *Handler {
	return &Handler{
		accounts: store,
		auth:     manager,
	}
}

// render consumes the queued flashes and writes page with status.
func (h *Handler) render(c *gin.Context, status int, page func(components.View) templ.Component) {
	session := sessions.Default(c)
	view := components.View{
		Identity:  auth.IdentityFrom(c.Request.Context()),
		Flashes:   flash.Pop(session),
		CSRFToken: csrf.Token(session),
	}
	if err := session.Save(); err != nil {
		log.Error("Failed to save session", "error", err)
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := page(view).Render(c.Request.Context(), c.Writer); err != nil {
		log.Error("Failed to render page", "path", c.Request.URL.Path, "error", err)
	}
}

// redirect saves the session and sends the client to location.
func (h *Handler) redirect(c *gin.Context, location string) {
	if err := sessions.Default(c).Save(); err != nil {
		if err := c.AbortWithError(http.StatusInternalServerError, err); err != nil {
			log.Error("Failed to abort with error", "error", err)
		}
		return
	}
	c.Redirect(http.StatusFound, location)
}

func authenticated(c *gin.Context) bool {
	return auth.IdentityFrom(c.Request.Context()).Authenticated()
}

func (h *Handler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, pages.Index)
}

func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, pages.NotFound)
}

// parseIDParam accepts unsigned decimal ids only, "+5" and "-5" are rejected.
func parseIDParam(param string) (int64, error) {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Convert[int64](id)
}

// Board shows a fresh game in the starting position.
func (h *Handler) Board(c *gin.Context) {
	board := chess.InitialLayout()
	h.render(c, http.StatusOK, func(view components.View) templ.Component {
		return pages.Board(view, "New Game", board, "")
	})
}

// SavedBoard shows the board of a saved game. Games are not persisted yet,
// so every valid id shows an empty board.
func (h *Handler) SavedBoard(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		h.NotFound(c)
		return
	}

	board := chess.EmptyBoard()
	h.render(c, http.StatusOK, func(view components.View) templ.Component {
		return pages.Board(view, "Game "+components.FormatGameNumber(id), board, "Saved games are not available yet.")
	})
}

// Rules is a placeholder for the rules page.
func (h *Handler) Rules(c *gin.Context) {
	h.render(c, http.StatusNotImplemented, func(view components.View) templ.Component {
		return pages.NotImplemented(view, "The chess rules page")
	})
}
