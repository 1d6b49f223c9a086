package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/chessweb/internal/accounts"
	"github.com/jon4hz/chessweb/internal/api/auth"
	"github.com/jon4hz/chessweb/internal/api/flash"
	"github.com/jon4hz/chessweb/internal/api/forms"
	"github.com/jon4hz/chessweb/web/templates/components"
	"github.com/jon4hz/chessweb/web/templates/pages"
)

// fieldLabels are the names fields are reported with in flashed messages.
var fieldLabels = map[string]string{
	"fname":            "First Name",
	"lname":            "Last Name",
	"username":         "Username",
	"password":         "Password",
	"confirm_password": "Confirm Password",
	"new_password":     "New Password",
}

func loginURL(next string) string {
	if next == "" {
		return auth.LoginPath
	}
	return auth.LoginPath + "?" + url.Values{"next": {next}}.Encode()
}

func (h *Handler) LoginPage(c *gin.Context) {
	if authenticated(c) {
		c.Redirect(http.StatusFound, "/index")
		return
	}
	next := c.Query("next")
	h.render(c, http.StatusOK, func(view components.View) templ.Component {
		return pages.Login(view, next)
	})
}

func (h *Handler) Login(c *gin.Context) {
	if authenticated(c) {
		c.Redirect(http.StatusFound, "/index")
		return
	}

	session := sessions.Default(c)
	next := c.Query("next")
	fail := func() {
		flash.Add(session, flash.Danger, "Invalid Username or Password!")
		h.redirect(c, loginURL(next))
	}

	var req forms.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Debug("failed to bind login form", "error", err)
		fail()
		return
	}

	ctx := c.Request.Context()
	if res := forms.ValidateLogin(ctx, req, h.accounts); !res.OK() {
		fail()
		return
	}

	userID := h.accounts.GetUserID(ctx, req.Username)
	if userID == accounts.InvalidID {
		fail()
		return
	}

	h.auth.Login(c, auth.Identity{UserID: userID, Username: req.Username}, req.RememberMe)
	flash.Add(session, flash.Success, "Login Successful!")
	flash.Add(session, flash.Info, fmt.Sprintf("user id: %d", userID))

	if next != "" && auth.IsSafeRedirect(c.Request, next) {
		h.redirect(c, next)
		return
	}
	if next != "" {
		log.Warn("refusing to redirect to unsafe url", "next", next)
	}
	h.redirect(c, "/index")
}

func (h *Handler) SignupPage(c *gin.Context) {
	if authenticated(c) {
		c.Redirect(http.StatusFound, "/index")
		return
	}
	h.render(c, http.StatusOK, pages.Signup)
}

func (h *Handler) Signup(c *gin.Context) {
	if authenticated(c) {
		c.Redirect(http.StatusFound, "/index")
		return
	}

	session := sessions.Default(c)
	var req forms.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Debug("failed to bind signup form", "error", err)
		flash.Add(session, flash.Danger, "Signup Failed!")
		h.redirect(c, "/user/signup")
		return
	}

	ctx := c.Request.Context()
	res := forms.ValidateSignup(ctx, req, h.accounts)
	if !res.OK() {
		flash.Add(session, flash.Danger, "Signup Failed!")
		for _, fe := range res.Errors {
			flash.Add(session, flash.Warning, fmt.Sprintf("%s: %s", fieldLabels[fe.Field], fe.Message))
		}
		h.redirect(c, "/user/signup")
		return
	}

	if id := h.accounts.AddUser(ctx, req.FirstName, req.LastName, req.Username, req.Password); id == accounts.InvalidID {
		flash.Add(session, flash.Danger, "Signup Failed! failed to add user to db")
		h.redirect(c, "/user/signup")
		return
	}

	flash.Add(session, flash.Success, fmt.Sprintf("Signup successful for %s!", req.Username))
	h.redirect(c, auth.LoginPath)
}

func (h *Handler) ForgotPasswordPage(c *gin.Context) {
	h.render(c, http.StatusOK, func(view components.View) templ.Component {
		return pages.ForgotPassword(view, "", nil)
	})
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	session := sessions.Default(c)
	ctx := c.Request.Context()

	var req forms.ForgotPasswordRequest
	var errs components.FieldErrors
	if err := c.ShouldBind(&req); err != nil {
		log.Debug("failed to bind password reset form", "error", err)
	} else {
		res := forms.ValidateForgotPassword(ctx, req, h.accounts)
		if res.OK() && h.accounts.UpdatePassword(ctx, req.Username, req.NewPassword) == accounts.UpdateSucceeded {
			flash.Add(session, flash.Success, "Password Reset Successful")
			h.redirect(c, "/index")
			return
		}
		errs = res.Map()
	}

	log.Warn("password reset failed", "username", req.Username)
	flash.Add(session, flash.Danger, "Password Reset Failed")
	h.render(c, http.StatusOK, func(view components.View) templ.Component {
		return pages.ForgotPassword(view, req.Username, errs)
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.auth.Logout(c)
	flash.Add(sessions.Default(c), flash.Success, "Successfully logged out!")
	h.redirect(c, auth.LoginPath)
}
