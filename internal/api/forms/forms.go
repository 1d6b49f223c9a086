// Package forms binds and validates the account forms.
package forms

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	msgRequired        = "This field is required."
	msgPasswordsMatch  = "Passwords must match."
	msgUsernameTaken   = "Username already taken."
	msgBadCredentials  = "Invalid username or password"
	msgTooLongTemplate = "Field cannot be longer than %s characters."
)

// LoginRequest is the body of POST /user/login.
type LoginRequest struct {
	Username   string `form:"username" validate:"required"`
	Password   string `form:"password" validate:"required"`
	RememberMe bool   `form:"remember_me"`
}

// SignupRequest is the body of POST /user/signup.
type SignupRequest struct {
	FirstName       string `form:"fname" validate:"required,max=64"`
	LastName        string `form:"lname" validate:"required,max=64"`
	Username        string `form:"username" validate:"required,max=64"`
	Password        string `form:"password" validate:"required,max=128"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// ForgotPasswordRequest is the body of POST /user/forgot_password.
type ForgotPasswordRequest struct {
	Username    string `form:"username" validate:"required"`
	NewPassword string `form:"new_password" validate:"required,max=128"`
}

// FieldError is a message shown next to a form field.
type FieldError struct {
	Field   string
	Message string
}

// Result is a validated form.
type Result[T any] struct {
	Value  T
	Errors []FieldError
}

// OK reports whether the form passed validation.
func (r Result[T]) OK() bool {
	return len(r.Errors) == 0
}

// For returns the messages for field.
func (r Result[T]) For(field string) []string {
	var msgs []string
	for _, e := range r.Errors {
		if e.Field == field {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

// Map groups the messages by field.
func (r Result[T]) Map() map[string][]string {
	m := make(map[string][]string, len(r.Errors))
	for _, e := range r.Errors {
		m[e.Field] = append(m[e.Field], e.Message)
	}
	return m
}

func (r *Result[T]) add(field, msg string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: msg})
}

func (r Result[T]) failed(field string) bool {
	return len(r.For(field)) > 0
}

// UsernameChecker looks up usernames.
type UsernameChecker interface {
	UsernameExists(ctx context.Context, username string) bool
}

// PasswordChecker verifies credentials.
type PasswordChecker interface {
	CheckPassword(ctx context.Context, username, password string) bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their form name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// check runs the struct rules of value.
func check[T any](value T) Result[T] {
	res := Result[T]{Value: value}

	err := validate.Struct(value)
	if err == nil {
		return res
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.add("", err.Error())
		return res
	}
	for _, fe := range verrs {
		res.add(fe.Field(), message(fe))
	}
	return res
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "max":
		return fmt.Sprintf(msgTooLongTemplate, fe.Param())
	case "eqfield":
		return msgPasswordsMatch
	default:
		return fmt.Sprintf("Field failed the %s check.", fe.Tag())
	}
}

// ValidateLogin checks the login form and then the credentials themselves.
func ValidateLogin(ctx context.Context, req LoginRequest, accounts PasswordChecker) Result[LoginRequest] {
	res := check(req)
	if res.failed("username") || res.failed("password") {
		return res
	}
	if !accounts.CheckPassword(ctx, req.Username, req.Password) {
		res.add("password", msgBadCredentials)
	}
	return res
}

// ValidateSignup checks the signup form and that the username is still free.
func ValidateSignup(ctx context.Context, req SignupRequest, accounts UsernameChecker) Result[SignupRequest] {
	res := check(req)
	if !res.failed("username") && accounts.UsernameExists(ctx, req.Username) {
		res.add("username", msgUsernameTaken)
	}
	return res
}

// ValidateForgotPassword checks the reset form and that the user exists.
func ValidateForgotPassword(ctx context.Context, req ForgotPasswordRequest, accounts UsernameChecker) Result[ForgotPasswordRequest] {
	res := check(req)
	if !res.failed("username") && !accounts.UsernameExists(ctx, req.Username) {
		res.add("username", msgBadCredentials)
	}
	return res
}
