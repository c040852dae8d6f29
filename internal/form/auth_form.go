package form

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

func registerUsernameRule(v *validator.Validate) {
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// SignupInput is a signup submission.
type SignupInput struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Password1 string `form:"password1" validate:"required"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

// LoginInput is a login submission.
type LoginInput struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// ParseSignup validates a signup form. Mismatched passwords yield
// domain.ErrPasswordMismatch.
func ParseSignup(values url.Values) (SignupInput, error) {
	in := SignupInput{
		Username:  strings.TrimSpace(values.Get("username")),
		Password1: values.Get("password1"),
		Password2: values.Get("password2"),
	}
	if err := validate.Struct(in); err != nil {
		return in, translate(err)
	}
	return in, nil
}

// ParseLogin validates a login form.
func ParseLogin(values url.Values) (LoginInput, error) {
	in := LoginInput{
		Username: strings.TrimSpace(values.Get("username")),
		Password: values.Get("password"),
	}
	if err := validate.Struct(in); err != nil {
		return in, translate(err)
	}
	return in, nil
}
