package web

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form payloads. Every mutating handler binds one of these from the
// parsed request body and validates it before touching the store.

type registerForm struct {
	Username string `validate:"required,min=3,max=32"`
	Password string `validate:"required,min=8"`
}

type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type campgroundForm struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	Location    string `validate:"required"`
	ImageURL    string `validate:"omitempty,url"`
}

type commentForm struct {
	Text string `validate:"required"`
}

type passwordForm struct {
	Password string `validate:"required,min=8"`
}

// validationMessage turns the first validator error into a user-facing
// flash message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", field)
		case "min":
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "max":
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		case "url":
			return fmt.Sprintf("%s must be a valid URL", field)
		}
		return fmt.Sprintf("%s is invalid", field)
	}
	return "invalid input"
}
