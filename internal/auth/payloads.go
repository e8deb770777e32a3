package auth

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/instaclone/api/internal/httperr"
)

// SignUpPayload is the signup request body. Fields are pointers so an absent
// field is distinguishable from an empty one.
type SignUpPayload struct {
	Email           *string `json:"email" validate:"required,email"`
	FullName        *string `json:"fullName" validate:"required,min=4"`
	Username        *string `json:"username" validate:"required,min=4,nosymbols"`
	Bio             *string `json:"bio"`
	Password        *string `json:"password" validate:"required,min=3"`
	ConfirmPassword *string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// SignInPayload is the sign-in request body.
type SignInPayload struct {
	EmailUsername *string `json:"emailUsername" validate:"required"`
	Password      *string `json:"password" validate:"required"`
}

// RefreshPayload is the token-refresh request body.
type RefreshPayload struct {
	RefreshToken *string `json:"refreshToken" validate:"required"`
}

// usernameSymbols lists the characters a username must not contain. Note
// that '@' is among them, so an email can never validate as a username.
var usernameSymbols = regexp.MustCompile("[-!$%^&@*()+|~=`{}\\[\\]:;<>?,/]")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report field names by their json tags.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation("nosymbols", func(fl validator.FieldLevel) bool {
			return !usernameSymbols.MatchString(fl.Field().String())
		})
	})
	return validate
}

// ValidatePayload validates a request payload struct and converts failures
// into a single validation error carrying per-field messages.
func ValidatePayload(payload any) *httperr.Error {
	err := getValidator().Struct(payload)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return httperr.Validation([]httperr.FieldError{{Message: "Bad value"}})
	}

	fields := make([]httperr.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, httperr.FieldError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return httperr.Validation(fields)
}

// validationMessage returns the static client-facing message for one failed
// constraint. Messages are pre-written per field and tag.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == "refreshToken" {
			return "Please provide your refresh token to get a new access token"
		}
		return "This field is required"
	case "email":
		return "Please provide proper email"
	case "min":
		switch fe.Field() {
		case "fullName":
			return "Full name must be at least " + fe.Param() + " characters"
		case "username":
			return "Username must be at least " + fe.Param() + " characters"
		case "password":
			return "Password must be at least " + fe.Param() + " characters"
		}
		return "Must be at least " + fe.Param() + " characters"
	case "nosymbols":
		return "Username should not contains non-allowed character"
	case "eqfield":
		return "Password confirmation must match password"
	default:
		return "Bad value"
	}
}
