// Package validator applies form rules declared as struct tags.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"campuspulse/internal/domain/club"
)

// ErrInvalid is wrapped by every error Validate returns for rule violations.
var ErrInvalid = errors.New("validation failed")

var themeColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// FieldError is one violated rule, named by the form field.
type FieldError struct {
	Field   string
	Message string
}

// Error lists every violated rule of one struct.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrInvalid.
func (e *Error) Unwrap() error { return ErrInvalid }

// Field returns the message for field, if it failed.
func (e *Error) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message, true
		}
	}
	return "", false
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report the form name (json tag) rather than the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	v.RegisterValidation("club_category", validateClubCategory)
	v.RegisterValidation("theme_color", validateThemeColor)
	v.RegisterValidation("trimmed_min", validateTrimmedMin)

	return &Validator{validate: v}
}

// Validate checks i's tagged rules.
// POST: returns nil, an *Error wrapping ErrInvalid, or an error for a non-struct argument
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "trimmed_min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	case "club_category":
		return "must be one of Academic, Sports, Social, Tech, Music"
	case "theme_color":
		return "must be a hex colour like #1a2b3c"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}

func validateClubCategory(fl validator.FieldLevel) bool {
	return club.Category(fl.Field().String()).Valid()
}

func validateThemeColor(fl validator.FieldLevel) bool {
	return themeColorPattern.MatchString(fl.Field().String())
}

// validateTrimmedMin is min on the string with surrounding blanks removed.
func validateTrimmedMin(fl validator.FieldLevel) bool {
	var n int
	if _, err := fmt.Sscanf(fl.Param(), "%d", &n); err != nil {
		return false
	}
	return len([]rune(strings.TrimSpace(fl.Field().String()))) >= n
}
