package loader

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vanderheijden86/marquee/pkg/model"
)

// FieldError is one failed constraint on a row.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RowError describes a row excluded at load time.
type RowError struct {
	Line   int          `json:"line"`
	Title  string       `json:"title,omitempty"`
	Fields []FieldError `json:"fields,omitempty"`
	Err    error        `json:"-"`
}

func (e *RowError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d", e.Line)
	if e.Title != "" {
		fmt.Fprintf(&b, " (%s)", e.Title)
	}
	b.WriteString(": ")
	if len(e.Fields) == 0 && e.Err != nil {
		b.WriteString(e.Err.Error())
		return b.String()
	}
	for i, f := range e.Fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f.Field + " " + f.Message)
	}
	return b.String()
}

func (e *RowError) Unwrap() error { return e.Err }

// movieValidator checks model.Movie against its validate tags and reports
// fields by their JSON names.
type movieValidator struct {
	v *validator.Validate
}

func newMovieValidator() *movieValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &movieValidator{v: v}
}

// check returns nil or the failing fields.
func (mv *movieValidator) check(m *model.Movie) ([]FieldError, error) {
	err := mv.v.Struct(m)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: friendlyMessage(fe)})
	}
	return out, nil
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("needs at least %s entries", e.Param())
		}
		return "must be at least " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	default:
		return "is invalid"
	}
}

var sharedValidator = newMovieValidator()

// ValidateMovie checks m against the load-time rules. It returns the failing
// fields, or nil when m is valid.
func ValidateMovie(m *model.Movie) ([]FieldError, error) {
	return sharedValidator.check(m)
}
