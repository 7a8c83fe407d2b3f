package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cuongbtq/applog/internal/tracker/domain"
)

// Fields is a proposed field-name → value mapping, as received from a form or
// request body.
type Fields map[string]any

// Kind is the value type a field accepts.
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindStatus
)

// Field describes one accepted field.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	// Rules are validator/v10 tags applied to text values, e.g. "max=255".
	Rules string
}

// Schema is the explicit set of fields accepted for one operation.
type Schema struct {
	name   string
	create bool
	fields map[string]Field
}

var validate = validator.New()

// NewSchema builds a schema. When create is true every required field must be
// present; otherwise required fields are only checked when supplied.
func NewSchema(name string, create bool, fields ...Field) *Schema {
	s := &Schema{name: name, create: create, fields: make(map[string]Field, len(fields))}
	for _, f := range fields {
		s.fields[f.Name] = f
	}
	return s
}

// Name identifies the schema in logs.
func (s *Schema) Name() string { return s.name }

// Has reports whether name is an accepted field.
func (s *Schema) Has(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// Names returns the accepted field names, sorted.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks in against the schema and returns the normalised mapping:
// dates become domain.Date and statuses domain.Status. It never touches the
// store.
func (s *Schema) Validate(in Fields) (Fields, error) {
	if len(in) == 0 {
		return nil, domain.NewValidationError("", "no fields supplied")
	}

	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Fields, len(in))
	for _, key := range keys {
		field, ok := s.fields[key]
		if !ok {
			return nil, domain.NewValidationError(key, "unknown field")
		}

		value, err := normalize(field, in[key])
		if err != nil {
			return nil, err
		}
		out[key] = value
	}

	if s.create {
		for _, name := range s.Names() {
			if _, ok := out[name]; !ok && s.fields[name].Required {
				return nil, domain.NewValidationError(name, "is required")
			}
		}
	}

	return out, nil
}

func normalize(field Field, value any) (any, error) {
	switch field.Kind {
	case KindDate:
		return normalizeDate(field, value)
	case KindStatus:
		return normalizeStatus(field, value)
	default:
		return normalizeText(field, value)
	}
}

func normalizeText(field Field, value any) (string, error) {
	var s string
	switch v := value.(type) {
	case nil:
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		return "", domain.NewValidationError(field.Name, fmt.Sprintf("must be text, got %T", value))
	}

	if field.Required && strings.TrimSpace(s) == "" {
		return "", domain.NewValidationError(field.Name, "is required")
	}

	if field.Rules != "" {
		if err := validate.Var(s, field.Rules); err != nil {
			return "", domain.NewValidationError(field.Name, describe(err))
		}
	}

	return s, nil
}

func normalizeDate(field Field, value any) (domain.Date, error) {
	switch v := value.(type) {
	case domain.Date:
		return v, nil
	case time.Time:
		return domain.NewDate(v), nil
	case string:
		d, err := domain.ParseDate(strings.TrimSpace(v))
		if err != nil {
			return domain.Date{}, domain.NewValidationError(field.Name, "must be a date in YYYY-MM-DD format")
		}
		return d, nil
	default:
		return domain.Date{}, domain.NewValidationError(field.Name, fmt.Sprintf("must be a date, got %T", value))
	}
}

func normalizeStatus(field Field, value any) (domain.Status, error) {
	var raw string
	switch v := value.(type) {
	case domain.Status:
		raw = string(v)
	case string:
		raw = v
	default:
		return "", domain.NewValidationError(field.Name, fmt.Sprintf("must be a status, got %T", value))
	}

	status, err := domain.ParseStatus(raw)
	if err != nil {
		return "", domain.NewValidationError(field.Name, err.Error())
	}
	return status, nil
}

// describe turns a validator failure into a short reason.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "url", "http_url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
