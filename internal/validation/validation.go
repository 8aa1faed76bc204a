// Package validation turns binding failures and domain checks into a single
// field -> messages aggregate.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Message is the top-level message of every validation failure.
const Message = "The given data was invalid."

// SchemaField collects errors that do not belong to a single field.
const SchemaField = "_schema"

// Errors maps a field name to its messages.
type Errors map[string][]string

func (e Errors) Add(field, msg string) { e[field] = append(e[field], msg) }

func (e Errors) Empty() bool { return len(e) == 0 }

// Err returns nil when there is nothing to report.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return &Error{Fields: e}
}

// Error is the aggregate validation failure.
type Error struct {
	Fields Errors
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field builds a single-field validation error.
func Field(field, msg string) error {
	errs := Errors{}
	errs.Add(field, msg)
	return errs.Err()
}

var setupOnce sync.Once

// Setup configures gin's validator engine: json field names in errors plus the
// notblank, maxbytes and emailorempty rules. It must run before the first
// request is bound.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", notBlank)
		_ = v.RegisterValidation("maxbytes", maxBytes)
		_ = v.RegisterValidation("emailorempty", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || v.Var(s, "email") == nil
		})
	})
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// maxBytes bounds the encoded length of a string; max counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(field.String()) <= limit
}

// FromBinding converts an error returned by gin binding into *Error.
func FromBinding(err error) error {
	if err == nil {
		return nil
	}
	errs := Errors{}

	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			errs.Add(fieldPath(fe.Namespace()), describe(fe))
		}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = SchemaField
		}
		errs.Add(field, fmt.Sprintf("Not a valid %s.", typeErr.Type.Kind()))
	case errors.As(err, &syntaxErr):
		errs.Add(SchemaField, "Invalid JSON.")
	default:
		errs.Add(SchemaField, "Invalid input type.")
	}
	return errs.Err()
}

// fieldPath drops the struct name validator puts in front of the namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Missing data for required field."
	case "email", "emailorempty":
		return "Not a valid email address."
	case "notblank":
		return "Field may not be blank."
	case "min":
		return fmt.Sprintf("Shorter than minimum length %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Longer than maximum length %s.", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("Longer than maximum length %s bytes.", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s.", fe.Param())
	default:
		return "Invalid value."
	}
}
