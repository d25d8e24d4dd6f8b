package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate
	// registerMu serialises rule registration, which the validator does not lock itself
	registerMu sync.Mutex
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)
}

// jsonFieldName reports fields by their wire name so errors read like the input document.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// RegisterStructRule adds a struct-level rule for the given types.
// Call it from package init functions only.
func RegisterStructRule(fn validator.StructLevelFunc, types ...any) {
	registerMu.Lock()
	defer registerMu.Unlock()
	validate.RegisterStructValidation(fn, types...)
}

// Struct validates v against its struct tags and registered struct-level rules.
// The returned error is validator.ValidationErrors when rules fail.
func Struct(v any) error {
	if v == nil {
		return errors.New("validation: nil value")
	}
	return validate.Struct(v)
}

// FieldError is one failed rule, named by its namespace in the input document.
type FieldError struct {
	Namespace string
	Tag       string
	Param     string
}

func (e FieldError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s: field is required", e.Namespace)
	case "min", "gte":
		return fmt.Sprintf("%s: must be at least %s", e.Namespace, e.Param)
	case "max", "lte":
		return fmt.Sprintf("%s: must not exceed %s", e.Namespace, e.Param)
	case "len":
		return fmt.Sprintf("%s: length must be %s", e.Namespace, e.Param)
	default:
		if e.Param != "" {
			return fmt.Sprintf("%s: validation failed (%s=%s)", e.Namespace, e.Tag, e.Param)
		}
		return fmt.Sprintf("%s: validation failed (%s)", e.Namespace, e.Tag)
	}
}

// FieldErrors flattens validator errors into FieldError values.
// Errors of any other type yield nil.
func FieldErrors(err error) []FieldError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	out := make([]FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		out = append(out, FieldError{
			Namespace: trimRoot(e.Namespace()),
			Tag:       e.Tag(),
			Param:     e.Param(),
		})
	}
	return out
}

// trimRoot drops the leading struct type name: "Dataset.arcs[0].c_u" -> "arcs[0].c_u".
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// FormatError converts validator errors to a user-friendly error naming the first failure.
func FormatError(err error) error {
	if err == nil {
		return nil
	}
	fields := FieldErrors(err)
	if len(fields) == 0 {
		return err
	}
	if len(fields) == 1 {
		return fields[0]
	}
	return fmt.Errorf("%w (and %d more)", fields[0], len(fields)-1)
}
