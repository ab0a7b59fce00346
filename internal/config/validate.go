package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrMissingValue indicates a required setting is empty
	ErrMissingValue = errors.New("missing value")

	// ErrDuplicateEntry indicates a list setting repeats an entry
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidChoice indicates a setting outside its allowed values
	ErrInvalidChoice = errors.New("invalid choice")

	// ErrInvalidTemplate indicates an unwrap template without exactly one %s
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrUnqualifiedType indicates a type name that is not fully qualified
	ErrUnqualifiedType = errors.New("type name must be fully qualified")

	// ErrInvalidIdentifier indicates a method name that is not a Java identifier
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidValue covers any other struct-level constraint
	ErrInvalidValue = errors.New("invalid value")
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := structValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, fieldError(fe))
		}
	}

	if err := validateViewBinding(&cfg.Rules.ViewBinding); err != nil {
		errs = append(errs, err)
	}

	if err := validateLiveData(&cfg.Rules.LiveData); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func fieldError(fe validator.FieldError) error {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s", ErrMissingValue, field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Errorf("%w: %s", ErrMissingValue, field)
		}
		return fmt.Errorf("%w: %s must be at least %s, got %v", ErrInvalidValue, field, fe.Param(), fe.Value())
	case "unique":
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, field)
	case "oneof":
		return fmt.Errorf("%w: %s must be one of [%s], got '%v'", ErrInvalidChoice, field, fe.Param(), fe.Value())
	case "contains":
		return fmt.Errorf("%w: %s must contain %s", ErrInvalidTemplate, field, fe.Param())
	}
	return fmt.Errorf("%w: %s (%s)", ErrInvalidValue, field, fe.Tag())
}

func validateViewBinding(cfg *ViewBindingConfig) error {
	var errs []error

	if cfg.MarkerType != "" && !isQualified(cfg.MarkerType) {
		errs = append(errs, fmt.Errorf("%w: marker_type '%s'", ErrUnqualifiedType, cfg.MarkerType))
	}
	for _, base := range cfg.BaseTypes {
		if base != "" && !isQualified(base) {
			errs = append(errs, fmt.Errorf("%w: base_types entry '%s'", ErrUnqualifiedType, base))
		}
	}
	for _, name := range cfg.LifecycleMethods {
		if name != "" && !isIdentifier(name) {
			errs = append(errs, fmt.Errorf("%w: lifecycle_methods entry '%s'", ErrInvalidIdentifier, name))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateLiveData(cfg *LiveDataConfig) error {
	var errs []error

	for _, c := range cfg.ContainerTypes {
		if c != "" && !isQualified(c) {
			errs = append(errs, fmt.Errorf("%w: container_types entry '%s'", ErrUnqualifiedType, c))
		}
	}
	for _, name := range cfg.MutatorMethods {
		if name != "" && !isIdentifier(name) {
			errs = append(errs, fmt.Errorf("%w: mutator_methods entry '%s'", ErrInvalidIdentifier, name))
		}
	}
	if n := strings.Count(cfg.UnwrapTemplate, "%"); cfg.UnwrapTemplate != "" && (n != 1 || !strings.Contains(cfg.UnwrapTemplate, "%s")) {
		errs = append(errs, fmt.Errorf("%w: unwrap_template must contain exactly one %%s, got '%s'", ErrInvalidTemplate, cfg.UnwrapTemplate))
	}
	for _, a := range cfg.NullableAnnotations {
		for _, b := range cfg.NonNullAnnotations {
			if a == b {
				errs = append(errs, fmt.Errorf("%w: annotation '%s' is both nullable and non-null", ErrDuplicateEntry, a))
			}
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func isQualified(name string) bool {
	if !strings.Contains(name, ".") {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if !isIdentifier(part) {
			return false
		}
	}
	return true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// validationError keeps every underlying error reachable through errors.Is.
type validationError struct {
	errs []error
}

func (e *validationError) Error() string {
	var msgs []string
	for _, err := range e.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *validationError) Unwrap() []error {
	return e.errs
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	// Flatten nested validation errors so the listing stays one level deep.
	var flat []error
	for _, err := range errs {
		var nested *validationError
		if errors.As(err, &nested) {
			flat = append(flat, nested.errs...)
			continue
		}
		flat = append(flat, err)
	}

	return &validationError{errs: flat}
}
