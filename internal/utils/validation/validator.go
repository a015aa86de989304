package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrValidatorInit = errors.New("validator initialization failed")

// Money amounts are stored as numeric(19,2): at most 17 integer digits and
// 2 decimals.
const (
	MaxIntegerDigits = 17
	MaxDecimals      = 2

	maxScale = 32
)

// FieldError is a problem with one request field, named as it appears on the wire.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors collects every field problem of a request.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Details maps field names to messages. The first message per field wins.
func (e Errors) Details() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// Field builds a single-field error.
func Field(field, message string) Errors {
	return Errors{{Field: field, Message: message}}
}

// AsErrors unwraps err into Errors.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
	errValidate  error
)

func initValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	if err := v.RegisterValidation("positive_decimal", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.IsPositive()
	}); err != nil {
		return nil, fmt.Errorf("%w: positive_decimal: %w", ErrValidatorInit, err)
	}

	// Both money checks bound the exponent before any arithmetic, so a value
	// like 1e20000000 is rejected without being expanded.
	if err := v.RegisterValidation("decimal_max", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && belowMax(d)
	}); err != nil {
		return nil, fmt.Errorf("%w: decimal_max: %w", ErrValidatorInit, err)
	}

	if err := v.RegisterValidation("decimal_places", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && decimalPlaces(d) <= MaxDecimals
	}); err != nil {
		return nil, fmt.Errorf("%w: decimal_places: %w", ErrValidatorInit, err)
	}

	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		return nil, fmt.Errorf("%w: notblank: %w", ErrValidatorInit, err)
	}

	return v, nil
}

var maxAmount = decimal.New(1, MaxIntegerDigits)

// belowMax reports whether |d| < 10^MaxIntegerDigits. Comparing rescales to
// the smaller exponent, so the exponent is bounded before comparing.
func belowMax(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	switch {
	case exp >= MaxIntegerDigits:
		return d.IsZero()
	case exp < -maxScale:
		// decimal_places rejects these.
		return true
	}
	return d.Abs().LessThan(maxAmount)
}

// decimalPlaces counts significant decimals, so 1.500 has 1. Scales beyond
// maxScale are reported as is without inspecting the digits.
func decimalPlaces(d decimal.Decimal) int {
	exp := int(d.Exponent())
	if exp >= 0 {
		return 0
	}
	if -exp > maxScale {
		return -exp
	}
	digits := d.Coefficient().String()
	n := -exp
	for n > 0 && len(digits) > 0 && digits[len(digits)-1] == '0' {
		digits = digits[:len(digits)-1]
		n--
	}
	return n
}

func get() (*validator.Validate, error) {
	validateOnce.Do(func() {
		validate, errValidate = initValidator()
	})
	return validate, errValidate
}

var messages = map[string]func(param string) string{
	"required":         func(string) string { return "is required" },
	"notblank":         func(string) string { return "must not be blank" },
	"max":              func(p string) string { return "must be at most " + p + " characters" },
	"positive_decimal": func(string) string { return "must be greater than 0" },
	"decimal_max":      func(string) string { return "must be less than 100000000000000000" },
	"decimal_places":   func(string) string { return "must have at most 2 decimals" },
}

func message(fe validator.FieldError) string {
	if f, ok := messages[fe.Tag()]; ok {
		return f(fe.Param())
	}
	return fmt.Sprintf("failed '%s' check", fe.Tag())
}

// Struct validates payload against its validate tags. It returns Errors
// sorted by field name, or nil.
func Struct(payload interface{}) error {
	v, err := get()
	if err != nil {
		return err
	}

	err = v.Struct(payload)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("validate: %w", err)
	}

	out := make(Errors, 0, len(ves))
	for _, fe := range ves {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}
