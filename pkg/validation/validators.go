package validation

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"go-application-form/internal/domain"

	"github.com/go-playground/validator/v10"
)

// whitespace is the class browsers treat as \s: ASCII whitespace plus
// vertical tab, every Zs space, the line/paragraph separators and the BOM.
const whitespace = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

// Regex patterns
var (
	// ASCII letters and whitespace only
	lettersSpacesRegex = regexp.MustCompile(`^[A-Za-z` + whitespace + `]+$`)

	// something@something.something, no whitespace and a single @
	emailRegex = regexp.MustCompile(`^[^` + whitespace + `@]+@[^` + whitespace + `@]+\.[^` + whitespace + `@]+$`)

	// Exactly ten decimal digits
	phoneRegex = regexp.MustCompile(`^\d{10}$`)

	// Scheme, then anything, a literal dot, then anything
	httpURLRegex = regexp.MustCompile(`^https?://.+\..+`)

	// Plain decimal notation with optional sign, fraction and exponent.
	// Keeps hex, underscores and inf/nan spellings away from ParseFloat.
	decimalRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// New returns a validator configured for application records: json field
// names in errors, the custom tags below and the conditional company rule.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonTagName)
	RegisterValidators(v)
	v.RegisterStructValidation(ApplicationStructLevel, domain.ApplicationRecord{})
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("notblank", NotBlank)
	_ = v.RegisterValidation("letters_spaces", LettersSpaces)
	_ = v.RegisterValidation("simple_email", SimpleEmail)
	_ = v.RegisterValidation("ten_digits", TenDigits)
	_ = v.RegisterValidation("http_url", HTTPURL)
	_ = v.RegisterValidation("non_negative_number", NonNegativeNumber)
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// NotBlank fails when the string is empty after trimming whitespace
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// LettersSpaces validates that a name holds only letters and whitespace
func LettersSpaces(fl validator.FieldLevel) bool {
	return lettersSpacesRegex.MatchString(fl.Field().String())
}

// SimpleEmail validates the loose local@domain.tld shape
func SimpleEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// TenDigits validates a phone number of exactly ten digits
func TenDigits(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// HTTPURL validates that a link looks like http(s)://host.tld
func HTTPURL(fl validator.FieldLevel) bool {
	return httpURLRegex.MatchString(fl.Field().String())
}

// NonNegativeNumber validates a numeric string that is zero or more
func NonNegativeNumber(fl validator.FieldLevel) bool {
	_, ok := ParseNonNegative(fl.Field().String())
	return ok
}

// ParseNonNegative parses s as a decimal number after trimming surrounding
// whitespace. Only plain decimal notation is accepted. Values that overflow
// float64, and anything below zero, are rejected.
func ParseNonNegative(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !decimalRegex.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	if n < 0 {
		return 0, false
	}
	return n, true
}

// ApplicationStructLevel carries the rules that depend on more than one field.
// Company is only required while the applicant reports being employed.
func ApplicationStructLevel(sl validator.StructLevel) {
	record, ok := sl.Current().Interface().(domain.ApplicationRecord)
	if !ok {
		return
	}
	if record.Employed == domain.EmployedYes && strings.TrimSpace(record.Company) == "" {
		sl.ReportError(record.Company, domain.FieldCompany, "Company", "required_if_employed", "")
	}
}
