package form

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/registration-relay/internal/models"
)

// Errors maps a form field to its single human-readable message.
type Errors map[string]string

// Has reports whether the field currently carries an error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Fields returns the errored fields in form order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for _, field := range models.FormFields {
		if e.Has(field) {
			out = append(out, field)
		}
	}
	return out
}

// emailToken is a run without "@" or ECMAScript whitespace, which is wider than RE2's \s.
const emailToken = `[^\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}@]+`

var emailPattern = regexp.MustCompile(`^` + emailToken + `@` + emailToken + `\.` + emailToken + `$`)

// isFormSpace matches the whitespace browsers strip with String.prototype.trim.
func isFormSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func trimForm(s string) string {
	return strings.TrimFunc(s, isFormSpace)
}

// formLength counts UTF-16 code units, the unit browser form lengths are measured in.
func formLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// messages is keyed by field, then by the validator tag that failed.
var messages = map[string]map[string]string{
	models.FieldFullName: {
		"notblank": "Full name is required",
		"trimmin":  "Full name must be at least 2 characters",
	},
	models.FieldGuardianName: {
		"notblank": "Guardian name is required",
		"trimmin":  "Guardian name must be at least 2 characters",
	},
	models.FieldClassGrade: {
		"notblank": "Class/Grade is required",
	},
	models.FieldLanguage: {
		"notblank": "Language is required",
	},
	models.FieldLocation: {
		"notblank": "Location is required",
	},
	models.FieldEmailAddress: {
		"notblank":    "Email address is required",
		"simpleemail": "Please enter a valid email address",
	},
	models.FieldPassword: {
		"notblank": "Password is required",
		"minlen":   "Password must be at least 6 characters",
	},
	models.FieldConfirmPassword: {
		"notblank": "Please confirm your password",
		"eqfield":  "Passwords do not match",
	},
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return trimForm(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("trimmin", func(fl validator.FieldLevel) bool {
			min, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return formLength(trimForm(fl.Field().String())) >= min
		})
		_ = v.RegisterValidation("minlen", func(fl validator.FieldLevel) bool {
			min, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return formLength(fl.Field().String()) >= min
		})
		_ = v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate checks every field independently and collects one message per failing field.
// The result is empty when the input is valid.
func Validate(input models.RegistrationInput) Errors {
	out := Errors{}
	err := formValidator().Struct(input)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = message(fe.Field(), fe.Tag())
	}
	return out
}

func message(field, tag string) string {
	if msg, ok := messages[field][tag]; ok {
		return msg
	}
	return field + " is invalid"
}
