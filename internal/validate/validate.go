package validate

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reFilename = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]{1,32})?$`)

	validate = validator.New()
	trans    ut.Translator
)

func init() {
	english := en.New()
	trans, _ = ut.New(english, english).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	// report fields by their wire name
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	_ = validate.RegisterValidation("float", isFloat)
	_ = validate.RegisterTranslation("float", trans,
		func(ut ut.Translator) error {
			return ut.Add("float", "{0} must be a number", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("float", fe.Field())
			return msg
		})
}

// isFloat accepts anything strconv.ParseFloat does once trimmed, blank
// included, apart from NaN and infinities.
func isFloat(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Struct validates s against its `validate` tags. The returned message is
// safe to show to clients; ok is false when any rule failed.
func Struct(s any) (string, bool) {
	err := validate.Struct(s)
	if err == nil {
		return "", true
	}
	verrs, isValidation := err.(validator.ValidationErrors)
	if !isValidation {
		return err.Error(), false
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return strings.Join(msgs, "; "), false
}

// ID validates a simple resource identifier before it reaches a store.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Filename accepts only names the file store could have produced: a single
// path element with an optional extension.
func Filename(s string) (string, bool) {
	if strings.Contains(s, "..") || strings.ContainsAny(s, "/\\\x00") {
		return "", false
	}
	return s, reFilename.MatchString(s)
}
