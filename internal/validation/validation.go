package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const fallbackMessage = "invalid request body"

var (
	once       sync.Once
	translator ut.Translator
	setupErr   error
)

// Setup registers English messages and json field names on gin's validator.
// It is safe to call more than once.
func Setup() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			setupErr = errors.New("gin validator engine is not validator/v10")
			return
		}

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})

		eng := en.New()
		uni := ut.New(eng, eng)
		var found bool
		translator, found = uni.GetTranslator("en")
		if !found {
			setupErr = errors.New("translator not found")
			return
		}
		setupErr = en_translations.RegisterDefaultTranslations(v, translator)
	})
	return setupErr
}

// Message turns a binding error into the single message returned to clients:
// the first failed rule, translated, or a generic one for malformed bodies.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if translator != nil {
			return verrs[0].Translate(translator)
		}
		return verrs[0].Error()
	}
	return fallbackMessage
}
