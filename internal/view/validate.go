package view

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/conorfennell/trivia/internal/domain"
)

// ValidationError lists the problems with a new question, keyed by field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, " ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// messages carry the wording users see for each kind of mistake.
var messages = map[string]string{
	"blank":      "{0} should not be blank.",
	"category":   "{0} should be one of the listed categories.",
	"difficulty": "{0} should be between 1 and 5.",
}

// fieldMessage picks the message for a field whatever tag it failed on.
var fieldMessage = map[string]string{
	"Question":   "blank",
	"Answer":     "blank",
	"Category":   "category",
	"Difficulty": "difficulty",
}

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	english := en.New()
	var found bool
	trans, found = ut.New(english, english).GetTranslator("en")
	if !found {
		panic("validation: english translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}

	register := func(t ut.Translator) error {
		for key, text := range messages {
			if err := t.Add(key, text, true); err != nil {
				return err
			}
		}
		return nil
	}
	for _, tag := range []string{"required", "notblank", "min", "max"} {
		if err := validate.RegisterTranslation(tag, trans, register, translateField); err != nil {
			panic(err)
		}
	}
}

func translateField(t ut.Translator, fe validator.FieldError) string {
	key, ok := fieldMessage[fe.Field()]
	if !ok {
		return fe.Error()
	}
	msg, err := t.T(key, fe.Field())
	if err != nil {
		return fe.Error()
	}
	return msg
}

// ValidateQuestion checks a new question. When known is not empty the
// category must be one of them.
func ValidateQuestion(q domain.NewQuestion, known domain.Categories) error {
	fields := map[string]string{}

	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Translate(trans)
		}
	}

	if _, bad := fields["Category"]; !bad && len(known) > 0 {
		if _, ok := known.ByID(q.Category); !ok {
			fields["Category"], _ = trans.T("category", "Category")
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
