package errors

import (
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// TranslateValidatorError takes an error from the go-playground validator (internally just a map of errors) and converts
// it into a BadRequestError whose message joins every translated field error.
func TranslateValidatorError(err error, trans ut.Translator) error {
	switch err.(type) {
	case validator.ValidationErrors:
		errs := (err.(validator.ValidationErrors)).Translate(trans)

		vals := make([]string, 0, len(errs))
		for _, value := range errs {
			vals = append(vals, value)
		}
		sort.Strings(vals)

		return NewBadRequestError(strings.Join(vals, " "))
	default:
		return err
	}
}
