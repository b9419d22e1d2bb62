package endpoint

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/mitchellh/mapstructure"

	e "github.com/jobly/jobly-api/rest/errors"
	"github.com/jobly/jobly-api/types"
)

var (
	inputValidator *validator.Validate
	trans          ut.Translator
)

func init() {
	inputValidator = validator.New()

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(inputValidator, trans)

	_ = inputValidator.RegisterTranslation("required", trans, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is a required field", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		translator, _ := ut.T("required", fe.Field())
		return translator
	})

	inputValidator.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, key := range []string{"json", "mapstructure"} {
			if name := strings.SplitN(field.Tag.Get(key), ",", 2)[0]; name != "" && name != "-" {
				return name
			}
		}
		return ""
	})

	// Decimals are validated as float64 so min and max apply; NULL is skipped by omitempty
	inputValidator.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		d, ok := field.Interface().(types.Decimal)
		if !ok || !d.Valid() {
			return nil
		}
		f, err := strconv.ParseFloat(d.String(), 64)
		if err != nil {
			return nil
		}
		return f
	}, types.Decimal{})
}

func parseAndValidatePayload(obj interface{}, r *http.Request) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(obj); err != nil {
		return payloadError(err)
	}

	if err := inputValidator.Struct(obj); err != nil {
		return e.TranslateValidatorError(err, trans)
	}

	return nil
}

func payloadError(err error) error {
	if err == io.EOF {
		return e.NewBadRequestError("request body is required")
	}
	return e.NewBadRequestError(fmt.Sprintf("invalid request body: %s", err))
}

// fieldSchema describes a field accepted by a partial update
type fieldSchema struct {
	Type     types.FieldType
	Nullable bool
	// Tag holds the validator rules applied to the converted value
	Tag string
}

var companyUpdateSchema = map[string]fieldSchema{
	"name":         {Type: types.TypeText, Tag: "min=1"},
	"description":  {Type: types.TypeText},
	"numEmployees": {Type: types.TypeInt, Nullable: true, Tag: "min=0,max=2147483647"},
	"logoUrl":      {Type: types.TypeText, Nullable: true, Tag: "url"},
}

var jobUpdateSchema = map[string]fieldSchema{
	"title":  {Type: types.TypeText, Tag: "min=1"},
	"salary": {Type: types.TypeInt, Nullable: true, Tag: "min=0,max=2147483647"},
	"equity": {Type: types.TypeDecimal, Nullable: true, Tag: "min=0,max=1"},
}

var userUpdateSchema = map[string]fieldSchema{
	"firstName": {Type: types.TypeText, Tag: "min=1,max=30"},
	"lastName":  {Type: types.TypeText, Tag: "min=1,max=30"},
	"password":  {Type: types.TypeText, Tag: "min=5,max=20"},
	"email":     {Type: types.TypeText, Tag: "min=6,max=60,email"},
	"isAdmin":   {Type: types.TypeBoolean},
}

// parsePatch decodes the request body into a patch, rejecting fields the schema
// does not know and converting every value to the type of its column. An empty
// object is returned as an empty patch.
func parsePatch(r *http.Request, schema map[string]fieldSchema) (types.Patch, error) {
	var patch types.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		return nil, payloadError(err)
	}

	var messages []string
	for i, fv := range patch {
		field, ok := schema[fv.Field]
		if !ok {
			messages = append(messages, fmt.Sprintf("%s is not allowed", fv.Field))
			continue
		}

		if fv.Value == nil {
			if !field.Nullable {
				messages = append(messages, fmt.Sprintf("%s must not be null", fv.Field))
			}
			continue
		}

		value, err := types.FromJsonValue(fv.Value, field.Type)
		if err != nil {
			messages = append(messages, fmt.Sprintf("%s must be of type %s", fv.Field, field.Type))
			continue
		}

		if field.Tag != "" {
			if msg := validateValue(fv.Field, value, field.Tag); msg != "" {
				messages = append(messages, msg)
				continue
			}
		}
		patch[i].Value = value
	}

	if len(messages) > 0 {
		sort.Strings(messages)
		return nil, e.NewBadRequestError(strings.Join(messages, " "))
	}
	return patch, nil
}

func validateValue(field string, value interface{}, tag string) string {
	err := inputValidator.Var(value, tag)
	if err == nil {
		return ""
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Sprintf("%s is invalid", field)
	}
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		// Var has no field name, the translation starts with an empty one
		messages = append(messages, field+" "+strings.TrimSpace(fe.Translate(trans)))
	}
	return strings.Join(messages, " ")
}

// parseFilter decodes the query string of r into filter. Unknown keys are
// rejected and values are converted to the field types.
func parseFilter(r *http.Request, filter interface{}) error {
	values := make(map[string]interface{})
	for key, list := range r.URL.Query() {
		if len(list) > 0 {
			values[key] = list[0]
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           filter,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(values); err != nil {
		return e.NewBadRequestError(fmt.Sprintf("invalid query: %s", err))
	}

	if err := inputValidator.Struct(filter); err != nil {
		return e.TranslateValidatorError(err, trans)
	}
	return nil
}
