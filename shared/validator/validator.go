package validator

import (
	"encoding/json"
	"fmt"
	"guestroom/config"
	"guestroom/shared/base64"
	"guestroom/shared/failure"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const bytesPerMB = 1 << 20

// configValidator is implemented by field types whose rules depend on configuration, such as
// the allowed institutional email domains. The "guestroom" tag runs it.
type configValidator interface {
	Validate(cfg *config.Config) error
}

var validate = newValidator(config.Get())

func newValidator(cfg *config.Config) *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	rules := map[string]val.Func{
		"guestroom":   configRule(cfg),
		"mimetypes":   mimetypes,
		"maxfilesize": maxFileSize,
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

func configRule(cfg *config.Config) val.Func {
	return func(fl val.FieldLevel) bool {
		field, ok := fl.Field().Interface().(configValidator)

		return ok && field.Validate(cfg) == nil
	}
}

// mimetypes checks the media type of a base64 data URL against a space separated list.
func mimetypes(fl val.FieldLevel) bool {
	contentType := base64.GetContentType(fl.Field().String())

	return contentType != "" && slices.Contains(strings.Fields(fl.Param()), contentType)
}

// maxFileSize checks the decoded size of a base64 data URL against a limit in megabytes.
func maxFileSize(fl val.FieldLevel) bool {
	limit, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}

	return float64(base64.DecodedSize(fl.Field().String())) <= limit*bytesPerMB
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return field.Name
	}

	return name
}

// Validate decodes a JSON body into data and validates it.
func Validate[T any](r io.Reader, data *T) error {
	if err := Decode(r, data); err != nil {
		return err
	}

	return ValidateStruct(data)
}

// Decode only reads the body. Callers that complete the struct first validate it later
// with ValidateStruct.
func Decode[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return nil
}

// ValidateStruct returns a 400 failure carrying a readable message for the first broken rule.
func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
