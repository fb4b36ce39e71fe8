package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"prestige/config"
	"prestige/shared/constant"
	"prestige/shared/failure"
	"prestige/shared/timezone"
	"reflect"
	"slices"
	"strconv"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(jsonName)

	rules := map[string]val.Func{
		"mimetypes":   validateMimetype,
		"maxfilesize": validateFileSize,
		"date":        validateDate,
	}

	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// jsonName reports fields by their wire name so messages match the request body.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return constant.Empty
	case constant.Empty:
		return field.Name
	default:
		return name
	}
}

// validateMimetype checks the declared content type of an uploaded file against a
// space separated allow list, e.g. mimetypes=image/png image/jpeg.
func validateMimetype(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	contentType := strings.ToLower(file.Header.Get(constant.RequestHeaderContentType))

	return slices.Contains(strings.Fields(field.Param()), contentType)
}

// validateFileSize takes the limit in megabytes from the tag parameter, or from
// the configured image limit when the tag has none.
func validateFileSize(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	limitMB := float64(config.Get().ImageMaxSizeMB())

	if param := field.Param(); param != constant.Empty {
		parsed, err := strconv.ParseFloat(param, 64)
		if err != nil {
			return false
		}

		limitMB = parsed
	}

	return float64(file.Size) <= limitMB*constant.BytesPerMegabyte
}

func validateDate(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := timezone.ParseDate(value)

	return err == nil
}

// Validate decodes a JSON body into data and validates it.
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)

	if err := decoder.Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

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
