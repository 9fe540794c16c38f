package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return validate.Struct(s)
}

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe)

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

var fieldNames = map[string]string{
	"TotalPlays": "total_plays",
	"TopUsers":   "top_users",
	"InviteURL":  "invite_url",
	"Name":       "name",
	"Plays":      "plays",
}

// getFieldName turns a namespace like "document.TopUsers[1].Name" into
// "top_users[1].name".
func getFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	for i, part := range parts {
		base, index := part, ""
		if j := strings.Index(part, "["); j >= 0 {
			base, index = part[:j], part[j:]
		}
		if name, ok := fieldNames[base]; ok {
			base = name
		}
		parts[i] = base + index
	}
	return strings.Join(parts, ".")
}
