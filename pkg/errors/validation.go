package errors

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance.
var validate = validator.New(validator.WithRequiredStructEnabled())

// maxIDLength bounds record IDs accepted from callers.
const maxIDLength = 128

// ValidateID validates an identifier received from outside the process
// (stored layout IDs, cache scopes).
//
// Validation rules:
//   - No empty IDs
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id contains invalid control characters")
		}
	}
	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "id contains invalid characters: %q", id)
	}
	return nil
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateStruct checks v against its `validate` struct tags and returns
// the first violation as an INVALID_INPUT error.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return Wrap(ErrCodeInvalidInput, err, "validation failed")
	}

	e := verrs[0]
	field := e.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch e.Tag() {
	case "required":
		return New(ErrCodeInvalidInput, "%s: field is required", field)
	case "min", "gte":
		return New(ErrCodeInvalidInput, "%s: must be at least %s", field, e.Param())
	case "max", "lte":
		return New(ErrCodeInvalidInput, "%s: must not exceed %s", field, e.Param())
	case "gt":
		return New(ErrCodeInvalidInput, "%s: must be greater than %s", field, e.Param())
	case "oneof":
		return New(ErrCodeInvalidInput, "%s: must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", "))
	default:
		return New(ErrCodeInvalidInput, "%s: validation failed (%s)", field, e.Tag())
	}
}
