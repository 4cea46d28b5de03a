// Package validation provides declarative input schemas and the custom rules they use.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"
)

// String validates that a value is a JSON string.
var String = validation.By(func(value any) error {
	if _, ok := value.(string); !ok {
		return validation.NewError("validation_is_string", "must be string")
	}
	return nil
})

// Object validates that a value is a JSON object.
var Object = validation.By(func(value any) error {
	if _, ok := value.(map[string]any); !ok {
		return validation.NewError("validation_is_object", "must be object")
	}
	return nil
})

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
