package validation

import (
	"fmt"
	"sort"
	"strings"

	validation "github.com/jellydator/validation"
)

// bodyField names the input itself when it is not an object.
const bodyField = "body"

// Schema describes the accepted shape of an input object. Keys not listed are
// rejected unless the schema allows extra keys.
type Schema = validation.MapRule

// Result is the outcome of checking data against a Schema.
type Result struct {
	IsValid bool
	Message string
}

// Compile checks data against schema. On failure Message lists every violation
// as "field: <name> - error: <description>", sorted by field and comma joined.
// Nested fields are dotted, e.g. "payload.name".
func Compile(schema Schema, data any) Result {
	object, ok := asObject(data)
	if !ok {
		return invalid([]string{describe(bodyField, "must be object")})
	}

	err := schema.Validate(object)
	if err == nil {
		return Result{IsValid: true}
	}

	errs, ok := err.(validation.Errors)
	if !ok {
		return invalid([]string{describe(bodyField, err.Error())})
	}
	return invalid(flatten("", errs))
}

func asObject(data any) (map[string]any, bool) {
	switch v := data.(type) {
	case map[string]any:
		return v, v != nil
	case map[string]string:
		object := make(map[string]any, len(v))
		for key, value := range v {
			object[key] = value
		}
		return object, true
	default:
		return nil, false
	}
}

func flatten(prefix string, errs validation.Errors) []string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var messages []string
	for _, field := range fields {
		name := field
		if prefix != "" {
			name = prefix + "." + field
		}
		if nested, ok := errs[field].(validation.Errors); ok {
			messages = append(messages, flatten(name, nested)...)
			continue
		}
		messages = append(messages, describe(name, errs[field].Error()))
	}
	return messages
}

func describe(field, description string) string {
	return fmt.Sprintf("field: %s - error: %s", field, description)
}

func invalid(messages []string) Result {
	return Result{IsValid: false, Message: strings.Join(messages, ", ")}
}
