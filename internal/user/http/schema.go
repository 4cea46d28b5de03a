package http

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/users/internal/validation"
)

// userBodySchema accepts {name, email} with string values.
func userBodySchema() customValidation.Schema {
	return validation.Map(
		validation.Key("name", customValidation.String),
		validation.Key("email", customValidation.String),
	)
}

// createUserSchema validates the body of POST /v1/users.
func createUserSchema() customValidation.Schema {
	return userBodySchema()
}

// userIDSchema validates the path params of GET and DELETE /v1/users/:id.
func userIDSchema() customValidation.Schema {
	return validation.Map(
		validation.Key("id", customValidation.String, validation.Required, customValidation.NotBlank),
	)
}

// putUserSchema validates the composed {id, payload} input of PUT /v1/users/:id.
func putUserSchema() customValidation.Schema {
	return validation.Map(
		validation.Key("id", customValidation.String, validation.Required, customValidation.NotBlank),
		validation.Key("payload", customValidation.Object, userBodySchema()),
	)
}
