// Package http provides the HTTP controllers and route adapter for user operations.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "github.com/allisson/users/internal/errors"
	"github.com/allisson/users/internal/registry"
	"github.com/allisson/users/internal/user/usecase"
	customValidation "github.com/allisson/users/internal/validation"
)

// Request is the transport-neutral view of an inbound HTTP request.
type Request struct {
	Body    any
	Params  map[string]string
	Query   map[string][]string
	Headers http.Header
}

// Response is the outcome of a controller: a status plus either a value or an error.
type Response struct {
	Status int
	Value  any
	Error  any
}

// Controller handles one endpoint.
type Controller interface {
	Handle(ctx context.Context, req Request) Response
}

// UserController validates a request, runs a use case and maps the outcome to a Response.
type UserController[I any] struct {
	useCase       usecase.UseCase[I]
	schema        customValidation.Schema
	validated     func(req Request) any
	input         func(req Request) I
	successStatus int
	logger        *slog.Logger
}

// Handle runs validation, then the use case, and renders the result.
func (h *UserController[I]) Handle(ctx context.Context, req Request) Response {
	result := customValidation.Compile(h.schema, h.validated(req))
	if !result.IsValid {
		h.logger.ErrorContext(ctx, "input schema error", slog.String("message", result.Message))
		return Response{Status: http.StatusBadRequest, Error: result.Message}
	}

	value, err := h.useCase.Execute(ctx, h.input(req))
	if err != nil {
		return h.failure(ctx, err)
	}

	return Response{Status: h.successStatus, Value: value}
}

func (h *UserController[I]) failure(ctx context.Context, err error) Response {
	if appErr, ok := apperrors.AsApplicationError(err); ok {
		h.logger.ErrorContext(ctx, "business rule error",
			slog.String("code", appErr.Code),
			slog.String("message", appErr.Error()),
		)
		status := appErr.StatusCode
		if status == 0 {
			status = http.StatusBadRequest
		}
		return Response{Status: status, Error: appErr.Body()}
	}

	h.logger.ErrorContext(ctx, "server error", slog.Any("error", err))
	return Response{
		Status: http.StatusUnprocessableEntity,
		Error: apperrors.ErrorBody{
			Code:   apperrors.CodeUnprocessableEntity.Name(),
			Title:  "Unprocessable Entity",
			Status: http.StatusUnprocessableEntity,
			Detail: quote(err.Error()),
		},
	}
}

func quote(message string) string {
	if message == "" {
		message = "No mapped error"
	}
	data, err := json.Marshal(message)
	if err != nil {
		return message
	}
	return string(data)
}

// NewCreateUserController handles POST /v1/users.
func NewCreateUserController(
	useCase usecase.UseCase[usecase.CreateUserInput],
	logger *slog.Logger,
) (*UserController[usecase.CreateUserInput], error) {
	if useCase == nil {
		return nil, registry.Missing(registry.KeyCreateUser)
	}
	return &UserController[usecase.CreateUserInput]{
		useCase:   useCase,
		schema:    createUserSchema(),
		validated: func(req Request) any { return req.Body },
		input: func(req Request) usecase.CreateUserInput {
			body := asObject(req.Body)
			return usecase.CreateUserInput{Name: stringField(body, "name"), Email: stringField(body, "email")}
		},
		successStatus: http.StatusCreated,
		logger:        logger,
	}, nil
}

// NewGetUserController handles GET /v1/users/:id.
func NewGetUserController(
	useCase usecase.UseCase[usecase.GetUserInput],
	logger *slog.Logger,
) (*UserController[usecase.GetUserInput], error) {
	if useCase == nil {
		return nil, registry.Missing(registry.KeyGetUser)
	}
	return &UserController[usecase.GetUserInput]{
		useCase:   useCase,
		schema:    userIDSchema(),
		validated: func(req Request) any { return req.Params },
		input: func(req Request) usecase.GetUserInput {
			return usecase.GetUserInput{ID: req.Params["id"]}
		},
		successStatus: http.StatusOK,
		logger:        logger,
	}, nil
}

// NewPutUserController handles PUT /v1/users/:id. The id param and the body are
// validated together as {id, payload}.
func NewPutUserController(
	useCase usecase.UseCase[usecase.PutUserInput],
	logger *slog.Logger,
) (*UserController[usecase.PutUserInput], error) {
	if useCase == nil {
		return nil, registry.Missing(registry.KeyPutUser)
	}
	return &UserController[usecase.PutUserInput]{
		useCase: useCase,
		schema:  putUserSchema(),
		validated: func(req Request) any {
			return map[string]any{"id": req.Params["id"], "payload": req.Body}
		},
		input: func(req Request) usecase.PutUserInput {
			body := asObject(req.Body)
			return usecase.PutUserInput{
				ID: req.Params["id"],
				Payload: usecase.UserPayload{
					Name:  stringField(body, "name"),
					Email: stringField(body, "email"),
				},
			}
		},
		successStatus: http.StatusOK,
		logger:        logger,
	}, nil
}

// NewDeleteUserController handles DELETE /v1/users/:id.
func NewDeleteUserController(
	useCase usecase.UseCase[usecase.DeleteUserInput],
	logger *slog.Logger,
) (*UserController[usecase.DeleteUserInput], error) {
	if useCase == nil {
		return nil, registry.Missing(registry.KeyDeleteUser)
	}
	return &UserController[usecase.DeleteUserInput]{
		useCase:   useCase,
		schema:    userIDSchema(),
		validated: func(req Request) any { return req.Params },
		input: func(req Request) usecase.DeleteUserInput {
			return usecase.DeleteUserInput{ID: req.Params["id"]}
		},
		successStatus: http.StatusOK,
		logger:        logger,
	}, nil
}

func asObject(body any) map[string]any {
	object, _ := body.(map[string]any)
	return object
}

func stringField(object map[string]any, key string) string {
	value, _ := object[key].(string)
	return value
}
