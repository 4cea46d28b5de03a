package usecase

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/allisson/users/internal/errors"
	"github.com/allisson/users/internal/metrics"
	"github.com/allisson/users/internal/user/domain"
)

// Operation names recorded by the metrics decorator.
const (
	OperationCreate = "user_create"
	OperationGet    = "user_get"
	OperationUpdate = "user_update"
	OperationDelete = "user_delete"
)

// useCaseWithMetrics decorates a UseCase with metrics instrumentation.
type useCaseWithMetrics[I any] struct {
	next      UseCase[I]
	metrics   metrics.BusinessMetrics
	operation string
}

// NewUseCaseWithMetrics wraps useCase, recording its outcome and duration under operation.
func NewUseCaseWithMetrics[I any](useCase UseCase[I], m metrics.BusinessMetrics, operation string) UseCase[I] {
	return &useCaseWithMetrics[I]{
		next:      useCase,
		metrics:   m,
		operation: operation,
	}
}

// Execute records metrics around the wrapped use case.
func (u *useCaseWithMetrics[I]) Execute(ctx context.Context, input I) (*domain.UserResponse, error) {
	start := time.Now()
	response, err := u.next.Execute(ctx, input)
	u.metrics.ObserveUserOperation(ctx, u.operation, outcome(err), time.Since(start))
	return response, err
}

func outcome(err error) metrics.Outcome {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	if appErr, ok := apperrors.AsApplicationError(err); ok && appErr.StatusCode == http.StatusNotFound {
		return metrics.OutcomeNotFound
	}
	switch {
	case apperrors.Is(err, apperrors.ErrConflict):
		return metrics.OutcomeConflict
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
