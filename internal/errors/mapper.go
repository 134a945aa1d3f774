// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

// Map converts repo/infra errors into gRPC-friendly status errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var ve *ValidationError
	var re *RepositoryError

	switch {
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Error())

	case errors.Is(err, ErrJobInProgress):
		return status.Error(codes.Aborted, err.Error())

	case IsNotFound(err), errors.Is(err, gorm.ErrRecordNotFound):
		return status.Error(codes.NotFound, "record not found")

	case errors.As(err, &re) && re.Kind == KindConflict:
		return status.Error(codes.AlreadyExists, "conflicting record")

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")

	case errors.As(err, &re) && re.Kind == KindUnavailable:
		return status.Error(codes.Unavailable, "datastore unavailable")

	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// HTTPStatus resolves the HTTP status and machine-readable code for err.
// Datastore details never reach the client.
func HTTPStatus(err error) (int, string) {
	var ve *ValidationError
	var re *RepositoryError

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, ErrJobInProgress):
		return http.StatusConflict, "JOB_IN_PROGRESS"
	case IsNotFound(err):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.As(err, &re) && re.Kind == KindConflict:
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT"
	case errors.As(err, &re) && re.Kind == KindUnavailable:
		return http.StatusServiceUnavailable, "UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
