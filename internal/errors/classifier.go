package errors

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ErrorClass int

const (
	ClassInternal ErrorClass = iota
	ClassValidation
	ClassAuthentication
	ClassAuthorization
	ClassNotFound
	ClassStorage
	ClassDependency
)

func (c ErrorClass) String() string {
	switch c {
	case ClassValidation:
		return "validation"
	case ClassAuthentication:
		return "authentication"
	case ClassAuthorization:
		return "authorization"
	case ClassNotFound:
		return "not_found"
	case ClassStorage:
		return "storage"
	case ClassDependency:
		return "dependency"
	default:
		return "internal"
	}
}

type ClassifiedError struct {
	Class         ErrorClass
	InternalError error
	ClientMessage string
	OperationName string
	Metadata      map[string]any
}

type ErrorClassifier struct {
	logger *slog.Logger
}

func NewErrorClassifier(logger *slog.Logger) *ErrorClassifier {
	return &ErrorClassifier{logger: logger}
}

var errorPool = sync.Pool{
	New: func() any {
		return &ClassifiedError{
			Metadata: make(map[string]any, 4),
		}
	},
}

// ClassOf reports the class of err without allocating a ClassifiedError.
func ClassOf(err error) ErrorClass {
	switch {
	case errors.Is(err, ErrInvalidArguments):
		return ClassValidation
	case errors.Is(err, ErrTemplateNotFound), errors.Is(err, ErrPlayerNotFound),
		errors.Is(err, ErrInvalidTemplate), errors.Is(err, ErrInvalidPlayer):
		return ClassNotFound
	case errors.Is(err, ErrStorage), errors.Is(err, ErrCatalogueCorrupt):
		return ClassStorage
	case errors.Is(err, ErrDependencyUnavailable), errors.Is(err, ErrDisabled):
		return ClassDependency
	case errors.Is(err, ErrAuthentication):
		return ClassAuthentication
	case errors.Is(err, ErrAuthorization):
		return ClassAuthorization
	default:
		return ClassInternal
	}
}

func (ec *ErrorClassifier) Classify(err error, operation string) *ClassifiedError {
	classified := errorPool.Get().(*ClassifiedError)
	classified.InternalError = err
	classified.OperationName = operation
	classified.Class = ClassOf(err)

	switch classified.Class {
	case ClassValidation:
		classified.ClientMessage = "The request contains invalid parameters"
	case ClassNotFound:
		classified.ClientMessage = "The requested kit or player was not found"
	case ClassStorage:
		classified.ClientMessage = "The kit catalogue is temporarily unavailable"
	case ClassDependency:
		classified.ClientMessage = "The kit extension is not ready"
	case ClassAuthentication:
		classified.ClientMessage = "Authentication failed"
	case ClassAuthorization:
		classified.ClientMessage = "Permission denied"
	default:
		classified.ClientMessage = "An unexpected internal error occurred"
	}

	return classified
}

func (ec *ErrorClassifier) LogAndSanitize(ctx context.Context, classified *ClassifiedError) error {
	defer ec.putError(classified)

	// caller mistakes are not server faults
	level := slog.LevelError
	switch classified.Class {
	case ClassValidation, ClassNotFound, ClassAuthentication, ClassAuthorization:
		level = slog.LevelWarn
	}
	ec.logger.Log(ctx, level, "operation failed",
		"operation", classified.OperationName,
		"error_class", classified.Class.String(),
		"internal_error", classified.InternalError.Error(),
		"metadata", classified.Metadata,
	)

	return ec.toGRPCError(classified)
}

func (ec *ErrorClassifier) toGRPCError(classified *ClassifiedError) error {
	var code codes.Code

	switch classified.Class {
	case ClassNotFound:
		code = codes.NotFound
	case ClassValidation:
		code = codes.InvalidArgument
	case ClassAuthentication:
		code = codes.Unauthenticated
	case ClassAuthorization:
		code = codes.PermissionDenied
	case ClassStorage:
		code = codes.Unavailable
	case ClassDependency:
		code = codes.FailedPrecondition
	default:
		code = codes.Internal
	}

	return status.Error(code, classified.ClientMessage)
}

func (ec *ErrorClassifier) putError(err *ClassifiedError) {
	err.InternalError = nil
	for k := range err.Metadata {
		delete(err.Metadata, k)
	}
	err.OperationName = ""
	errorPool.Put(err)
}
