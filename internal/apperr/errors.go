// Package apperr is the error taxonomy shared by the catalog use cases.
package apperr

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindInternal        Kind = "INTERNAL"
)

type Error struct {
	Kind   Kind
	Entity string
	ID     string
	Field  string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
	case KindConflict:
		return "conflict: " + e.Reason
	case KindInvalidArgument:
		return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(entity, id string) error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id}
}

func Conflict(reason string) error {
	return &Error{Kind: KindConflict, Reason: reason}
}

func InvalidArgument(field, reason string) error {
	return &Error{Kind: KindInvalidArgument, Field: field, Reason: reason}
}

// Wrap marks err as an internal failure. Already classified errors pass through.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindInternal, Reason: msg, Err: err}
}

func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// GRPCStatus converts err into a gRPC status error. Internal details are not
// leaked to the client.
func GRPCStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch KindOf(err) {
	case KindNotFound:
		return status.Error(codes.NotFound, err.Error())
	case KindConflict:
		return status.Error(codes.AlreadyExists, err.Error())
	case KindInvalidArgument:
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
