// Package grpcutil carries the helpers shared by the hand-registered gRPC
// services. Messages are protobuf well-known types, so no generated code is
// needed on either side.
package grpcutil

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct converts a JSON-tagged value into a Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	fields, err := toJSONValue(v)
	if err != nil {
		return nil, err
	}
	m, ok := fields.(map[string]any)
	if !ok {
		return nil, status.Error(codes.Internal, "response is not an object")
	}
	return structpb.NewStruct(m)
}

// ToList converts a JSON-tagged slice into a ListValue.
func ToList(v any) (*structpb.ListValue, error) {
	items, err := toJSONValue(v)
	if err != nil {
		return nil, err
	}
	list, ok := items.([]any)
	if !ok {
		list = []any{}
	}
	return structpb.NewList(list)
}

// FromStruct decodes s into the JSON-tagged value dst.
func FromStruct(s *structpb.Struct, dst any) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return nil
}

// Error converts a use case error into a gRPC status.
func Error(err error) error {
	code := CodeFor(err)
	if code == codes.Internal {
		log.Printf("grpc: %v", err)
		return status.Error(code, "internal error")
	}
	return status.Error(code, err.Error())
}

func CodeFor(err error) codes.Code {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return codes.InvalidArgument
	case errors.Is(err, domain.ErrConflict):
		return codes.AlreadyExists
	case errors.Is(err, domain.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrPolicyViolation):
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}
