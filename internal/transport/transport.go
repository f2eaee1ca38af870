// Package transport exposes use cases over gRPC without generated stubs.
// Every RPC takes and returns a google.protobuf.Struct whose JSON shape
// mirrors the DTOs, so the standard proto codec and interceptors work
// unchanged. Register also publishes a file descriptor per service in the
// global registry, which is what server reflection and grpcurl resolve.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/validation"
)

const Package = "easybuy.catalog.v1"

// Server is implemented by every handler that can be registered on a
// grpc.Server.
type Server interface {
	ServiceDesc() *grpc.ServiceDesc
}

// Register attaches every handler to s and publishes its descriptor.
func Register(s grpc.ServiceRegistrar, servers ...Server) error {
	for _, srv := range servers {
		desc := srv.ServiceDesc()
		if err := describe(desc); err != nil {
			return err
		}
		s.RegisterService(desc, srv)
	}
	return nil
}

var describeMu sync.Mutex

// describe registers a proto file declaring desc's service, with Struct in and
// out of every method. A file already registered under the same path is kept.
func describe(desc *grpc.ServiceDesc) error {
	path, _ := desc.Metadata.(string)

	describeMu.Lock()
	defer describeMu.Unlock()
	if _, err := protoregistry.GlobalFiles.FindFileByPath(path); err == nil {
		return nil
	}

	const structType = ".google.protobuf.Struct"
	methods := make([]*descriptorpb.MethodDescriptorProto, 0, len(desc.Methods))
	for _, m := range desc.Methods {
		methods = append(methods, &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(m.MethodName),
			InputType:  proto.String(structType),
			OutputType: proto.String(structType),
		})
	}

	file := &descriptorpb.FileDescriptorProto{
		Name:       proto.String(path),
		Package:    proto.String(Package),
		Dependency: []string{"google/protobuf/struct.proto"},
		Syntax:     proto.String("proto3"),
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name:   proto.String(strings.TrimPrefix(desc.ServiceName, Package+".")),
			Method: methods,
		}},
	}

	fd, err := protodesc.NewFile(file, protoregistry.GlobalFiles)
	if err != nil {
		return fmt.Errorf("describe %s: %w", desc.ServiceName, err)
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		return fmt.Errorf("register %s: %w", desc.ServiceName, err)
	}
	return nil
}

type HandlerFunc func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// Service builds a descriptor for the named service in Package.
func Service(name string, methods ...grpc.MethodDesc) *grpc.ServiceDesc {
	return &grpc.ServiceDesc{
		ServiceName: FullName(name),
		HandlerType: (*Server)(nil),
		Methods:     methods,
		Streams:     []grpc.StreamDesc{},
		Metadata:    "easybuy/catalog/v1/" + strings.ToLower(name) + ".proto",
	}
}

func FullName(service string) string {
	return Package + "." + service
}

// FullMethod returns the path clients use to invoke method.
func FullMethod(service, method string) string {
	return "/" + FullName(service) + "/" + method
}

// Method adapts fn into a unary method descriptor that honours the server's
// interceptor chain.
func Method(service, name string, fn HandlerFunc) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(service, name),
			}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return fn(ctx, req.(*structpb.Struct))
			})
		},
	}
}

// Decode fills dst from the request payload.
func Decode(in *structpb.Struct, dst any) error {
	data, err := protojson.Marshal(in)
	if err != nil {
		return apperr.InvalidArgument("", err.Error())
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return apperr.InvalidArgument("", err.Error())
	}
	return nil
}

// Bind decodes the request into dst and validates it.
func Bind(in *structpb.Struct, dst any) error {
	if err := Decode(in, dst); err != nil {
		return err
	}
	return validation.Struct(dst)
}

// Encode converts v, which must marshal to a JSON object, into a response.
func Encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, apperr.Wrap(err, "encode response")
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, apperr.Wrap(err, "encode response")
	}
	return out, nil
}

// Invoke calls a unary method on conn, encoding in and decoding the reply
// into out.
func Invoke(ctx context.Context, conn grpc.ClientConnInterface, service, method string, in, out any) error {
	req, err := Encode(in)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := conn.Invoke(ctx, FullMethod(service, method), req, resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return Decode(resp, out)
}

// ID is the payload of every request addressing a single entity.
type ID struct {
	ID string `json:"id" validate:"required"`
}

type Empty struct{}
