// Package grpcbind provides a dynamic RPC stub for wrapped messages. It can
// invoke unary methods where only method descriptors are known at runtime;
// requests may be wrapped or native messages, and responses come back wrapped.
package grpcbind

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/protobind/protobind/msgbind"
)

// Stub is an RPC client stub, used for dynamically dispatching RPCs to a
// server.
type Stub struct {
	channel  grpc.ClientConnInterface
	resolver msgbind.Resolver
}

// NewStub creates a new RPC stub that uses the given channel for dispatching
// RPCs.
func NewStub(channel grpc.ClientConnInterface, opts ...StubOption) *Stub {
	stub := &Stub{channel: channel}
	for _, opt := range opts {
		opt.apply(stub)
	}
	return stub
}

// StubOption is an option that can be used to customize behavior when
// creating a Stub.
type StubOption interface {
	apply(*Stub)
}

type stubOptionFunc func(*Stub)

func (s stubOptionFunc) apply(stub *Stub) {
	s(stub)
}

// WithResolver returns a StubOption that causes a Stub to use the given
// resolver for allocating response messages. If not specified, the global
// registries are used. If the resolver does not know the response type, a
// dynamic message is used.
func WithResolver(res msgbind.Resolver) StubOption {
	return stubOptionFunc(func(s *Stub) {
		s.resolver = res
	})
}

func requestMethod(md protoreflect.MethodDescriptor) string {
	return fmt.Sprintf("/%s/%s", md.Parent().FullName(), md.Name())
}

// Invoke sends a unary RPC and returns the wrapped response. Streaming
// methods are rejected.
func (s *Stub) Invoke(ctx context.Context, method protoreflect.MethodDescriptor, request proto.Message, opts ...grpc.CallOption) (*msgbind.Message, error) {
	if method.IsStreamingClient() || method.IsStreamingServer() {
		return nil, fmt.Errorf("Invoke is for unary methods; %q is %s", method.FullName(), methodType(method))
	}
	if err := checkMessageType(method.Input(), request); err != nil {
		return nil, err
	}
	resp := s.newMessage(method.Output())
	if err := s.channel.Invoke(ctx, requestMethod(method), request, resp, opts...); err != nil {
		return nil, err
	}
	return msgbind.Wrap(resp, msgbind.WithResolver(s.resolver)), nil
}

// MethodByName finds a method descriptor by its full name in the given
// descriptor source.
func MethodByName(src interface {
	FindDescriptorByName(protoreflect.FullName) (protoreflect.Descriptor, error)
}, name protoreflect.FullName) (protoreflect.MethodDescriptor, error) {
	d, err := src.FindDescriptorByName(name)
	if err != nil {
		return nil, err
	}
	md, ok := d.(protoreflect.MethodDescriptor)
	if !ok {
		return nil, fmt.Errorf("%s is a %T, not a method", name, d)
	}
	return md, nil
}

func (s *Stub) newMessage(md protoreflect.MessageDescriptor) proto.Message {
	if s.resolver != nil {
		if mt, err := s.resolver.FindMessageByName(md.FullName()); err == nil {
			return mt.New().Interface()
		}
	}
	return dynamicpb.NewMessage(md)
}

func methodType(md protoreflect.MethodDescriptor) string {
	switch {
	case md.IsStreamingClient() && md.IsStreamingServer():
		return "bidi-streaming"
	case md.IsStreamingClient():
		return "client-streaming"
	case md.IsStreamingServer():
		return "server-streaming"
	default:
		return "unary"
	}
}

func checkMessageType(md protoreflect.MessageDescriptor, msg proto.Message) error {
	typeName := msg.ProtoReflect().Descriptor().FullName()
	if typeName != md.FullName() {
		return fmt.Errorf("expecting message of type %s; got %s", md.FullName(), typeName)
	}
	return nil
}
