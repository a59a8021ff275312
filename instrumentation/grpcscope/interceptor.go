// Package grpcscope binds the gRPC call being served to a scoped key for
// the duration of the handler.
package grpcscope

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/protobuf/proto"

	"github.com/AikidoSec/scopedtls-go/scoped"
)

// Call describes the RPC being handled on the current goroutine.
type Call struct {
	FullMethod string
	Metadata   metadata.MD
	Peer       string
	// Request is the decoded request message. It is nil for streaming calls.
	Request    any
	Stream     bool
}

var current = scoped.Declare[Call]("grpcscope.call",
	scoped.WithDoc("gRPC call being served on this goroutine"))

// Current returns the call bound by the interceptors from ServerOptions, if any.
func Current() (*Call, bool) {
	return current.Lookup()
}

// ServerOptions installs both interceptors bound to the package key.
func ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(UnaryServerInterceptor(current)),
		grpc.ChainStreamInterceptor(StreamServerInterceptor(current)),
	}
}

func newCall(ctx context.Context, fullMethod string, req any, stream bool) *Call {
	call := &Call{
		FullMethod: fullMethod,
		Request:    req,
		Stream:     stream,
	}

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		call.Metadata = md
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		call.Peer = p.Addr.String()
	}
	return call
}

// Service returns the fully qualified service name, e.g. "helloworld.Greeter".
func (c *Call) Service() string {
	service, _ := c.split()
	return service
}

// Method returns the bare method name, e.g. "SayHello".
func (c *Call) Method() string {
	_, method := c.split()
	return method
}

func (c *Call) split() (string, string) {
	name := strings.TrimPrefix(c.FullMethod, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// Header returns the incoming metadata values for key.
func (c *Call) Header(key string) []string {
	if c.Metadata == nil {
		return nil
	}
	return c.Metadata.Get(key)
}

// Message returns the request as a proto message when it is one.
func (c *Call) Message() (proto.Message, bool) {
	msg, ok := c.Request.(proto.Message)
	return msg, ok
}

type unaryResult struct {
	resp any
	err  error
}

// UnaryServerInterceptor binds a *Call to key while the unary handler runs.
func UnaryServerInterceptor(key *scoped.Key[Call]) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		res := scoped.Set(key, newCall(ctx, info.FullMethod, req, false), func() unaryResult {
			resp, err := handler(ctx, req)
			return unaryResult{resp: resp, err: err}
		})
		return res.resp, res.err
	}
}

// StreamServerInterceptor binds a *Call to key while the stream handler runs.
// Goroutines the handler starts for receiving or sending are not covered.
func StreamServerInterceptor(key *scoped.Key[Call]) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		return scoped.Set(key, newCall(ss.Context(), info.FullMethod, nil, true), func() error {
			return handler(srv, ss)
		})
	}
}
