package qdrant

import (
	"context"
	"fmt"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// DefaultGRPCPort is the port Qdrant serves gRPC on.
const DefaultGRPCPort = 6334

// Options configures New.
type Options struct {
	// Host is the server hostname, without scheme or port.
	Host string

	// Port is the gRPC port. Zero means DefaultGRPCPort.
	Port int

	// APIKey is sent with every request when set.
	APIKey string

	// UseTLS enables transport security (always on for cloud clusters).
	UseTLS bool

	// Timeout bounds every call that arrives without its own deadline.
	// Zero disables the bound.
	Timeout time.Duration

	// CheckCompatibility asks the client to compare client and server
	// versions when connecting.
	CheckCompatibility bool
}

// Backend is a vectordb.Backend over the official Qdrant gRPC client.
type Backend struct {
	api *qdrant.Client
}

var _ vectordb.Backend = (*Backend)(nil)

// New builds the gRPC client. The connection is established lazily, so the
// first call is the one that proves the server is reachable.
func New(opts Options) (*Backend, error) {
	if opts.Host == "" {
		return nil, fmt.Errorf("qdrant: empty host")
	}
	port := opts.Port
	if port == 0 {
		port = DefaultGRPCPort
	}

	var grpcOptions []grpc.DialOption
	if opts.Timeout > 0 {
		grpcOptions = append(grpcOptions, grpc.WithChainUnaryInterceptor(timeoutInterceptor(opts.Timeout)))
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   opts.Host,
		Port:                   port,
		APIKey:                 opts.APIKey,
		UseTLS:                 opts.UseTLS,
		SkipCompatibilityCheck: !opts.CheckCompatibility,
		GrpcOptions:            grpcOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: initialize client: %w", err)
	}
	return &Backend{api: client}, nil
}

// timeoutInterceptor applies d to calls whose context has no deadline.
func timeoutInterceptor(d time.Duration) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// Client returns the underlying SDK client.
func (b *Backend) Client() *qdrant.Client {
	return b.api
}

// Close closes the gRPC connection.
func (b *Backend) Close() error {
	return b.api.Close()
}
