package host

import (
	"context"

	"google.golang.org/grpc"

	adaptygrpc "github.com/adaptyteam/adapty-sdk-go/pkg/grpc"
	"github.com/adaptyteam/adapty-sdk-go/pkg/transport"
)

// eventBuffer is the per-stream queue of events waiting to be sent.
const eventBuffer = 64

// GRPC implements the Bridge service over t.
type GRPC struct {
	t transport.Transport
}

// NewGRPC returns the Bridge service implementation over t.
func NewGRPC(t transport.Transport) *GRPC {
	return &GRPC{t: t}
}

// Invoke forwards one call.
func (g *GRPC) Invoke(ctx context.Context, method, params, resultType string) (string, error) {
	return g.t.Request(ctx, method, params, resultType)
}

// Subscribe streams the requested events, or all of Events when none are
// named, until ctx ends. Events are dropped when the stream falls behind.
func (g *GRPC) Subscribe(ctx context.Context, events []string, send func(name, payload string) error) error {
	if len(events) == 0 {
		events = Events
	}

	queue := make(chan [2]string, eventBuffer)
	for _, event := range events {
		event := event
		sub := g.t.AddEventListener(event, func(payload string) {
			select {
			case queue <- [2]string{event, payload}:
			default:
			}
		})
		defer sub.Remove()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-queue:
			if err := send(ev[0], ev[1]); err != nil {
				return err
			}
		}
	}
}

// NewGRPCServer returns a gRPC server hosting the Bridge service over t.
func NewGRPCServer(t transport.Transport, opts ...grpc.ServerOption) (*grpc.Server, error) {
	svc, err := adaptygrpc.BridgeService()
	if err != nil {
		return nil, err
	}
	srv := grpc.NewServer(opts...)
	srv.RegisterService(adaptygrpc.ServiceDesc(svc), NewGRPC(t))
	return srv, nil
}

var _ adaptygrpc.Host = (*GRPC)(nil)
