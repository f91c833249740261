package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"

	"github.com/adaptyteam/adapty-sdk-go/internal/testutil/grpcbuf"
)

// TestDialEndpoint_Ready verifies a reachable host yields a ready connection
// usable by NewClientFromConn.
func TestDialEndpoint_Ready(t *testing.T) {
	srv, lis, _ := grpcbuf.StartServer(ServiceDesc(bridgeService(t)), &fakeHost{events: make(chan [2]string)})
	t.Cleanup(srv.Stop)

	dialer := grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
	conn, err := DialEndpoint(context.Background(), "passthrough:///bufnet", time.Second, dialer)
	if err != nil {
		t.Fatalf("DialEndpoint: %v", err)
	}
	client, err := NewClientFromConn(conn)
	if err != nil {
		t.Fatalf("NewClientFromConn: %v", err)
	}
	defer client.Close()

	got, err := client.Request(context.Background(), "is_activated", `{}`, "Boolean")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if got == "" {
		t.Fatal("empty envelope")
	}
}

// TestDialEndpoint_Unreachable verifies the dial gives up once the timeout
// elapses.
func TestDialEndpoint_Unreachable(t *testing.T) {
	start := time.Now()
	_, err := DialEndpoint(context.Background(), "http://10.255.255.1:65535", 50*time.Millisecond)
	if err == nil {
		t.Fatal("expected error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("dial took %v", elapsed)
	}
}
