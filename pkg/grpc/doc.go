// Package grpc is a transport that reaches the native host over gRPC without
// generated stubs.
//
// The host serves the Bridge service declared in the embedded bridge.proto:
//
//	service Bridge {
//	  rpc Invoke(InvokeRequest) returns (InvokeResponse);
//	  rpc Subscribe(SubscribeRequest) returns (stream Event);
//	}
//
// The definition is compiled at runtime with protocompile and messages are
// built with dynamicpb, so the package carries no generated code.
//
// # Client Creation
//
//	client, err := grpc.NewClient("http://127.0.0.1:7777", grpc.WithPlatform("ios"))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// NewClient connects lazily. DialEndpoint waits until the host is reachable;
// wrap its connection with NewClientFromConn.
//
// # Invocation
//
// Request sends one SDK method through Invoke and returns the JSON result
// envelope unchanged; decoding is left to the bridge package. Lower level
// helpers are exported for hosts that expose extra services:
//
//	output, err := client.CallWithJSON(ctx, "Invoke", []byte(`{"method": "is_activated"}`))
//	result, err := client.CallWithMap(ctx, "Invoke", map[string]any{"method": "get_profile"})
//
// # Events
//
// The first AddEventListener opens the Subscribe stream. Each streamed Event
// is fanned out to the listeners of Event.name. A broken stream is reopened
// after a delay (WithResubscribeDelay) until Close.
//
// # Transport Security
//
// Transport is determined by endpoint scheme:
//
//	"https://host:443"  → TLS with system certificates
//	"http://host:8080"  → Insecure plaintext
//	"host:8080"         → Insecure plaintext (no scheme)
//
// # Method Resolution
//
// Methods are resolved from the compiled descriptors by simple name and
// invoked as /<package>.<Service>/<Method>.
//
// # Thread Safety
//
// Client instances are safe for concurrent use.
package grpc
