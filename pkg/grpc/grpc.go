package grpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bufbuild/protocompile/linker"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/adaptyteam/adapty-sdk-go/internal/jsonutil"
	"github.com/adaptyteam/adapty-sdk-go/pkg/transport"
)

// Metadata keys attached to every Invoke call.
const (
	MetadataPlatform   = "x-adapty-platform"
	MetadataSDKVersion = "x-adapty-sdk-version"
)

const defaultResubscribeDelay = time.Second

// Client is a dynamic gRPC bridge to a native host. It holds a connected
// gRPC ClientConn and the compiled bridge descriptors used to locate methods
// at runtime.
type Client struct {
	// GRPC is the underlying client connection.
	GRPC *grpc.ClientConn `json:"-"`
	// ProtoFiles are the compiled descriptors, bridge.proto included.
	ProtoFiles linker.Files `json:"-"`

	opts options
	hub  transport.Hub

	subscribeOnce sync.Once
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

type options struct {
	platform         string
	sdkVersion       string
	protoFiles       map[string]string
	dialOptions      []grpc.DialOption
	resubscribeDelay time.Duration
}

// Option configures a Client.
type Option func(*options)

// WithPlatform sets the platform reported in call metadata.
func WithPlatform(platform string) Option {
	return func(o *options) { o.platform = platform }
}

// WithSDKVersion sets the SDK version reported in call metadata.
func WithSDKVersion(v string) Option {
	return func(o *options) { o.sdkVersion = v }
}

// WithProtoFiles compiles extra proto sources next to bridge.proto.
func WithProtoFiles(files map[string]string) Option {
	return func(o *options) { o.protoFiles = files }
}

// WithDialOptions appends gRPC dial options. They are applied after the
// transport credentials derived from the endpoint.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *options) { o.dialOptions = append(o.dialOptions, opts...) }
}

// WithResubscribeDelay sets how long to wait before reopening a broken
// event stream.
func WithResubscribeDelay(d time.Duration) Option {
	return func(o *options) { o.resubscribeDelay = d }
}

// NewClient creates a bridge client for endpoint. The endpoint scheme
// determines transport security:
//   - "https://": TLS (system defaults)
//   - "http://":  insecure
//   - no scheme:  insecure
//
// The returned client proactively starts connecting (ClientConn.Connect()).
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	o := buildOptions(opts)
	addr, creds := grpcCredsFromEndpoint(endpoint)
	conn, err := grpc.NewClient(addr, append([]grpc.DialOption{creds}, o.dialOptions...)...)
	if err != nil {
		zap.L().Error("failed to create grpc client", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, err
	}

	c, err := newClient(conn, o)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	conn.Connect()
	return c, nil
}

// NewClientFromConn wraps an existing connection. Closing the client closes
// conn.
func NewClientFromConn(conn *grpc.ClientConn, opts ...Option) (*Client, error) {
	return newClient(conn, buildOptions(opts))
}

func buildOptions(opts []Option) options {
	o := options{resubscribeDelay: defaultResubscribeDelay}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newClient(conn *grpc.ClientConn, o options) (*Client, error) {
	descriptors, err := getProtoDescriptors(o.protoFiles)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		GRPC:       conn,
		ProtoFiles: descriptors,
		opts:       o,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Close stops the event stream and shuts down the underlying connection.
// It is safe to call on a nil receiver or when GRPC is nil.
func (c *Client) Close() error {
	if c == nil || c.GRPC == nil {
		return nil
	}
	c.cancel()
	err := c.GRPC.Close()
	c.wg.Wait()
	return err
}

// Request implements transport.Transport over the Invoke RPC.
func (c *Client) Request(ctx context.Context, method, params, resultType string) (string, error) {
	md := []string{}
	if c.opts.platform != "" {
		md = append(md, MetadataPlatform, c.opts.platform)
	}
	if c.opts.sdkVersion != "" {
		md = append(md, MetadataSDKVersion, c.opts.sdkVersion)
	}
	if len(md) > 0 {
		ctx = metadata.AppendToOutgoingContext(ctx, md...)
	}

	resp, err := c.CallWithMap(ctx, MethodInvoke, map[string]any{
		"method":      method,
		"params":      params,
		"result_type": resultType,
	})
	if err != nil {
		return "", fmt.Errorf("invoke %s: %w", method, err)
	}
	result, _ := resp["result"].(string)
	return result, nil
}

// AddEventListener registers cb for a native event. The first registration
// opens the Subscribe stream, which is reopened after failures until the
// client is closed.
func (c *Client) AddEventListener(event string, cb func(payload string)) transport.Subscription {
	sub := c.hub.Add(event, cb)
	c.subscribeOnce.Do(func() {
		c.wg.Add(1)
		go c.subscribeLoop()
	})
	return sub
}

// RemoveAllEventListeners drops every listener. The event stream stays open.
func (c *Client) RemoveAllEventListeners() {
	c.hub.RemoveAll()
}

func (c *Client) subscribeLoop() {
	defer c.wg.Done()
	for {
		err := c.subscribe(c.ctx)
		if c.ctx.Err() != nil {
			return
		}
		if err != nil {
			zap.L().Warn("event stream failed, resubscribing", zap.Error(err))
		}
		select {
		case <-c.ctx.Done():
			return
		case <-time.After(c.opts.resubscribeDelay):
		}
	}
}

func (c *Client) subscribe(ctx context.Context) error {
	fd, methodDesc, err := FindMethod(c.ProtoFiles, MethodSubscribe)
	if err != nil {
		return err
	}

	stream, err := c.GRPC.NewStream(ctx, &grpc.StreamDesc{
		StreamName:    MethodSubscribe,
		ServerStreams: true,
	}, FullMethodName(fd, methodDesc))
	if err != nil {
		return err
	}
	if err := stream.SendMsg(dynamicpb.NewMessage(methodDesc.Input())); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}

	fields := methodDesc.Output().Fields()
	nameField, payloadField := fields.ByName("name"), fields.ByName("payload")
	for {
		out := dynamicpb.NewMessage(methodDesc.Output())
		if err := stream.RecvMsg(out); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		name := out.Get(nameField).String()
		zap.L().Debug("native event", zap.String("event", name))
		c.hub.Emit(name, out.Get(payloadField).String())
	}
}

// CallWithMap invokes a unary RPC by method name using a map as the request
// body. The map is JSON-encoded and then routed through CallWithJSON.
// Method should be the simple method name as declared in the .proto (not the
// fully-qualified path).
func (c *Client) CallWithMap(ctx context.Context, method string, params map[string]any) (map[string]any, error) {
	jsonData, err := jsonutil.MarshalNoEscape(params)
	if err != nil {
		return nil, err
	}

	jsonStr, err := c.CallWithJSON(ctx, method, jsonData)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := jsonutil.Unmarshal(jsonStr, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// CallWithJSON invokes a unary RPC by method name using a JSON request body.
// The JSON is unmarshalled into a dynamic input message (discarding unknown
// fields and allowing partial messages), the call is performed, and the
// response is marshaled back to JSON with proto field names and unpopulated
// fields emitted.
func (c *Client) CallWithJSON(ctx context.Context, method string, body []byte) ([]byte, error) {
	fd, methodDesc, err := FindMethod(c.ProtoFiles, method)
	if err != nil {
		return nil, err
	}
	if methodDesc.IsStreamingServer() || methodDesc.IsStreamingClient() {
		return nil, fmt.Errorf("method %s is streaming", method)
	}

	in := dynamicpb.NewMessage(methodDesc.Input())
	out := dynamicpb.NewMessage(methodDesc.Output())

	err = protojson.UnmarshalOptions{
		AllowPartial:   true,
		DiscardUnknown: true,
	}.Unmarshal(body, in)
	if err != nil {
		return nil, err
	}

	err = c.GRPC.Invoke(ctx, FullMethodName(fd, methodDesc), in, out)
	if err != nil {
		return nil, err
	}

	return marshalMessage(out)
}

func marshalMessage(m protoreflect.ProtoMessage) ([]byte, error) {
	return protojson.MarshalOptions{
		EmitUnpopulated: true,
		UseProtoNames:   true,
	}.Marshal(m)
}

// grpcCredsFromEndpoint derives a dial address and dial option from an endpoint URL.
// "https://" enables TLS; "http://" and bare addresses use insecure credentials.
func grpcCredsFromEndpoint(endpoint string) (string, grpc.DialOption) {
	if strings.HasPrefix(endpoint, "https://") {
		return strings.TrimPrefix(endpoint, "https://"), grpc.WithTransportCredentials(credentials.NewTLS(nil))
	}
	if strings.HasPrefix(endpoint, "http://") {
		return strings.TrimPrefix(endpoint, "http://"), grpc.WithTransportCredentials(insecure.NewCredentials())
	}
	return endpoint, grpc.WithTransportCredentials(insecure.NewCredentials())
}

var _ transport.Transport = (*Client)(nil)
