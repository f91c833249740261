package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// BridgeService returns the compiled Bridge service descriptor.
func BridgeService() (protoreflect.ServiceDescriptor, error) {
	fds, err := BridgeDescriptors()
	if err != nil {
		return nil, err
	}
	_, md, err := FindMethod(fds, MethodInvoke)
	if err != nil {
		return nil, err
	}
	svc, ok := md.Parent().(protoreflect.ServiceDescriptor)
	if !ok {
		return nil, fmt.Errorf("method %s has no service", md.FullName())
	}
	return svc, nil
}

// Host is the native side of the bridge as served by a gRPC server.
type Host interface {
	Invoke(ctx context.Context, method, params, resultType string) (string, error)
	// Subscribe streams events by calling send until ctx is done or an error
	// is returned.
	Subscribe(ctx context.Context, events []string, send func(name, payload string) error) error
}

// ServiceDesc builds a grpc.ServiceDesc for the Bridge service described by
// svc. Requests and responses are dynamicpb messages.
func ServiceDesc(svc protoreflect.ServiceDescriptor) *grpc.ServiceDesc {
	invoke := svc.Methods().ByName("Invoke")
	subscribe := svc.Methods().ByName("Subscribe")
	fullName := string(svc.FullName())

	invokeHandler := func(
		srv any,
		ctx context.Context,
		dec func(any) error,
		interceptor grpc.UnaryServerInterceptor,
	) (any, error) {
		in := dynamicpb.NewMessage(invoke.Input())
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req any) (any, error) {
			fields := invoke.Input().Fields()
			msg := req.(*dynamicpb.Message)
			result, err := srv.(Host).Invoke(ctx,
				msg.Get(fields.ByName("method")).String(),
				msg.Get(fields.ByName("params")).String(),
				msg.Get(fields.ByName("result_type")).String(),
			)
			if err != nil {
				return nil, err
			}
			out := dynamicpb.NewMessage(invoke.Output())
			out.Set(invoke.Output().Fields().ByName("result"), protoreflect.ValueOfString(result))
			return out, nil
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + fullName + "/Invoke",
		}
		return interceptor(ctx, in, info, handler)
	}

	subscribeHandler := func(srv any, stream grpc.ServerStream) error {
		in := dynamicpb.NewMessage(subscribe.Input())
		if err := stream.RecvMsg(in); err != nil {
			return err
		}
		list := in.Get(subscribe.Input().Fields().ByName("events")).List()
		events := make([]string, list.Len())
		for i := range events {
			events[i] = list.Get(i).String()
		}
		outFields := subscribe.Output().Fields()
		return srv.(Host).Subscribe(stream.Context(), events, func(name, payload string) error {
			out := dynamicpb.NewMessage(subscribe.Output())
			out.Set(outFields.ByName("name"), protoreflect.ValueOfString(name))
			out.Set(outFields.ByName("payload"), protoreflect.ValueOfString(payload))
			return stream.SendMsg(out)
		})
	}

	return &grpc.ServiceDesc{
		ServiceName: fullName,
		HandlerType: (*Host)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "Invoke", Handler: invokeHandler},
		},
		Streams: []grpc.StreamDesc{
			{StreamName: "Subscribe", Handler: subscribeHandler, ServerStreams: true},
		},
		Metadata: "bridge.proto",
	}
}
