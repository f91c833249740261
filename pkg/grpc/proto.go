package grpc

import (
	"context"
	_ "embed"
	"fmt"
	"maps"
	"slices"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/linker"
	"go.uber.org/zap"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Names of the bridge service methods.
const (
	MethodInvoke    = "Invoke"
	MethodSubscribe = "Subscribe"
)

// BridgeProtoFile is the file name the embedded bridge definition is compiled
// under.
const BridgeProtoFile = "adapty/bridge.proto"

// BridgeProtoEmbedded contains the text of bridge.proto. It is compiled at
// runtime together with any extra sources passed via WithProtoFiles.
//
//go:embed bridge.proto
var BridgeProtoEmbedded string

// FindMethod searches the given compiled proto files for a method with the
// provided simple method name (as declared in the .proto). It iterates over all
// services in all files and returns the file descriptor and method descriptor
// for the first match.
func FindMethod(files linker.Files, methodName string) (protoreflect.FileDescriptor, protoreflect.MethodDescriptor, error) {
	for _, file := range files {
		for i := 0; i < file.Services().Len(); i++ {
			service := file.Services().Get(i)
			method := service.Methods().ByName(protoreflect.Name(methodName))
			if method != nil {
				return file, method, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("method %s not found in provided proto files", methodName)
}

// FullMethodName builds "/<package>.<Service>/<Method>" for a resolved method.
func FullMethodName(fd protoreflect.FileDescriptor, md protoreflect.MethodDescriptor) string {
	return "/" + string(fd.Package()) + "." + string(md.Parent().Name()) + "/" + string(md.Name())
}

// BridgeDescriptors compiles the embedded bridge definition on its own. Test
// servers use it to host the same service the client dials.
func BridgeDescriptors() (linker.Files, error) {
	return getProtoDescriptors(nil)
}

// getProtoDescriptors compiles the provided proto sources (filename to
// content) into linker.Files using protocompile. The embedded bridge.proto is
// always part of the compilation set and standard imports are enabled.
func getProtoDescriptors(protoFiles map[string]string) (linker.Files, error) {
	sources := make(map[string]string, len(protoFiles)+1)
	maps.Copy(sources, protoFiles)
	sources[BridgeProtoFile] = BridgeProtoEmbedded

	accessor := protocompile.SourceAccessorFromMap(sources)
	r := protocompile.WithStandardImports(&protocompile.SourceResolver{Accessor: accessor})
	compiler := protocompile.Compiler{
		Resolver:       r,
		SourceInfoMode: protocompile.SourceInfoStandard,
	}
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	slices.Sort(names)
	fds, err := compiler.Compile(context.Background(), names...)
	if err != nil || fds == nil {
		zap.L().Error("failed to compile proto files", zap.Error(err))
		return nil, fmt.Errorf("failed to compile proto files: %w", err)
	}
	return fds, nil
}
