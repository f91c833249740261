// Command adapty-mock-host serves the in-memory mock SDK host over the
// WebSocket and gRPC bridges, so applications using the SDK can run without
// a device.
//
//	adapty-mock-host -ws :8787 -grpc :50051
//
// SDK clients connect with ADAPTY_ENDPOINT=ws://localhost:8787/bridge or
// ADAPTY_ENDPOINT=localhost:50051. GET /heartbeat on the WebSocket address
// reports host health.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/adaptyteam/adapty-sdk-go/internal/host"
	"github.com/adaptyteam/adapty-sdk-go/pkg/mock"
)

func main() {
	wsAddr := flag.String("ws", ":8787", "WebSocket listen address, empty to disable")
	grpcAddr := flag.String("grpc", ":50051", "gRPC listen address, empty to disable")
	heartbeat := flag.Duration("heartbeat", 15*time.Second, "WebSocket heartbeat interval")
	eventDelay := flag.Duration("event-delay", 100*time.Millisecond, "delay of the profile event after a purchase")
	debug := flag.Bool("debug", false, "log every call")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tr := mock.New(mock.Config{EventDelay: *eventDelay})
	defer func() { _ = tr.Close() }()

	errs := make(chan error, 2)

	if *wsAddr != "" {
		wsHost := host.NewWebSocket(tr)
		wsHost.Heartbeat = *heartbeat

		mux := http.NewServeMux()
		mux.Handle("/bridge", wsHost)
		mux.Handle("/heartbeat", host.HeartbeatHandler(tr))
		srv := &http.Server{Addr: *wsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

		go func() {
			zap.L().Info("websocket bridge listening", zap.String("addr", *wsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- err
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	if *grpcAddr != "" {
		srv, err := host.NewGRPCServer(tr)
		if err != nil {
			log.Fatalf("Failed to create gRPC server: %v", err)
		}
		lis, err := net.Listen("tcp", *grpcAddr)
		if err != nil {
			log.Fatalf("Failed to listen on %s: %v", *grpcAddr, err)
		}
		go func() {
			zap.L().Info("grpc bridge listening", zap.String("addr", *grpcAddr))
			if err := srv.Serve(lis); err != nil {
				errs <- err
			}
		}()
		defer srv.GracefulStop()
	}

	select {
	case <-ctx.Done():
		zap.L().Info("shutting down")
	case err := <-errs:
		zap.L().Error("server failed", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	c := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return c.Build()
}
