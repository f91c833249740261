// Package host serves a transport.Transport, normally the in-memory mock,
// to remote SDK clients. The WebSocket server speaks the frame protocol of
// package ws and the gRPC server hosts the dynamic Bridge service of package
// grpc.
package host

import (
	"github.com/adaptyteam/adapty-sdk-go/pkg/parse"
	"github.com/adaptyteam/adapty-sdk-go/pkg/ui"
)

// Events lists every native event a host forwards to its clients.
var Events = []string{
	parse.EventDidLoadLatestProfile,

	ui.NativePaywallPerformAction,
	ui.NativePaywallSelectProduct,
	ui.NativePaywallStartPurchase,
	ui.NativePaywallFinishPurchase,
	ui.NativePaywallFailPurchase,
	ui.NativePaywallStartRestore,
	ui.NativePaywallFinishRestore,
	ui.NativePaywallFailRestore,
	ui.NativePaywallFailRendering,
	ui.NativePaywallFailLoadingProducts,
	ui.NativePaywallAppear,
	ui.NativePaywallDisappear,
	ui.NativePaywallFinishWebPayment,

	parse.OnboardingClose,
	parse.OnboardingCustom,
	parse.OnboardingPaywall,
	parse.OnboardingStateUpdated,
	parse.OnboardingFinishedLoading,
	parse.OnboardingAnalytics,
	parse.OnboardingError,
}
