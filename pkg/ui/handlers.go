package ui

import (
	"context"

	"github.com/adaptyteam/adapty-sdk-go/pkg/bridge"
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	"github.com/adaptyteam/adapty-sdk-go/pkg/model"
	"github.com/adaptyteam/adapty-sdk-go/pkg/parse"
)

// Logical paywall view events, one per EventHandlers field.
const (
	EventCloseButtonPress             = "onCloseButtonPress"
	EventAndroidSystemBack            = "onAndroidSystemBack"
	EventProductSelected              = "onProductSelected"
	EventPurchaseStarted              = "onPurchaseStarted"
	EventPurchaseCompleted            = "onPurchaseCompleted"
	EventPurchaseFailed               = "onPurchaseFailed"
	EventRestoreStarted               = "onRestoreStarted"
	EventRestoreCompleted             = "onRestoreCompleted"
	EventRestoreFailed                = "onRestoreFailed"
	EventPaywallShown                 = "onPaywallShown"
	EventPaywallClosed                = "onPaywallClosed"
	EventWebPaymentNavigationFinished = "onWebPaymentNavigationFinished"
	EventRenderingFailed              = "onRenderingFailed"
	EventLoadingProductsFailed        = "onLoadingProductsFailed"
	EventCustomAction                 = "onCustomAction"
	EventURLPress                     = "onUrlPress"
)

// EventHandlers are the callbacks of a paywall view. Every field is
// optional. A handler returning true asks for the view to be dismissed.
//
// Products and profiles are decoded models; errors are
// *errors.AdaptyError values reported by the native side.
type EventHandlers struct {
	OnCloseButtonPress             func() bool
	OnAndroidSystemBack            func() bool
	OnProductSelected              func(productID string) bool
	OnPurchaseStarted              func(product codec.Object) bool
	OnPurchaseCompleted            func(result, product codec.Object) bool
	OnPurchaseFailed               func(err error, product codec.Object) bool
	OnRestoreStarted               func() bool
	OnRestoreCompleted             func(profile codec.Object) bool
	OnRestoreFailed                func(err error) bool
	OnPaywallShown                 func() bool
	OnPaywallClosed                func() bool
	OnWebPaymentNavigationFinished func(product codec.Object, err error) bool
	OnRenderingFailed              func(err error) bool
	OnLoadingProductsFailed        func(err error) bool
	OnCustomAction                 func(actionID string) bool
	OnURLPress                     func(url string) bool
}

// DefaultEventHandlers close the view on the close button, android back,
// a finished restore and any finished purchase the user did not cancel.
func DefaultEventHandlers() EventHandlers {
	return EventHandlers{
		OnCloseButtonPress:  func() bool { return true },
		OnAndroidSystemBack: func() bool { return true },
		OnRestoreCompleted:  func(codec.Object) bool { return true },
		OnPurchaseCompleted: func(result, _ codec.Object) bool {
			t, _ := result["type"].(string)
			return t != model.PurchaseUserCancelled
		},
	}
}

type handlerEntry struct {
	event   string
	handler any
}

func (h EventHandlers) entries() []handlerEntry {
	var out []handlerEntry
	add := func(event string, isSet bool, handler any) {
		if isSet {
			out = append(out, handlerEntry{event: event, handler: handler})
		}
	}
	add(EventCloseButtonPress, h.OnCloseButtonPress != nil, h.OnCloseButtonPress)
	add(EventAndroidSystemBack, h.OnAndroidSystemBack != nil, h.OnAndroidSystemBack)
	add(EventProductSelected, h.OnProductSelected != nil, h.OnProductSelected)
	add(EventPurchaseStarted, h.OnPurchaseStarted != nil, h.OnPurchaseStarted)
	add(EventPurchaseCompleted, h.OnPurchaseCompleted != nil, h.OnPurchaseCompleted)
	add(EventPurchaseFailed, h.OnPurchaseFailed != nil, h.OnPurchaseFailed)
	add(EventRestoreStarted, h.OnRestoreStarted != nil, h.OnRestoreStarted)
	add(EventRestoreCompleted, h.OnRestoreCompleted != nil, h.OnRestoreCompleted)
	add(EventRestoreFailed, h.OnRestoreFailed != nil, h.OnRestoreFailed)
	add(EventPaywallShown, h.OnPaywallShown != nil, h.OnPaywallShown)
	add(EventPaywallClosed, h.OnPaywallClosed != nil, h.OnPaywallClosed)
	add(EventWebPaymentNavigationFinished, h.OnWebPaymentNavigationFinished != nil, h.OnWebPaymentNavigationFinished)
	add(EventRenderingFailed, h.OnRenderingFailed != nil, h.OnRenderingFailed)
	add(EventLoadingProductsFailed, h.OnLoadingProductsFailed != nil, h.OnLoadingProductsFailed)
	add(EventCustomAction, h.OnCustomAction != nil, h.OnCustomAction)
	add(EventURLPress, h.OnURLPress != nil, h.OnURLPress)
	return out
}

// Logical onboarding view events, one per OnboardingEventHandlers field.
const (
	EventOnboardingClose           = "onClose"
	EventOnboardingCustom          = "onCustom"
	EventOnboardingPaywall         = "onPaywall"
	EventOnboardingStateUpdated    = "onStateUpdated"
	EventOnboardingFinishedLoading = "onFinishedLoading"
	EventOnboardingAnalytics       = "onAnalytics"
	EventOnboardingError           = "onError"
)

// OnboardingEventHandlers are the callbacks of an onboarding view. meta is a
// decoded AdaptyUiOnboardingMeta; action is a decoded state-updated action.
type OnboardingEventHandlers struct {
	OnClose           func(actionID string, meta codec.Object) bool
	OnCustom          func(actionID string, meta codec.Object) bool
	OnPaywall         func(actionID string, meta codec.Object) bool
	OnStateUpdated    func(action, meta codec.Object) bool
	OnFinishedLoading func(meta codec.Object) bool
	OnAnalytics       func(event parse.OnboardingAnalyticsEvent, meta codec.Object) bool
	OnError           func(err error) bool
}

// DefaultOnboardingEventHandlers close the view on a close action.
func DefaultOnboardingEventHandlers() OnboardingEventHandlers {
	return OnboardingEventHandlers{
		OnClose: func(string, codec.Object) bool { return true },
	}
}

func (h OnboardingEventHandlers) entries() []handlerEntry {
	var out []handlerEntry
	add := func(event string, isSet bool, handler any) {
		if isSet {
			out = append(out, handlerEntry{event: event, handler: handler})
		}
	}
	add(EventOnboardingClose, h.OnClose != nil, h.OnClose)
	add(EventOnboardingCustom, h.OnCustom != nil, h.OnCustom)
	add(EventOnboardingPaywall, h.OnPaywall != nil, h.OnPaywall)
	add(EventOnboardingStateUpdated, h.OnStateUpdated != nil, h.OnStateUpdated)
	add(EventOnboardingFinishedLoading, h.OnFinishedLoading != nil, h.OnFinishedLoading)
	add(EventOnboardingAnalytics, h.OnAnalytics != nil, h.OnAnalytics)
	add(EventOnboardingError, h.OnError != nil, h.OnError)
	return out
}

// merge lays over on top of base, by logical event.
func merge(base, over []handlerEntry) []handlerEntry {
	out := make([]handlerEntry, 0, len(base)+len(over))
	seen := make(map[string]int, len(base)+len(over))
	for _, list := range [][]handlerEntry{base, over} {
		for _, e := range list {
			if i, ok := seen[e.event]; ok {
				out[i] = e
				continue
			}
			seen[e.event] = len(out)
			out = append(out, e)
		}
	}
	return out
}

type listenerAdder interface {
	AddListener(event string, handler any, onRequestClose CloseFunc) (bridge.Subscription, error)
	RemoveAllListeners()
}

func register(em listenerAdder, entries []handlerEntry, onRequestClose CloseFunc) (func(), error) {
	for _, e := range entries {
		if _, err := em.AddListener(e.event, e.handler, onRequestClose); err != nil {
			em.RemoveAllListeners()
			return nil, err
		}
	}
	return em.RemoveAllListeners, nil
}

func noopClose(context.Context) error { return nil }

// CreatePaywallEventHandlers subscribes h to the paywall view viewID without
// a controller. Only the handlers set in h are registered; the defaults are
// not applied. onRequestClose may be nil. The returned func unsubscribes
// every listener.
func CreatePaywallEventHandlers(b *bridge.Bridge, h EventHandlers, viewID string, onRequestClose CloseFunc) (func(), error) {
	if onRequestClose == nil {
		onRequestClose = noopClose
	}
	return register(NewViewEmitter(b, viewID), h.entries(), onRequestClose)
}

// CreateOnboardingEventHandlers is CreatePaywallEventHandlers for
// onboarding views.
func CreateOnboardingEventHandlers(b *bridge.Bridge, h OnboardingEventHandlers, viewID string, onRequestClose CloseFunc) (func(), error) {
	if onRequestClose == nil {
		onRequestClose = noopClose
	}
	return register(NewOnboardingViewEmitter(b, viewID), h.entries(), onRequestClose)
}
