package ui

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/adaptyteam/adapty-sdk-go/pkg/bridge"
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	"github.com/adaptyteam/adapty-sdk-go/pkg/parse"
)

// CloseFunc is called when a handler asks for its view to be closed.
type CloseFunc func(ctx context.Context) error

type dispatchFunc func(ev bridge.Event) bool

// eventConfig binds one logical event to the native event carrying it.
// When action is set, the native payload's action.type must equal it.
type eventConfig struct {
	native string
	action string
	bind   func(handler any) (dispatchFunc, bool)
}

type registration struct {
	dispatch dispatchFunc
	close    CloseFunc
}

// emitter routes native events of one view to logical handlers. There is at
// most one handler per logical event and one native subscription per native
// event.
type emitter struct {
	viewID  string
	bridge  *bridge.Bridge
	configs map[string]eventConfig
	order   []string

	mu       sync.Mutex
	subs     map[string]bridge.Subscription
	handlers map[string]registration
}

func newEmitter(b *bridge.Bridge, viewID string, order []string, configs map[string]eventConfig) *emitter {
	return &emitter{
		viewID:   viewID,
		bridge:   b,
		configs:  configs,
		order:    order,
		subs:     make(map[string]bridge.Subscription),
		handlers: make(map[string]registration),
	}
}

func (e *emitter) addListener(event string, handler any, onRequestClose CloseFunc) (bridge.Subscription, error) {
	cfg, ok := e.configs[event]
	if !ok {
		return nil, fmt.Errorf("no event config found for handler: %s", event)
	}
	dispatch, ok := cfg.bind(handler)
	if !ok {
		return nil, fmt.Errorf("handler for %s has type %T", event, handler)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.handlers[event] = registration{dispatch: dispatch, close: onRequestClose}
	if sub, ok := e.subs[cfg.native]; ok {
		return sub, nil
	}
	native := cfg.native
	sub := e.bridge.AddEventListener(native, func(ev bridge.Event) {
		e.dispatch(native, ev)
	})
	e.subs[native] = sub
	return sub, nil
}

func (e *emitter) dispatch(native string, ev bridge.Event) {
	if ev.ViewID() != e.viewID {
		return
	}

	type match struct {
		event string
		reg   registration
	}
	var matches []match

	e.mu.Lock()
	for _, name := range e.order {
		cfg := e.configs[name]
		if cfg.native != native {
			continue
		}
		reg, ok := e.handlers[name]
		if !ok {
			continue
		}
		if cfg.action != "" && actionType(ev.Raw) != cfg.action {
			continue
		}
		matches = append(matches, match{event: name, reg: reg})
	}
	e.mu.Unlock()

	for _, m := range matches {
		if invoke(m.event, m.reg.dispatch, ev) && m.reg.close != nil {
			go requestClose(m.event, m.reg.close)
		}
	}
}

func (e *emitter) removeAllListeners() {
	e.mu.Lock()
	subs := e.subs
	e.subs = make(map[string]bridge.Subscription)
	e.handlers = make(map[string]registration)
	e.mu.Unlock()

	for _, sub := range subs {
		sub.Remove()
	}
}

func invoke(event string, dispatch dispatchFunc, ev bridge.Event) (shouldClose bool) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("view event handler panicked", zap.String("event", event), zap.Any("panic", r))
			shouldClose = false
		}
	}()
	return dispatch(ev)
}

func requestClose(event string, fn CloseFunc) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("view close panicked", zap.String("event", event), zap.Any("panic", r))
		}
	}()
	if err := fn(context.Background()); err != nil {
		zap.L().Warn("failed to close view", zap.String("event", event), zap.Error(err))
	}
}

func actionType(raw codec.Object) string {
	action, _ := raw["action"].(codec.Object)
	t, _ := action["type"].(string)
	return t
}

// ViewEmitter delivers paywall view events for a single view id.
type ViewEmitter struct{ e *emitter }

// NewViewEmitter returns an emitter for the paywall view viewID.
func NewViewEmitter(b *bridge.Bridge, viewID string) *ViewEmitter {
	return &ViewEmitter{e: newEmitter(b, viewID, paywallEventOrder, paywallEvents)}
}

// AddListener registers handler for a logical paywall event such as
// EventPurchaseCompleted, replacing any handler registered before. handler
// must have the signature of the matching EventHandlers field.
// onRequestClose runs asynchronously whenever handler returns true.
func (v *ViewEmitter) AddListener(event string, handler any, onRequestClose CloseFunc) (bridge.Subscription, error) {
	return v.e.addListener(event, handler, onRequestClose)
}

// RemoveAllListeners drops every handler and native subscription of the
// emitter. It is safe to call more than once.
func (v *ViewEmitter) RemoveAllListeners() { v.e.removeAllListeners() }

// OnboardingViewEmitter delivers onboarding view events for a single view
// id.
type OnboardingViewEmitter struct{ e *emitter }

// NewOnboardingViewEmitter returns an emitter for the onboarding view
// viewID.
func NewOnboardingViewEmitter(b *bridge.Bridge, viewID string) *OnboardingViewEmitter {
	return &OnboardingViewEmitter{e: newEmitter(b, viewID, onboardingEventOrder, onboardingEvents)}
}

// AddListener registers handler for a logical onboarding event such as
// EventOnboardingClose. See ViewEmitter.AddListener.
func (v *OnboardingViewEmitter) AddListener(event string, handler any, onRequestClose CloseFunc) (bridge.Subscription, error) {
	return v.e.addListener(event, handler, onRequestClose)
}

// RemoveAllListeners drops every handler and native subscription of the
// emitter.
func (v *OnboardingViewEmitter) RemoveAllListeners() { v.e.removeAllListeners() }

// Paywall view native events.
const (
	NativePaywallPerformAction        = "paywall_view_did_perform_action"
	NativePaywallSelectProduct        = "paywall_view_did_select_product"
	NativePaywallStartPurchase        = "paywall_view_did_start_purchase"
	NativePaywallFinishPurchase       = "paywall_view_did_finish_purchase"
	NativePaywallFailPurchase         = "paywall_view_did_fail_purchase"
	NativePaywallStartRestore         = "paywall_view_did_start_restore"
	NativePaywallFinishRestore        = "paywall_view_did_finish_restore"
	NativePaywallFailRestore          = "paywall_view_did_fail_restore"
	NativePaywallFailRendering        = "paywall_view_did_fail_rendering"
	NativePaywallFailLoadingProducts  = "paywall_view_did_fail_loading_products"
	NativePaywallAppear               = "paywall_view_did_appear"
	NativePaywallDisappear            = "paywall_view_did_disappear"
	NativePaywallFinishWebPayment     = "paywall_view_did_finish_web_payment_navigation"
)

// Action types of paywall_view_did_perform_action.
const (
	ActionClose      = "close"
	ActionSystemBack = "system_back"
	ActionOpenURL    = "open_url"
	ActionCustom     = "custom"
)

var paywallEventOrder = []string{
	EventCloseButtonPress,
	EventAndroidSystemBack,
	EventURLPress,
	EventCustomAction,
	EventProductSelected,
	EventPurchaseStarted,
	EventPurchaseCompleted,
	EventPurchaseFailed,
	EventRestoreStarted,
	EventRestoreCompleted,
	EventRestoreFailed,
	EventRenderingFailed,
	EventLoadingProductsFailed,
	EventPaywallShown,
	EventPaywallClosed,
	EventWebPaymentNavigationFinished,
}

var paywallEvents = map[string]eventConfig{
	EventCloseButtonPress:  {native: NativePaywallPerformAction, action: ActionClose, bind: bindNone},
	EventAndroidSystemBack: {native: NativePaywallPerformAction, action: ActionSystemBack, bind: bindNone},
	EventURLPress:          {native: NativePaywallPerformAction, action: ActionOpenURL, bind: bindActionValue},
	EventCustomAction:      {native: NativePaywallPerformAction, action: ActionCustom, bind: bindActionValue},
	EventProductSelected: {native: NativePaywallSelectProduct, bind: func(h any) (dispatchFunc, bool) {
		f, ok := h.(func(string) bool)
		return func(ev bridge.Event) bool { return f(stringArg(ev, "product_id")) }, ok
	}},
	EventPurchaseStarted: {native: NativePaywallStartPurchase, bind: bindObject("product")},
	EventPurchaseCompleted: {native: NativePaywallFinishPurchase, bind: func(h any) (dispatchFunc, bool) {
		f, ok := h.(func(result, product codec.Object) bool)
		return func(ev bridge.Event) bool {
			return f(objectArg(ev, "purchased_result"), objectArg(ev, "product"))
		}, ok
	}},
	EventPurchaseFailed: {native: NativePaywallFailPurchase, bind: func(h any) (dispatchFunc, bool) {
		f, ok := h.(func(err error, product codec.Object) bool)
		return func(ev bridge.Event) bool { return f(errorArg(ev), objectArg(ev, "product")) }, ok
	}},
	EventRestoreStarted:        {native: NativePaywallStartRestore, bind: bindNone},
	EventRestoreCompleted:      {native: NativePaywallFinishRestore, bind: bindObject("profile")},
	EventRestoreFailed:         {native: NativePaywallFailRestore, bind: bindError},
	EventRenderingFailed:       {native: NativePaywallFailRendering, bind: bindError},
	EventLoadingProductsFailed: {native: NativePaywallFailLoadingProducts, bind: bindError},
	EventPaywallShown:          {native: NativePaywallAppear, bind: bindNone},
	EventPaywallClosed:         {native: NativePaywallDisappear, bind: bindNone},
	EventWebPaymentNavigationFinished: {native: NativePaywallFinishWebPayment, bind: func(h any) (dispatchFunc, bool) {
		f, ok := h.(func(product codec.Object, err error) bool)
		return func(ev bridge.Event) bool { return f(objectArg(ev, "product"), errorArg(ev)) }, ok
	}},
}

func bindNone(h any) (dispatchFunc, bool) {
	f, ok := h.(func() bool)
	return func(bridge.Event) bool { return f() }, ok
}

func bindActionValue(h any) (dispatchFunc, bool) {
	f, ok := h.(func(string) bool)
	return func(ev bridge.Event) bool {
		action, _ := ev.Raw["action"].(codec.Object)
		value, _ := action["value"].(string)
		return f(value)
	}, ok
}

func bindObject(key string) func(any) (dispatchFunc, bool) {
	return func(h any) (dispatchFunc, bool) {
		f, ok := h.(func(codec.Object) bool)
		return func(ev bridge.Event) bool { return f(objectArg(ev, key)) }, ok
	}
}

func bindError(h any) (dispatchFunc, bool) {
	f, ok := h.(func(error) bool)
	return func(ev bridge.Event) bool { return f(errorArg(ev)) }, ok
}

func paywallPayload(ev bridge.Event) codec.Object {
	obj, _ := ev.Parsed.(codec.Object)
	return obj
}

func objectArg(ev bridge.Event, key string) codec.Object {
	obj, _ := paywallPayload(ev)[key].(codec.Object)
	return obj
}

func stringArg(ev bridge.Event, key string) string {
	s, _ := paywallPayload(ev)[key].(string)
	return s
}

func errorArg(ev bridge.Event) error {
	err, _ := paywallPayload(ev)["error"].(error)
	return err
}

var onboardingEventOrder = []string{
	EventOnboardingClose,
	EventOnboardingCustom,
	EventOnboardingPaywall,
	EventOnboardingStateUpdated,
	EventOnboardingFinishedLoading,
	EventOnboardingAnalytics,
	EventOnboardingError,
}

var onboardingEvents = map[string]eventConfig{
	EventOnboardingClose:   {native: parse.OnboardingClose, bind: bindOnboardingAction},
	EventOnboardingCustom:  {native: parse.OnboardingCustom, bind: bindOnboardingAction},
	EventOnboardingPaywall: {native: parse.OnboardingPaywall, bind: bindOnboardingAction},
	EventOnboardingStateUpdated: {native: parse.OnboardingStateUpdated, bind: func(h any) (dispatchFunc, bool) {
		f, ok := h.(func(action, meta codec.Object) bool)
		return func(ev bridge.Event) bool {
			o := onboardingPayload(ev)
			return f(o.Action, o.Meta)
		}, ok
	}},
	EventOnboardingFinishedLoading: {native: parse.OnboardingFinishedLoading, bind: func(h any) (dispatchFunc, bool) {
		f, ok := h.(func(meta codec.Object) bool)
		return func(ev bridge.Event) bool { return f(onboardingPayload(ev).Meta) }, ok
	}},
	EventOnboardingAnalytics: {native: parse.OnboardingAnalytics, bind: func(h any) (dispatchFunc, bool) {
		f, ok := h.(func(event parse.OnboardingAnalyticsEvent, meta codec.Object) bool)
		return func(ev bridge.Event) bool {
			o := onboardingPayload(ev)
			return f(o.Event, o.Meta)
		}, ok
	}},
	EventOnboardingError: {native: parse.OnboardingError, bind: func(h any) (dispatchFunc, bool) {
		f, ok := h.(func(error) bool)
		return func(ev bridge.Event) bool { return f(onboardingPayload(ev).Error) }, ok
	}},
}

func bindOnboardingAction(h any) (dispatchFunc, bool) {
	f, ok := h.(func(actionID string, meta codec.Object) bool)
	return func(ev bridge.Event) bool {
		o := onboardingPayload(ev)
		return f(o.ActionID, o.Meta)
	}, ok
}

func onboardingPayload(ev bridge.Event) *parse.OnboardingEvent {
	if o, ok := ev.Parsed.(*parse.OnboardingEvent); ok {
		return o
	}
	return &parse.OnboardingEvent{}
}
