package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/adaptyteam/adapty-sdk-go/pkg/bridge"
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	"github.com/adaptyteam/adapty-sdk-go/pkg/model"
	"github.com/adaptyteam/adapty-sdk-go/pkg/parse"
)

// ErrNoViewReference is returned by controllers that were never bound to a
// native view.
var ErrNoViewReference = errors.New("view reference not found")

// Defaults applied by CreatePaywallView.
const (
	DefaultPrefetchProducts = true
	DefaultLoadTimeout      = 5 * time.Second
)

// DialogAction is the button a user tapped in a dialog.
type DialogAction string

const (
	DialogPrimary   DialogAction = "primary"
	DialogSecondary DialogAction = "secondary"
)

// DialogConfig describes a native alert shown above a paywall view. Empty
// optional fields are omitted.
type DialogConfig struct {
	PrimaryActionTitle   string
	SecondaryActionTitle string
	Title                string
	Content              string
}

func (c DialogConfig) model() codec.Object {
	m := codec.Object{"primaryActionTitle": c.PrimaryActionTitle}
	if c.SecondaryActionTitle != "" {
		m["secondaryActionTitle"] = c.SecondaryActionTitle
	}
	if c.Title != "" {
		m["title"] = c.Title
	}
	if c.Content != "" {
		m["content"] = c.Content
	}
	return m
}

// viewRef is the link between a controller and its native view.
type viewRef struct {
	bridge *bridge.Bridge
	id     string

	mu          sync.Mutex
	unsubscribe func()
}

// ID returns the native view id.
func (r *viewRef) ID() string { return r.id }

func (r *viewRef) call(ctx context.Context, method string, body codec.Object, resultType parse.Type) (any, error) {
	if r.id == "" {
		return nil, ErrNoViewReference
	}
	body["id"] = r.id
	return r.bridge.Request(ctx, method, body, resultType)
}

// swap drops the current handlers before subscribing new ones.
func (r *viewRef) swap(subscribe func() (func(), error)) (func(), error) {
	if r.id == "" {
		return nil, ErrNoViewReference
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	unsubscribe, err := subscribe()
	if err != nil {
		return nil, err
	}
	r.unsubscribe = unsubscribe
	return unsubscribe, nil
}

func (r *viewRef) release() {
	r.mu.Lock()
	unsubscribe := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// ViewController controls a native paywall view. Obtain one from
// CreatePaywallView.
type ViewController struct {
	viewRef
}

// CreatePaywallView asks the native side to build a view for paywall and
// registers DefaultEventHandlers on it. Unset params fall back to
// DefaultPrefetchProducts and DefaultLoadTimeout.
func CreatePaywallView(ctx context.Context, b *bridge.Bridge, paywall codec.Object, params model.CreatePaywallViewParams) (*ViewController, error) {
	log := zap.L().With(zap.String("method", "createPaywallView"))
	log.Debug("start")

	if params.PrefetchProducts == nil {
		prefetch := DefaultPrefetchProducts
		params.PrefetchProducts = &prefetch
	}
	if params.LoadTimeout <= 0 {
		params.LoadTimeout = DefaultLoadTimeout
	}

	encoded, err := model.Paywall().Encode(paywall)
	if err != nil {
		return nil, err
	}
	body := model.EncodeCreatePaywallViewParams(params)
	body["paywall"] = encoded

	id, err := createView(ctx, b, "adapty_ui_create_paywall_view", body)
	if err != nil {
		log.Debug("failed", zap.Error(err))
		return nil, err
	}

	v := &ViewController{viewRef: viewRef{bridge: b, id: id}}
	if _, err := v.SetEventHandlers(EventHandlers{}); err != nil {
		return nil, err
	}
	log.Debug("success", zap.String("view", id))
	return v, nil
}

func createView(ctx context.Context, b *bridge.Bridge, method string, body codec.Object) (string, error) {
	result, err := b.Request(ctx, method, body, parse.TypeAdaptyUiView)
	if err != nil {
		return "", err
	}
	view, _ := result.(codec.Object)
	id, _ := view["id"].(string)
	if id == "" {
		return "", fmt.Errorf("%s: native view has no id", method)
	}
	return id, nil
}

// Present shows the view as a full-screen modal. Presenting a visible view
// fails on the native side.
func (v *ViewController) Present(ctx context.Context) error {
	_, err := v.call(ctx, "adapty_ui_present_paywall_view", codec.Object{}, parse.TypeVoid)
	return err
}

// Dismiss hides the view and removes its event handlers.
func (v *ViewController) Dismiss(ctx context.Context) error {
	if _, err := v.call(ctx, "adapty_ui_dismiss_paywall_view", codec.Object{"destroy": false}, parse.TypeVoid); err != nil {
		return err
	}
	v.release()
	return nil
}

// ShowDialog presents an alert above the view and reports the tapped
// action. With two actions, the primary one should leave things unchanged.
func (v *ViewController) ShowDialog(ctx context.Context, cfg DialogConfig) (DialogAction, error) {
	if v.id == "" {
		return "", ErrNoViewReference
	}
	configuration, err := model.UiDialogConfig().Encode(cfg.model())
	if err != nil {
		return "", err
	}
	result, err := v.call(ctx, "adapty_ui_show_dialog", codec.Object{"configuration": configuration}, parse.TypeAdaptyUiDialogActionType)
	if err != nil {
		return "", err
	}
	action, _ := result.(string)
	return DialogAction(action), nil
}

// SetEventHandlers replaces the view's handlers with DefaultEventHandlers
// overlaid by h. Handlers returning true dismiss the view. The returned
// func unsubscribes them.
func (v *ViewController) SetEventHandlers(h EventHandlers) (func(), error) {
	entries := merge(DefaultEventHandlers().entries(), h.entries())
	return v.swap(func() (func(), error) {
		return register(NewViewEmitter(v.bridge, v.id), entries, v.onRequestClose)
	})
}

func (v *ViewController) onRequestClose(ctx context.Context) error {
	if err := v.Dismiss(ctx); err != nil {
		zap.L().Warn("failed to dismiss paywall view", zap.String("view", v.id), zap.Error(err))
	}
	return nil
}
