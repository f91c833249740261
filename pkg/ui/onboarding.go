package ui

import (
	"context"

	"go.uber.org/zap"

	"github.com/adaptyteam/adapty-sdk-go/pkg/bridge"
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	"github.com/adaptyteam/adapty-sdk-go/pkg/model"
	"github.com/adaptyteam/adapty-sdk-go/pkg/parse"
)

// OnboardingViewController controls a native onboarding view. Obtain one
// from CreateOnboardingView.
type OnboardingViewController struct {
	viewRef
}

// CreateOnboardingView asks the native side to build a view for onboarding
// and registers DefaultOnboardingEventHandlers on it.
func CreateOnboardingView(ctx context.Context, b *bridge.Bridge, onboarding codec.Object, params model.CreateOnboardingViewParams) (*OnboardingViewController, error) {
	log := zap.L().With(zap.String("method", "createOnboardingView"))
	log.Debug("start")

	encoded, err := model.Onboarding().Encode(onboarding)
	if err != nil {
		return nil, err
	}
	body := model.EncodeCreateOnboardingViewParams(params)
	body["onboarding"] = encoded

	id, err := createView(ctx, b, "adapty_ui_create_onboarding_view", body)
	if err != nil {
		log.Debug("failed", zap.Error(err))
		return nil, err
	}

	v := &OnboardingViewController{viewRef: viewRef{bridge: b, id: id}}
	if _, err := v.SetEventHandlers(OnboardingEventHandlers{}); err != nil {
		return nil, err
	}
	log.Debug("success", zap.String("view", id))
	return v, nil
}

// Present shows the view as a modal. style only affects iOS; empty means
// full screen.
func (v *OnboardingViewController) Present(ctx context.Context, style model.IOSPresentationStyle) error {
	body := codec.Object{}
	if style != "" {
		body["ios_presentation_style"] = string(style)
	}
	_, err := v.call(ctx, "adapty_ui_present_onboarding_view", body, parse.TypeVoid)
	return err
}

// Dismiss hides the view and removes its event handlers.
func (v *OnboardingViewController) Dismiss(ctx context.Context) error {
	if _, err := v.call(ctx, "adapty_ui_dismiss_onboarding_view", codec.Object{"destroy": false}, parse.TypeVoid); err != nil {
		return err
	}
	v.release()
	return nil
}

// SetEventHandlers replaces the view's handlers with
// DefaultOnboardingEventHandlers overlaid by h.
func (v *OnboardingViewController) SetEventHandlers(h OnboardingEventHandlers) (func(), error) {
	entries := merge(DefaultOnboardingEventHandlers().entries(), h.entries())
	return v.swap(func() (func(), error) {
		return register(NewOnboardingViewEmitter(v.bridge, v.id), entries, v.onRequestClose)
	})
}

func (v *OnboardingViewController) onRequestClose(ctx context.Context) error {
	if err := v.Dismiss(ctx); err != nil {
		zap.L().Warn("failed to dismiss onboarding view", zap.String("view", v.id), zap.Error(err))
	}
	return nil
}
