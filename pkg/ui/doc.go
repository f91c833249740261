// Package ui controls native paywall and onboarding views.
//
// A controller is created from a decoded paywall or onboarding model and is
// bound to the native view id the host returns. Native view events are
// routed through an emitter that keeps one subscription per native event,
// drops events of other views and calls at most one handler per logical
// event. Handlers report whether the view should close; closing happens on a
// separate goroutine and its failures are only logged.
//
//	view, err := ui.CreatePaywallView(ctx, b, paywall, model.CreatePaywallViewParams{})
//	if err != nil {
//		return err
//	}
//	_, err = view.SetEventHandlers(ui.EventHandlers{
//		OnPurchaseFailed: func(err error, product codec.Object) bool {
//			log.Printf("purchase of %v failed: %v", product["vendorProductId"], err)
//			return false
//		},
//	})
//	...
//	err = view.Present(ctx)
package ui
