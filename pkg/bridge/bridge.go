// Package bridge is the typed layer over a transport.Transport. It encodes
// request bodies, decodes result envelopes through the parse package and
// turns raw native events into parsed values.
package bridge

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/adaptyteam/adapty-sdk-go/internal/jsonutil"
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
	"github.com/adaptyteam/adapty-sdk-go/pkg/parse"
	"github.com/adaptyteam/adapty-sdk-go/pkg/transport"
)

// Event is a native event delivered to a listener.
type Event struct {
	// Name is the native event name.
	Name string
	// Parsed is the decoded payload: a profile model for common events, an
	// *parse.OnboardingEvent for onboarding events, and a codec.Object for
	// paywall view events.
	Parsed any
	// Raw is the payload as plain JSON, used for routing by view id.
	Raw codec.Object
}

// ViewID returns raw.view.id, or "" when absent.
func (e Event) ViewID() string {
	view, _ := e.Raw["view"].(codec.Object)
	id, _ := view["id"].(string)
	return id
}

// Subscription is a registered listener.
type Subscription = transport.Subscription

// Bridge issues SDK calls over a transport. It is safe for concurrent use.
type Bridge struct {
	t transport.Transport

	mu   sync.Mutex
	subs map[Subscription]struct{}
}

// New returns a bridge over t.
func New(t transport.Transport) *Bridge {
	return &Bridge{t: t, subs: make(map[Subscription]struct{})}
}

// Transport returns the underlying transport.
func (b *Bridge) Transport() transport.Transport { return b.t }

// Request sends method with body and decodes the result as resultType.
// body may be nil; its "method" key is always set to method. Native
// failures are returned as *errors.AdaptyError, local decode failures as
// *errors.Error, and transport failures unchanged.
func (b *Bridge) Request(ctx context.Context, method string, body codec.Object, resultType parse.Type) (any, error) {
	log := zap.L().With(zap.String("method", "fetch/"+method))

	payload := make(codec.Object, len(body)+1)
	for k, v := range body {
		payload[k] = v
	}
	payload["method"] = method

	params, err := jsonutil.MarshalString(payload)
	if err != nil {
		return nil, aerr.New(aerr.PhaseEncode, aerr.KindInvalidData).
			Path(method).
			Cause(err).
			Detail("failed to encode request body").
			Build()
	}

	start := time.Now()
	log.Debug("start", zap.String("params", params))

	response, err := b.t.Request(ctx, method, params, string(resultType))
	if err != nil {
		log.Debug("failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return nil, err
	}

	result, err := parse.ParseMethodResult(response, resultType)
	if err != nil {
		log.Debug("failed", zap.Error(err), zap.String("response", response), zap.Duration("took", time.Since(start)))
		return nil, err
	}
	log.Debug("success", zap.String("response", response), zap.Duration("took", time.Since(start)))
	return result, nil
}

// AddEventListener registers cb for the native event. Payloads that fail to
// parse are logged and dropped.
func (b *Bridge) AddEventListener(event string, cb func(Event)) Subscription {
	sub := b.t.AddEventListener(event, func(payload string) {
		log := zap.L().With(zap.String("event", event))
		log.Debug("start", zap.String("payload", payload))

		parsed, raw, err := parse.ParseEvent(event, payload)
		if err != nil {
			log.Error("failed to parse native event", zap.Error(err))
			return
		}
		cb(Event{Name: event, Parsed: parsed, Raw: raw})
	})
	return b.track(sub)
}

// AddRawEventListener registers cb with the unparsed payload.
func (b *Bridge) AddRawEventListener(event string, cb func(payload string)) Subscription {
	return b.track(b.t.AddEventListener(event, cb))
}

// RemoveAllEventListeners removes every listener registered through this
// bridge.
func (b *Bridge) RemoveAllEventListeners() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[Subscription]struct{})
	b.mu.Unlock()

	for s := range subs {
		s.Remove()
	}
}

func (b *Bridge) track(sub Subscription) Subscription {
	t := &trackedSubscription{Subscription: sub, bridge: b}
	b.mu.Lock()
	b.subs[t] = struct{}{}
	b.mu.Unlock()
	return t
}

type trackedSubscription struct {
	Subscription
	bridge *Bridge
}

func (t *trackedSubscription) Remove() {
	t.bridge.mu.Lock()
	delete(t.bridge.subs, t)
	t.bridge.mu.Unlock()
	t.Subscription.Remove()
}
