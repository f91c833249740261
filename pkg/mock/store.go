package mock

import (
	"maps"
	"sync"
	"time"

	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
)

// Config customizes the data served by the mock. Objects use model field
// names and shallowly override the generated defaults.
type Config struct {
	// Profile overrides fields of the initial profile.
	Profile codec.Object
	// Paywalls overrides paywall fields by placement id.
	Paywalls map[string]codec.Object
	// Products replaces the generated products by paywall variation id.
	Products map[string][]codec.Object
	// Onboardings overrides onboarding fields by placement id.
	Onboardings map[string]codec.Object
	// AutoGrantPremium grants an access level on purchase. Defaults to true.
	AutoGrantPremium *bool
	// PremiumAccessLevelID is the access level granted on purchase. When
	// empty the product's access level, then "premium", is used.
	PremiumAccessLevelID string
	// EventDelay is how long after a purchase the profile update event is
	// emitted. Defaults to 100ms.
	EventDelay time.Duration
	// Now is the clock used for generated dates.
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.EventDelay == 0 {
		c.EventDelay = 100 * time.Millisecond
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Store keeps the mock state across calls. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	cfg       Config
	profile   codec.Object
	activated bool
}

// NewStore returns a store seeded from cfg.
func NewStore(cfg Config) *Store {
	cfg = cfg.withDefaults()
	return &Store{cfg: cfg, profile: newProfile(maps.Clone(cfg.Profile))}
}

// Profile returns a copy of the current profile.
func (s *Store) Profile() codec.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.profile)
}

// UpdateProfile applies profile parameters. Only custom attributes are
// reflected in the profile; the other parameters are accepted and dropped.
func (s *Store) UpdateProfile(params codec.Object) {
	attrs, ok := params["codableCustomAttributes"].(codec.Object)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, _ := s.profile["customAttributes"].(codec.Object)
	merged := maps.Clone(current)
	if merged == nil {
		merged = codec.Object{}
	}
	maps.Copy(merged, attrs)
	s.profile = maps.Clone(s.profile)
	s.profile["customAttributes"] = merged
}

// GrantPremiumAccess adds an active access level and an annual subscription
// and returns the updated profile.
func (s *Store) GrantPremiumAccess(accessLevelID string) codec.Object {
	now := s.cfg.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	levels := cloneObject(s.profile["accessLevels"])
	levels[accessLevelID] = newPremiumAccessLevel(accessLevelID, now)
	subs := cloneObject(s.profile["subscriptions"])
	subs[VendorProductAnnual] = newSubscription(now)

	s.profile = maps.Clone(s.profile)
	s.profile["accessLevels"] = levels
	s.profile["subscriptions"] = subs
	return maps.Clone(s.profile)
}

// MakePurchase simulates a purchase. productAccessLevelID may be empty.
func (s *Store) MakePurchase(productAccessLevelID string) codec.Object {
	if s.cfg.AutoGrantPremium != nil && !*s.cfg.AutoGrantPremium {
		return s.Profile()
	}
	id := s.cfg.PremiumAccessLevelID
	if id == "" {
		id = productAccessLevelID
	}
	if id == "" {
		id = AccessLevelPremium
	}
	return s.GrantPremiumAccess(id)
}

// Paywall returns the paywall for placementID.
func (s *Store) Paywall(placementID string) codec.Object {
	return newPaywall(placementID, maps.Clone(s.cfg.Paywalls[placementID]))
}

// PaywallProducts returns the configured products of variationID, or
// generated ones for the placement's paywall.
func (s *Store) PaywallProducts(placementID, variationID string) []any {
	if custom, ok := s.cfg.Products[variationID]; ok {
		out := make([]any, len(custom))
		for i, p := range custom {
			out[i] = p
		}
		return out
	}
	return newProducts(s.Paywall(placementID))
}

// Onboarding returns the onboarding for placementID.
func (s *Store) Onboarding(placementID string) codec.Object {
	return newOnboarding(placementID, maps.Clone(s.cfg.Onboardings[placementID]))
}

// SetActivated records the activation state.
func (s *Store) SetActivated(activated bool) {
	s.mu.Lock()
	s.activated = activated
	s.mu.Unlock()
}

// IsActivated reports the activation state.
func (s *Store) IsActivated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activated
}

// Logout resets the profile to its initial state.
func (s *Store) Logout() {
	s.mu.Lock()
	s.profile = newProfile(maps.Clone(s.cfg.Profile))
	s.mu.Unlock()
}

// Identify sets the customer user id.
func (s *Store) Identify(customerUserID string) {
	s.mu.Lock()
	s.profile = maps.Clone(s.profile)
	s.profile["customerUserId"] = customerUserID
	s.mu.Unlock()
}

func cloneObject(v any) codec.Object {
	m, _ := v.(codec.Object)
	if m == nil {
		return codec.Object{}
	}
	return maps.Clone(m)
}
