package codec

import "sync/atomic"

// Platform identifies the native platform the SDK runs against.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

var currentPlatform atomic.Value

func init() {
	currentPlatform.Store(PlatformIOS)
}

// SetPlatform sets the running platform. Required fields of a platform bucket
// are only enforced on decode when the bucket matches this platform.
func SetPlatform(p Platform) {
	currentPlatform.Store(p)
}

// CurrentPlatform returns the running platform (ios by default).
func CurrentPlatform() Platform {
	return currentPlatform.Load().(Platform)
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	return p == PlatformIOS || p == PlatformAndroid
}

// Select returns ios or android depending on the running platform.
func Select[T any](ios, android T) T {
	if CurrentPlatform() == PlatformAndroid {
		return android
	}
	return ios
}
