package model

import "github.com/adaptyteam/adapty-sdk-go/pkg/codec"

// LogLevel is the verbosity of the native SDK logger.
type LogLevel string

const (
	LogLevelError   LogLevel = "error"
	LogLevelWarn    LogLevel = "warn"
	LogLevelInfo    LogLevel = "info"
	LogLevelVerbose LogLevel = "verbose"
	LogLevelDebug   LogLevel = "debug"
)

// MediaCache limits the UI media cache.
type MediaCache struct {
	MemoryStorageTotalCostLimit int64
	MemoryStorageCountLimit     int64
	DiskStorageSizeLimit        int64
}

// DefaultMediaCache is used when ActivateParams.MediaCache is nil.
var DefaultMediaCache = MediaCache{
	MemoryStorageTotalCostLimit: 100 * 1024 * 1024,
	MemoryStorageCountLimit:     2147483647,
	DiskStorageSizeLimit:        100 * 1024 * 1024,
}

// ActivateParams configure SDK activation.
type ActivateParams struct {
	ObserverMode                bool
	CustomerUserID              string
	LogLevel                    LogLevel
	ServerCluster               string // "default", "eu" or "cn"
	BackendBaseURL              string
	BackendFallbackBaseURL      string
	BackendConfigsBaseURL       string
	BackendUABaseURL            string
	BackendProxyHost            string
	BackendProxyPort            int
	ActivateUI                  *bool
	MediaCache                  *MediaCache
	IPAddressCollectionDisabled bool

	IOS struct {
		IDFACollectionDisabled bool
		AppAccountToken        string
	}
	Android struct {
		AdIDCollectionDisabled bool
		ObfuscatedAccountID    string
	}

	// DeferActivation holds the native activate call until the first SDK
	// method that needs an activated SDK.
	DeferActivation bool
	// SkipIfActivated makes Activate a no-op when the native SDK already
	// reports itself activated, as after a host reload.
	SkipIfActivated bool
}

// Cross-platform SDK identity reported on activation.
const (
	SDKName    = "go"
	SDKVersion = "0.1.0"
)

// EncodeConfiguration builds the configuration object sent with activate.
func EncodeConfiguration(apiKey string, p ActivateParams) (codec.Object, error) {
	cfg := codec.Object{
		"api_key":                    apiKey,
		"cross_platform_sdk_name":    SDKName,
		"cross_platform_sdk_version": SDKVersion,
	}
	if p.CustomerUserID != "" {
		cfg["customer_user_id"] = p.CustomerUserID
	}
	cfg["observer_mode"] = p.ObserverMode
	cfg["ip_address_collection_disabled"] = p.IPAddressCollectionDisabled
	if p.LogLevel != "" {
		cfg["log_level"] = string(p.LogLevel)
	}
	cfg["server_cluster"] = "default"
	if p.ServerCluster != "" {
		cfg["server_cluster"] = p.ServerCluster
	}

	for key, value := range map[string]string{
		"backend_base_url":          p.BackendBaseURL,
		"backend_fallback_base_url": p.BackendFallbackBaseURL,
		"backend_configs_base_url":  p.BackendConfigsBaseURL,
		"backend_ua_base_url":       p.BackendUABaseURL,
		"backend_proxy_host":        p.BackendProxyHost,
	} {
		if value != "" {
			cfg[key] = value
		}
	}
	if p.BackendProxyPort != 0 {
		cfg["backend_proxy_port"] = p.BackendProxyPort
	}

	cfg["activate_ui"] = p.ActivateUI == nil || *p.ActivateUI

	cache := DefaultMediaCache
	if p.MediaCache != nil {
		cache = *p.MediaCache
	}
	media, err := uiMediaCacheCoder.EncodeObject(codec.Object{
		"memoryStorageTotalCostLimit": cache.MemoryStorageTotalCostLimit,
		"memoryStorageCountLimit":     cache.MemoryStorageCountLimit,
		"diskStorageSizeLimit":        cache.DiskStorageSizeLimit,
	})
	if err != nil {
		return nil, err
	}
	cfg["media_cache"] = media

	switch codec.CurrentPlatform() {
	case codec.PlatformIOS:
		cfg["apple_idfa_collection_disabled"] = p.IOS.IDFACollectionDisabled
		if p.IOS.AppAccountToken != "" {
			cfg["customer_identity_parameters"] = codec.Object{"app_account_token": p.IOS.AppAccountToken}
		}
	case codec.PlatformAndroid:
		cfg["google_adid_collection_disabled"] = p.Android.AdIDCollectionDisabled
		if p.Android.ObfuscatedAccountID != "" {
			cfg["customer_identity_parameters"] = codec.Object{"obfuscated_account_id": p.Android.ObfuscatedAccountID}
		}
	}

	return cfg, nil
}
