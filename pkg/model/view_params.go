package model

import (
	"sort"
	"time"

	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
)

// ColorFormat names the integer layout of a Color.
type ColorFormat int

const (
	ColorARGB ColorFormat = iota + 1
	ColorRGBA
	ColorRGB
)

// Color is an integer color in one of the supported layouts. The zero value
// is not a valid color.
type Color struct {
	Format ColorFormat
	Value  uint32
}

// ARGB, RGBA and RGB build a Color from an integer in that layout.
func ARGB(v uint32) Color { return Color{Format: ColorARGB, Value: v} }
func RGBA(v uint32) Color { return Color{Format: ColorRGBA, Value: v} }
func RGB(v uint32) Color  { return Color{Format: ColorRGB, Value: v} }

// Hex renders the color as #rrggbbaa. ok is false for an unset color.
func (c Color) Hex() (hex string, ok bool) {
	switch c.Format {
	case ColorARGB:
		return codec.ColorFromARGB(c.Value), true
	case ColorRGBA:
		return codec.ColorFromRGBA(c.Value), true
	case ColorRGB:
		return codec.ColorFromRGB(c.Value), true
	}
	return "", false
}

// GradientStop is one color stop of a linear gradient at position P.
type GradientStop struct {
	Color Color
	P     float64
}

// GradientPoints are the start and end points of a linear gradient.
type GradientPoints struct {
	X0, Y0, X1, Y1 float64
}

// DefaultGradientPoints runs left to right.
var DefaultGradientPoints = GradientPoints{X0: 0, Y0: 0, X1: 1, Y1: 0}

// CustomAssetType is the kind of a custom paywall asset.
type CustomAssetType string

const (
	AssetImage          CustomAssetType = "image"
	AssetVideo          CustomAssetType = "video"
	AssetColor          CustomAssetType = "color"
	AssetLinearGradient CustomAssetType = "linear-gradient"
)

// CustomAsset replaces an asset of a paywall built with the paywall builder.
// Use the constructors; only the fields matching Type are read.
type CustomAsset struct {
	Type   CustomAssetType
	Base64 string
	Source codec.AssetSource
	Color  Color
	Stops  []GradientStop
	Points *GradientPoints
}

// ImageBase64 is an image given inline, optionally as a data: URI.
func ImageBase64(data string) CustomAsset {
	return CustomAsset{Type: AssetImage, Base64: data}
}

// ImageAsset is an image bundled with the app.
func ImageAsset(src codec.AssetSource) CustomAsset {
	return CustomAsset{Type: AssetImage, Source: src}
}

// VideoAsset is a video bundled with the app.
func VideoAsset(src codec.AssetSource) CustomAsset {
	return CustomAsset{Type: AssetVideo, Source: src}
}

// ColorAsset is a solid color.
func ColorAsset(c Color) CustomAsset {
	return CustomAsset{Type: AssetColor, Color: c}
}

// LinearGradientAsset is a gradient; nil points use DefaultGradientPoints.
func LinearGradientAsset(stops []GradientStop, points *GradientPoints) CustomAsset {
	return CustomAsset{Type: AssetLinearGradient, Stops: stops, Points: points}
}

// ProductIdentifier identifies a paywall product for per-product purchase
// parameters.
type ProductIdentifier struct {
	VendorProductID string
	AdaptyProductID string
}

// ProductPurchaseParams pairs a product with its purchase options.
type ProductPurchaseParams struct {
	ProductID ProductIdentifier
	Params    MakePurchaseParams
}

// CreatePaywallViewParams customize a paywall view before it is created.
type CreatePaywallViewParams struct {
	PrefetchProducts      *bool
	LoadTimeout           time.Duration
	CustomTags            map[string]string
	CustomTimers          map[string]time.Time
	CustomAssets          map[string]CustomAsset
	ProductPurchaseParams []ProductPurchaseParams
}

// EncodeCreatePaywallViewParams renders view params for
// adapty_ui_create_paywall_view. Assets that cannot be represented are
// dropped.
func EncodeCreatePaywallViewParams(p CreatePaywallViewParams) codec.Object {
	out := codec.Object{}
	if p.PrefetchProducts != nil {
		out["preload_products"] = *p.PrefetchProducts
	}
	if p.LoadTimeout > 0 {
		out["load_timeout"] = p.LoadTimeout.Seconds()
	}
	if p.CustomTags != nil {
		tags := make(codec.Object, len(p.CustomTags))
		for k, v := range p.CustomTags {
			tags[k] = v
		}
		out["custom_tags"] = tags
	}
	if p.CustomTimers != nil {
		timers := make(codec.Object, len(p.CustomTimers))
		for k, v := range p.CustomTimers {
			timers[k] = codec.FormatDateUTC(v)
		}
		out["custom_timers"] = timers
	}
	if p.CustomAssets != nil {
		out["custom_assets"] = encodeCustomAssets(p.CustomAssets)
	}
	if p.ProductPurchaseParams != nil {
		params := make(codec.Object, len(p.ProductPurchaseParams))
		for _, pp := range p.ProductPurchaseParams {
			pp := pp
			params[pp.ProductID.AdaptyProductID] = EncodePurchaseParams(&pp.Params)
		}
		out["product_purchase_parameters"] = params
	}
	return out
}

func encodeCustomAssets(assets map[string]CustomAsset) []any {
	ids := make([]string, 0, len(assets))
	for id := range assets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]any, 0, len(ids))
	for _, id := range ids {
		if encoded, ok := encodeCustomAsset(id, assets[id]); ok {
			out = append(out, encoded)
		}
	}
	return out
}

func encodeCustomAsset(id string, a CustomAsset) (codec.Object, bool) {
	switch a.Type {
	case AssetImage:
		if a.Base64 != "" {
			return codec.Object{"id": id, "type": string(AssetImage), "value": codec.ExtractBase64Data(a.Base64)}, true
		}
		return codec.Object{"id": id, "type": string(AssetImage), "asset_id": codec.ResolveAssetID(a.Source)}, true
	case AssetVideo:
		return codec.Object{"id": id, "type": string(AssetVideo), "asset_id": codec.ResolveAssetID(a.Source)}, true
	case AssetColor:
		hex, ok := a.Color.Hex()
		if !ok {
			return nil, false
		}
		return codec.Object{"id": id, "type": string(AssetColor), "value": hex}, true
	case AssetLinearGradient:
		stops := make([]any, 0, len(a.Stops))
		for _, s := range a.Stops {
			hex, ok := s.Color.Hex()
			if !ok {
				return nil, false
			}
			stops = append(stops, codec.Object{"color": hex, "p": s.P})
		}
		pts := DefaultGradientPoints
		if a.Points != nil {
			pts = *a.Points
		}
		return codec.Object{
			"id":     id,
			"type":   string(AssetLinearGradient),
			"values": stops,
			"points": codec.Object{"x0": pts.X0, "y0": pts.Y0, "x1": pts.X1, "y1": pts.Y1},
		}, true
	}
	return nil, false
}

// WebPresentation controls how onboarding external links open.
type WebPresentation string

const (
	BrowserInApp  WebPresentation = "browser_in_app"
	BrowserOutApp WebPresentation = "browser_out_app"
)

// IOSPresentationStyle controls how an onboarding view is presented on iOS.
type IOSPresentationStyle string

const (
	PresentationFullScreen IOSPresentationStyle = "full_screen"
	PresentationPageSheet  IOSPresentationStyle = "page_sheet"
)

// CreateOnboardingViewParams customize an onboarding view.
type CreateOnboardingViewParams struct {
	ExternalURLsPresentation WebPresentation
}

// EncodeCreateOnboardingViewParams renders onboarding view params.
func EncodeCreateOnboardingViewParams(p CreateOnboardingViewParams) codec.Object {
	out := codec.Object{}
	if p.ExternalURLsPresentation != "" {
		out["external_urls_presentation"] = string(p.ExternalURLsPresentation)
	}
	return out
}
