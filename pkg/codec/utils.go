package codec

import (
	"fmt"
	"strings"
)

// ColorFromARGB renders a 32-bit ARGB integer as #rrggbbaa.
func ColorFromARGB(v uint32) string {
	hex := fmt.Sprintf("%08x", v)
	return "#" + hex[2:] + hex[:2]
}

// ColorFromRGBA renders a 32-bit RGBA integer as #rrggbbaa.
func ColorFromRGBA(v uint32) string {
	return fmt.Sprintf("#%08x", v)
}

// ColorFromRGB renders a 24-bit RGB integer as an opaque #rrggbbff.
func ColorFromRGB(v uint32) string {
	return fmt.Sprintf("#%06x", v&0xffffff) + "ff"
}

// ExtractBase64Data strips a data: URI prefix, returning the payload after
// the first comma. Other input is returned unchanged.
func ExtractBase64Data(input string) string {
	if !strings.HasPrefix(input, "data:") {
		return input
	}
	if i := strings.IndexByte(input, ','); i != -1 {
		return input[i+1:]
	}
	return input
}

// FileLocation points at a bundled file on each platform. On android either
// RelativeAssetPath (an asset) or RawResName (a raw resource) is set.
type FileLocation struct {
	IOS struct {
		FileName string
	}
	Android struct {
		RelativeAssetPath string
		RawResName        string
	}
}

// AssetSource is either a RelativeAssetPath shared by both platforms or a
// per-platform FileLocation.
type AssetSource struct {
	RelativeAssetPath string
	FileLocation      *FileLocation
}

// ResolveAssetID computes the native asset id for the running platform.
// Android ids carry a one-letter suffix: "a" for assets, "r" for raw
// resources.
func ResolveAssetID(src AssetSource) string {
	if src.FileLocation == nil {
		if src.RelativeAssetPath == "" {
			return ""
		}
		return Select(src.RelativeAssetPath, src.RelativeAssetPath+"a")
	}
	loc := src.FileLocation
	if CurrentPlatform() == PlatformIOS {
		return loc.IOS.FileName
	}
	if loc.Android.RelativeAssetPath != "" {
		return loc.Android.RelativeAssetPath + "a"
	}
	if loc.Android.RawResName != "" {
		return loc.Android.RawResName + "r"
	}
	return ""
}
