package model

import (
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
)

// Installation statuses reported by get_current_installation_status.
const (
	InstallationNotAvailable  = "not_available"
	InstallationNotDetermined = "not_determined"
	InstallationDetermined    = "determined"
)

var installationDetailsCoder = codec.NewCoder("AdaptyInstallationDetails", codec.Properties{
	Fields: []codec.Field{
		codec.Required("installTime", "install_time", codec.TypeString, codec.DateCoder{}),
		codec.Required("appLaunchCount", "app_launch_count", codec.TypeNumber),
		codec.Optional("installId", "install_id", codec.TypeString),
		codec.Optional("payload", "payload", codec.TypeString),
	},
})

// InstallationDetails converts install attribution details.
func InstallationDetails() *codec.Coder { return installationDetailsCoder }

var installationStatusBaseCoder = codec.NewCoder("AdaptyInstallationStatus", codec.Properties{
	Fields: []codec.Field{
		codec.Required("status", "status", codec.TypeString),
	},
})

// InstallationStatusCoder converts the installation status. Details are
// present only when the status is determined.
type InstallationStatusCoder struct{}

// InstallationStatus returns the installation status converter.
func InstallationStatus() InstallationStatusCoder { return InstallationStatusCoder{} }

// Decode decodes the status and, when determined, its details.
func (InstallationStatusCoder) Decode(v any) (any, error) {
	base, err := installationStatusBaseCoder.DecodeObject(v)
	if err != nil {
		return nil, err
	}
	if base["status"] != InstallationDetermined {
		return base, nil
	}
	wire, _ := v.(codec.Object)
	details, err := installationDetailsCoder.Decode(wire["details"])
	if err != nil {
		return nil, withPath(err, "details")
	}
	base["details"] = details
	return base, nil
}

// Encode is the inverse of Decode.
func (InstallationStatusCoder) Encode(v any) (any, error) {
	m, ok := v.(codec.Object)
	if !ok {
		return nil, aerr.FailedToEncode("installation status must be an object, got %s", codec.TypeName(v))
	}
	out, err := installationStatusBaseCoder.EncodeObject(codec.Object{"status": m["status"]})
	if err != nil {
		return nil, err
	}
	if m["status"] != InstallationDetermined {
		return out, nil
	}
	details, err := installationDetailsCoder.Encode(m["details"])
	if err != nil {
		return nil, withPath(err, "details")
	}
	out["details"] = details
	return out, nil
}
