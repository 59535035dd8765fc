// internal/ua/ua.go
//
// User-Agent summary for the access log.
//
// This wrapper isolates the third-party `github.com/avct/uasurfer` API so
// the rest of the codebase never sees its enums or structs.  The dashboard
// only needs enough to group log lines by client, so Info is deliberately
// small.
package ua

import (
	"fmt"
	"strings"

	surfer "github.com/avct/uasurfer"
)

// Device classes.
const (
	Desktop = "desktop"
	Tablet  = "tablet"
	Mobile  = "mobile"
	Other   = "other"
)

// Info is a parsed User-Agent.  Browser and OS are uasurfer's names with
// the "Browser"/"OS" prefix removed, for example "Chrome" and "Android".
type Info struct {
	Browser string
	Major   int
	OS      string
	Device  string
	IsBot   bool
}

// String renders "Chrome/125 Android mobile".  An empty header renders as
// "unknown".
func (i Info) String() string {
	if i.Browser == "" && i.OS == "" {
		return "unknown"
	}
	b := i.Browser
	if i.Major > 0 {
		b = fmt.Sprintf("%s/%d", b, i.Major)
	}
	return b + " " + i.OS + " " + i.Device
}

// Parse converts a raw header into an Info.
func Parse(raw string) Info {
	if strings.TrimSpace(raw) == "" {
		return Info{Device: Other}
	}
	u := surfer.Parse(raw)

	info := Info{
		Browser: strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Major:   int(u.Browser.Version.Major),
		OS:      strings.TrimPrefix(u.OS.Name.String(), "OS"),
		IsBot:   u.IsBot(),
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		info.Device = Desktop
	case surfer.DeviceTablet:
		info.Device = Tablet
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = Mobile
	default:
		info.Device = Other
	}
	return info
}
