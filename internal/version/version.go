// Package version provides version information for the binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set at build time using -ldflags "-X .../internal/version.Version=v1.2.3".
var Version = "dev"

// BuildTime is set at build time using -ldflags.
var BuildTime = "unknown"

// Short returns Version, or the module version recorded by `go install` when
// no ldflags were given.
func Short() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// String returns the formatted version information.
func String() string {
	return fmt.Sprintf("coffee-api version %s (built %s)", Short(), BuildTime)
}
