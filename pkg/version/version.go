// Package version carries the build identity of the monkey binary,
// stamped through -ldflags "-X".
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the release tag.
	Version = "dev"
	// Commit is the Git hash the binary was built from.
	Commit = "<unknown>"
	// Date is the build timestamp.
	Date = "<unknown>"
)

// Resolved returns Version, falling back to the module version recorded
// in the build info when the binary was not stamped.
func Resolved() string {
	if Version != "dev" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return Version
	}

	return info.Main.Version
}

// String formats the full build identity.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Resolved(), Commit, Date)
}
