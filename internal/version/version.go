// Package version carries build information stamped in with -ldflags.
package version

import "fmt"

// Name is the tool name recorded in generated metadata.
const Name = "specindex"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String returns the version with commit and build date.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Tool returns "specindex/<version>", the value stamped into output metadata.
func Tool() string {
	return Name + "/" + Version
}
