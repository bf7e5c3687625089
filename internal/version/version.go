// Package version holds build metadata injected via ldflags:
//
//	-X github.com/kailas-cloud/blogsearch/internal/version.Version=v1.2.0
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the version line printed by the CLI.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}

// UserAgent identifies this build in outbound HTTP requests.
func UserAgent() string {
	return "blogsearch/" + Version
}
