// Package version holds build metadata injected with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/apidocfm/internal/version.Version=v1.2.0" ./cmd/apidocfm
package version

import "fmt"

// Version is the release tag, "dev" for local builds.
var Version = "dev"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("apidocfm %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
