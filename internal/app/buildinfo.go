package app

import "fmt"

// Build information set with -ldflags "-X github.com/hyperifyio/labelflat/internal/app.BuildVersion=...".
var (
    BuildVersion = "0.0.0-dev"
    BuildCommit  = "unknown"
    BuildDate    = "unknown"
)

// VersionString formats the build information for --version and /healthz.
func VersionString() string {
    return fmt.Sprintf("labelflat %s (commit %s, built %s)", BuildVersion, BuildCommit, BuildDate)
}
