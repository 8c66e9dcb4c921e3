// Package version carries the build metadata the ingestprep CLI logs at
// startup. Values are injected via -ldflags; the defaults identify an
// untagged development build.
package version

//nolint:revive // Set at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
