// Package version provides build-time version information.
//
// Variables are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/rickgao/bingo-client/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/bingo-client/internal/version.Commit=$(git rev-parse --short HEAD)" ./cmd/bingo
package version

// Build-time variables (set via ldflags)
var (
	// Version is the semantic version (e.g., "1.0.0")
	Version = "dev"

	// Commit is the git commit hash (short form)
	Commit = "unknown"
)

// String returns a formatted version string.
func String() string {
	return Version + " (" + Commit + ")"
}

// UserAgent is the User-Agent sent with every request to the game server.
func UserAgent() string {
	return "bingo-client/" + Version
}
