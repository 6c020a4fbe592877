package version

import "fmt"

// Version is recorded in the cache as pluginVersion. Release builds set it
// with -ldflags "-X git.home.luguber.info/inful/llmstxt/internal/version.Version=v1.2.0".
var Version = "dev"

// Build metadata, also set through ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String is the text printed by --version.
func String() string {
	return fmt.Sprintf("llmstxt %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
