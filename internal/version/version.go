package version

// Version information for the texlab CLI and language server.
// These variables can be overridden at build time via -ldflags.

var (
	// Version is the semantic version of the binary.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional one-line git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// VersionString renders the value cobra's --version flag prints: just the
// semantic version, with the rest of the build metadata reserved for
// `texlab version --hash/--message/--date/--full`.
func VersionString() string {
	return Version
}
