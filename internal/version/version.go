package version

var (
	// Version is the semantic version of the binary. Set via -ldflags.
	Version = "dev"
	// Commit is the git commit hash. Set via -ldflags.
	Commit = "unknown"
	// BuildDate is the build timestamp. Set via -ldflags.
	BuildDate = "unknown"
)
