// Package version exposes build information injected at link time.
package version

//nolint:gochecknoglobals // Overridden with -ldflags "-X" during release builds.
var (
	// Version is the semantic version of the binary.
	Version = "0.1.0"

	// Commit is the VCS revision the binary was built from.
	Commit = "none"

	// BuildTime is the moment the binary was built.
	BuildTime = "unknown"
)

// Short returns the bare version string.
func Short() string {
	return Version
}

// Full returns the version together with the commit and build time.
func Full() string {
	return "version: " + Version + ", commit: " + Commit + ", built at: " + BuildTime
}
