package common

// Version information, set at build time via ldflags:
//
//	-ldflags "-X github.com/ternarybob/scour/internal/common.Version=1.2.3"
var (
	Version   = "dev"
	Build     = "local"
	GitCommit = "unknown"
)

// GetVersion returns the semantic version string.
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with build metadata.
func GetFullVersion() string {
	return Version + " (build " + Build + ", commit " + GitCommit + ")"
}
