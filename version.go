// Package billflow provides the version information for billflow.
package billflow

// Version is the current version of billflow.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
