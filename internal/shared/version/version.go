// Package version carries the build version stamped in at link time.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is set with -ldflags "-X github.com/faqplusplus/faqplusplus/internal/shared/version.Version=1.2.3".
var Version = "dev"

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// String returns the normalized build version, or "dev" for unstamped builds.
func String() string {
	v := Normalize(Version)
	if !semver.IsValid(v) {
		return "dev"
	}
	return v
}

// IsRelease reports whether the build carries a release version without a prerelease suffix.
func IsRelease() bool {
	v := Normalize(Version)
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}
