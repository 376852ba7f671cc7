// Package version holds appwish build metadata. Version and Commit are set
// with -ldflags "-X github.com/cristianoliveira/appwish/internal/version.Version=...".
package version

// Name is the program name reported to users and to the App Store.
const Name = "appwish"

// Version is the release tag, or "development" for local builds.
var Version = "development"

// Commit is the short git hash the binary was built from.
var Commit = "unknown"

// String returns Version with "+commit" appended when the commit is known.
func String() string {
	if Commit != "unknown" && Commit != "" {
		return Version + "+" + Commit
	}
	return Version
}

// UserAgent identifies appwish in catalog requests, e.g. "appwish/1.2.0+abc1234".
func UserAgent() string {
	return Name + "/" + String()
}
