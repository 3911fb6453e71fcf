// Package version provides information about the build version of the service.
package version

import (
	"runtime"
	"runtime/debug"
)

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service   string `json:"service" yaml:"service"`
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	OS        string `json:"os" yaml:"os"`
	Arch      string `json:"arch" yaml:"arch"`
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'bgg/internal/core/version.version=v0.0.1'
	// -X 'bgg/internal/core/version.commit=abcd' -X 'bgg/internal/core/version.date=2025-09-02'"
	c := commit
	if c == "none" {
		c = vcsRevision()
	}
	return BuildInfo{
		Service:   service,
		Version:   version,
		Commit:    c,
		Date:      date,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

func vcsRevision() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return commit
}

var (
	service = "bgg"
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
