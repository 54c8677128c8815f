// Package version reports build information injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/longkey1/mdbuddy/internal/version.Version=v0.1.0"
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"
	CommitSHA = ""
	BuildTime = ""
)

// Short returns only the version number
func Short() string {
	return Version
}

// Info returns the version, commit, build time and Go version
func Info() string {
	commit := CommitSHA
	if commit == "" {
		commit = vcsRevision()
	}
	if commit == "" {
		commit = "unknown"
	}
	buildTime := BuildTime
	if buildTime == "" {
		buildTime = "unknown"
	}

	return fmt.Sprintf("mdbuddy %s\n  commit:  %s\n  built:   %s\n  go:      %s",
		Version, commit, buildTime, runtime.Version())
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}
	return ""
}
