package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time via -ldflags "-X github.com/teranos/picadata/version.Version=...".
// Binaries built with plain go build or go install fall back to the
// module and VCS stamps recorded by the toolchain.
var (
	CommitHash = ""
	BuildTime  = ""
	Version    = ""
)

const unknown = "unknown"

// Info identifies a picadata binary
type Info struct {
	Version    string
	CommitHash string
	BuildTime  string
	GoVersion  string
	Platform   string
	Modified   bool // built from a dirty work tree
}

// Get returns the build information of the running binary
func Get() Info {
	info := Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fill(bi)
	}
	return info
}

// fill takes whatever ldflags left empty from the toolchain stamps
func (i *Info) fill(bi *debug.BuildInfo) {
	if i.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.CommitHash == "" {
				i.CommitHash = s.Value
			}
		case "vcs.time":
			if i.BuildTime == "" {
				i.BuildTime = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

// String renders the line printed by --version
func (i Info) String() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	commit := i.Short()
	if i.Modified {
		commit += "+dirty"
	}
	built := i.BuildTime
	if built == "" {
		built = unknown
	}
	return fmt.Sprintf("picadata %s (commit %s, built %s, %s %s)", v, commit, built, i.GoVersion, i.Platform)
}

// Short returns the abbreviated commit hash
func (i Info) Short() string {
	switch {
	case i.CommitHash == "":
		return unknown
	case len(i.CommitHash) > 7:
		return i.CommitHash[:7]
	default:
		return i.CommitHash
	}
}
