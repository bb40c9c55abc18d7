package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			"tagged",
			Info{Version: "v1.2.0", CommitHash: "0123456789abcdef", BuildTime: "2026-01-01", GoVersion: "go1.24.1", Platform: "linux/amd64"},
			"picadata v1.2.0 (commit 0123456, built 2026-01-01, go1.24.1 linux/amd64)",
		},
		{
			"untagged dirty",
			Info{CommitHash: "0123456789abcdef", Modified: true, GoVersion: "go1.24.1", Platform: "darwin/arm64"},
			"picadata dev (commit 0123456+dirty, built unknown, go1.24.1 darwin/arm64)",
		},
		{
			"nothing stamped",
			Info{GoVersion: "go1.24.1", Platform: "linux/amd64"},
			"picadata dev (commit unknown, built unknown, go1.24.1 linux/amd64)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

func TestShort(t *testing.T) {
	assert.Equal(t, "unknown", Info{}.Short())
	assert.Equal(t, "abcdef1", Info{CommitHash: "abcdef1"}.Short())
	assert.Equal(t, "abcdef1", Info{CommitHash: "abcdef1234"}.Short())
}

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/teranos/picadata", Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "fedcba9876543210"},
			{Key: "vcs.time", Value: "2026-02-03T04:05:06Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	var info Info
	info.fill(bi)
	assert.Equal(t, "v0.3.1", info.Version)
	assert.Equal(t, "fedcba9876543210", info.CommitHash)
	assert.Equal(t, "2026-02-03T04:05:06Z", info.BuildTime)
	assert.True(t, info.Modified)

	// ldflags win over stamps
	info = Info{Version: "v9.9.9", CommitHash: "1111111"}
	info.fill(bi)
	assert.Equal(t, "v9.9.9", info.Version)
	assert.Equal(t, "1111111", info.CommitHash)

	// go run and test binaries report a devel main module
	info = Info{}
	info.fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Empty(t, info.Version)
}

func TestGet(t *testing.T) {
	info := Get()
	require.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
	assert.Contains(t, info.String(), info.GoVersion)
}
