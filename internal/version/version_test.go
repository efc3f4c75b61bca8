package version

import (
	"runtime"
	"testing"
)

func setBuildInfo(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	origVersion, origCommit, origBuildTime := Version, Commit, BuildTime
	t.Cleanup(func() {
		Version, Commit, BuildTime = origVersion, origCommit, origBuildTime
	})
	Version, Commit, BuildTime = version, commit, buildTime
}

func TestString(t *testing.T) {
	tests := []struct {
		name                     string
		version, commit, buildAt string
		want                     string
	}{
		{"defaults", "dev", "unknown", "unknown", "dev (unknown) built unknown"},
		{"release", "1.2.3", "abc1234", "2024-01-15T10:00:00Z", "1.2.3 (abc1234) built 2024-01-15T10:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBuildInfo(t, tt.version, tt.commit, tt.buildAt)
			if got := String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGet(t *testing.T) {
	setBuildInfo(t, "0.4.0", "deadbee", "2024-03-01T00:00:00Z")

	got := Get()
	want := Info{
		Version:   "0.4.0",
		Commit:    "deadbee",
		BuildTime: "2024-03-01T00:00:00Z",
		GoVersion: runtime.Version(),
	}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestDefaultValues(t *testing.T) {
	// ldflags may override these in release builds, but never with empty strings.
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
	if BuildTime == "" {
		t.Error("BuildTime should not be empty")
	}
}
