package version

import "testing"

func TestGetVersionInfo_LinkerValues(t *testing.T) {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	defer func() { Version, GitCommit, BuildTime = origVersion, origCommit, origBuildTime }()

	Version = "1.2.0"
	GitCommit = "abcdef0123456"
	BuildTime = "2024-01-15T10:30:00Z"

	info := GetVersionInfo()
	if info.Version != "1.2.0" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.BuildTime != "2024-01-15T10:30:00Z" {
		t.Errorf("BuildTime = %q", info.BuildTime)
	}
	if info.GitCommit != "abcdef0" {
		t.Errorf("GitCommit = %q, want 7-char prefix", info.GitCommit)
	}
}

func TestInfo_String(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{Info{Version: "1.0.0", GitCommit: "abc1234", IsDirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
