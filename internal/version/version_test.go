package version

import (
	"runtime/debug"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	tests := []struct {
		name        string
		info        debug.BuildInfo
		version     string
		commit      string
		wantVersion string
		wantCommit  string
	}{
		{
			name: "module version and clean revision",
			info: debug.BuildInfo{
				Main:     debug.Module{Version: "v0.3.1"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}},
			},
			wantVersion: "v0.3.1",
			wantCommit:  "0123456",
		},
		{
			name: "devel build uses commit time",
			info: debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc"},
					{Key: "vcs.modified", Value: "true"},
					{Key: "vcs.time", Value: "2026-03-14T09:26:53Z"},
				},
			},
			wantVersion: "dev-20260314",
			wantCommit:  "abc-dirty",
		},
		{
			name:        "ldflags values are kept",
			info:        debug.BuildInfo{Main: debug.Module{Version: "v9.9.9"}},
			version:     "v1.2.3",
			commit:      "feedbee",
			wantVersion: "v1.2.3",
			wantCommit:  "feedbee",
		},
		{
			name: "nothing known",
			info: debug.BuildInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, c := fromBuildInfo(&tt.info, tt.version, tt.commit)
			if v != tt.wantVersion {
				t.Errorf("version = %q, want %q", v, tt.wantVersion)
			}
			if c != tt.wantCommit {
				t.Errorf("commit = %q, want %q", c, tt.wantCommit)
			}
		})
	}
}

func TestFull(t *testing.T) {
	if Full() == "" {
		t.Error("Full() should never be empty")
	}
}
