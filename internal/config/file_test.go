package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muurk/satip/internal/satip"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	}

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if filepath.Base(configDir) != "satip" {
		t.Errorf("GetConfigDir() = %v, should end in 'satip'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	default:
		if configDir != filepath.Join("/tmp/xdg", "satip") {
			t.Errorf("GetConfigDir() = %v, want XDG_CONFIG_HOME/satip", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewSettings(t *testing.T) {
	s := NewSettings()

	if s.Version != CurrentVersion {
		t.Errorf("NewSettings().Version = %v, want %v", s.Version, CurrentVersion)
	}
	if s.OutputFormat() != FormatDetailed {
		t.Errorf("OutputFormat() = %v, want %v", s.OutputFormat(), FormatDetailed)
	}

	cfg, err := s.DiscoveryConfig()
	if err != nil {
		t.Fatalf("DiscoveryConfig() error = %v", err)
	}

	want := satip.DefaultConfig()
	if cfg != want {
		t.Errorf("DiscoveryConfig() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Version != CurrentVersion {
		t.Errorf("Version = %v, want %v", s.Version, CurrentVersion)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `version: 1
discovery:
  wait_time: 750ms
  prefer_source_address: true
  max_responses: 0
output:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg, err := s.DiscoveryConfig()
	if err != nil {
		t.Fatalf("DiscoveryConfig() error = %v", err)
	}

	if cfg.WaitTime != 750*time.Millisecond {
		t.Errorf("WaitTime = %v, want 750ms", cfg.WaitTime)
	}
	if !cfg.PreferSourceAddr {
		t.Error("PreferSourceAddr should be true")
	}
	if cfg.MaxResponses != 0 {
		t.Errorf("MaxResponses = %v, want 0 (explicitly unlimited)", cfg.MaxResponses)
	}
	if cfg.MulticastAddress != satip.DefaultMulticastAddress {
		t.Errorf("MulticastAddress = %v, want default", cfg.MulticastAddress)
	}
	if cfg.DescriptionTimeout != satip.DefaultDescriptionTimeout {
		t.Errorf("DescriptionTimeout = %v, want default", cfg.DescriptionTimeout)
	}
	if s.OutputFormat() != FormatJSON {
		t.Errorf("OutputFormat() = %v, want json", s.OutputFormat())
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not yaml", content: "version: [1"},
		{name: "wrong version", content: "version: 7\n"},
		{name: "unknown format", content: "version: 1\noutput:\n  format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}

func TestDiscoveryConfigBadDuration(t *testing.T) {
	s := NewSettings()
	s.Discovery.WaitTime = "three seconds"

	if _, err := s.DiscoveryConfig(); err == nil {
		t.Error("DiscoveryConfig() should reject an unparseable wait_time")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s := NewSettings()
	s.Discovery.BindAddress = "192.168.1.10:0"
	s.Discovery.Interface = "eth0"
	s.Output.Format = FormatCompact

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after Save()")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# SAT>IP discovery configuration") {
		t.Error("saved file should start with the header comment")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Discovery.BindAddress != "192.168.1.10:0" {
		t.Errorf("BindAddress = %v, want 192.168.1.10:0", loaded.Discovery.BindAddress)
	}
	if loaded.Discovery.Interface != "eth0" {
		t.Errorf("Interface = %v, want eth0", loaded.Discovery.Interface)
	}
	if loaded.OutputFormat() != FormatCompact {
		t.Errorf("OutputFormat() = %v, want compact", loaded.OutputFormat())
	}
}
