package app

import (
	"path/filepath"
	"testing"
)

func TestConfigPath(t *testing.T) {
	t.Run("defaults to the work-tree root", func(t *testing.T) {
		t.Setenv("CKPT_CONFIG_PATH", "")
		got := ConfigPath("/repo")
		want := filepath.Join("/repo", ".ckpt.toml")
		if got != want {
			t.Errorf("ConfigPath() = %q, want %q", got, want)
		}
	})

	t.Run("environment variable wins", func(t *testing.T) {
		t.Setenv("CKPT_CONFIG_PATH", "/etc/ckpt.toml")
		if got := ConfigPath("/repo"); got != "/etc/ckpt.toml" {
			t.Errorf("ConfigPath() = %q, want /etc/ckpt.toml", got)
		}
	})
}
