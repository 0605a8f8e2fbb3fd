package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestBuildDefaults(t *testing.T) {
	cfg, err := Build(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	if err == nil {
		t.Fatal("explicit missing config file must fail")
	}

	cfg, err = Build("", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("listen default: got %q", cfg.Listen)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log_level default: got %q", cfg.LogLevel)
	}
}

func TestBuildFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "listen: \":9999\"\nlog_level: debug\noutput_dir: /tmp/salida\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Build(path, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.Listen != ":9999" {
		t.Errorf("listen: got %q", cfg.Listen)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level: got %q", cfg.LogLevel)
	}
	if cfg.OutputDir != "/tmp/salida" {
		t.Errorf("output_dir: got %q", cfg.OutputDir)
	}
}

func TestBuildFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: \":9999\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen", ":8080", "")
	if err := flags.Set("listen", ":7777"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Build(path, flags)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.Listen != ":7777" {
		t.Errorf("flag override: got %q", cfg.Listen)
	}
}

func TestBuildEnvOverride(t *testing.T) {
	t.Setenv("EXTRACTO_LOG_LEVEL", "debug")

	cfg, err := Build("", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("env override: got %q", cfg.LogLevel)
	}
}
