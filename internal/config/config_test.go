package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" || cfg.RateRPS != 0 || cfg.StreamInterval != 15*time.Second || !cfg.Migrate {
		t.Fatalf("defaults = %+v", cfg)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Fatalf("default location = %v, %v", loc, err)
	}
}

func TestLoadYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "addr: \":9000\"\ntimezone: UTC\nrateRps: 5\nstreamInterval: 30s\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	// env wins over the file
	t.Setenv("PORT", "9100")
	t.Setenv("AGENDA_TZ", "America/Sao_Paulo")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9100" {
		t.Fatalf("addr = %s", cfg.Addr)
	}
	if cfg.Timezone != "America/Sao_Paulo" {
		t.Fatalf("timezone = %s", cfg.Timezone)
	}
	if cfg.RateRPS != 5 || cfg.StreamInterval != 30*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
	if _, err := cfg.Location(); err != nil {
		t.Fatalf("location: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
