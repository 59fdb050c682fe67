package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tinytelemetry/marsestate/internal/model"
)

func TestLoadCLIConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadCLIConfig("")
	if err != nil {
		t.Fatalf("loadCLIConfig: %v", err)
	}
	if cfg.Source != sourceHTTP {
		t.Errorf("Source = %q, want http", cfg.Source)
	}
	if cfg.APIURL != model.DefaultAPIURL {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.filter != model.ShowAll {
		t.Errorf("filter = %v, want SHOW_ALL", cfg.filter)
	}
	if cfg.HTTPTimeout != model.DefaultHTTPTimeout {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.EmptyResultDone || cfg.DiscardStale {
		t.Error("opt-in controller behaviors should default to off")
	}
}

func TestLoadCLIConfig_File(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MARSESTATE_DISCARD_STALE", "true")

	path := filepath.Join(home, "config.yml")
	data := []byte("source: Socket\ndefault-filter: rent\nhttp-timeout: 3s\nempty-result-done: true\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadCLIConfig(path)
	if err != nil {
		t.Fatalf("loadCLIConfig: %v", err)
	}
	if cfg.Source != sourceSocket {
		t.Errorf("Source = %q, want socket", cfg.Source)
	}
	if cfg.filter != model.ShowRent {
		t.Errorf("filter = %v, want SHOW_RENT", cfg.filter)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("HTTPTimeout = %v, want 3s", cfg.HTTPTimeout)
	}
	if !cfg.EmptyResultDone || !cfg.DiscardStale {
		t.Errorf("EmptyResultDone=%v DiscardStale=%v, want both true", cfg.EmptyResultDone, cfg.DiscardStale)
	}
}

func TestLoadCLIConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"source", "MARSESTATE_SOURCE", "carrier-pigeon"},
		{"filter", "MARSESTATE_DEFAULT_FILTER", "lease"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			t.Setenv(tt.env, tt.val)
			if _, err := loadCLIConfig(""); err == nil {
				t.Fatalf("expected error for %s=%s", tt.env, tt.val)
			}
		})
	}
}

func TestNewFetcher_SocketUnavailable(t *testing.T) {
	cfg := cliConfig{Source: sourceSocket, SocketPath: filepath.Join(t.TempDir(), "none.sock")}
	if _, err := newFetcher(cfg); err == nil {
		t.Fatal("expected dial error")
	}
}

func TestNewFetcher_HTTP(t *testing.T) {
	cfg := cliConfig{Source: sourceHTTP, APIURL: "http://127.0.0.1:1", HTTPTimeout: time.Second}
	f, err := newFetcher(cfg)
	if err != nil {
		t.Fatalf("newFetcher: %v", err)
	}
	if f.ListingsFetcher == nil {
		t.Fatal("nil fetcher")
	}
	if err := f.close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
