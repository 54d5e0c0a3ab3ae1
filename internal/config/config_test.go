package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.APIBaseURL == "" {
		t.Error("defaults should carry an API base URL")
	}
	if cfg.GroupToken != "Byz" {
		t.Errorf("GroupToken = %q, want Byz", cfg.GroupToken)
	}
	if len(cfg.VersionOrder) == 0 || cfg.VersionOrder[0] != "L" {
		t.Errorf("VersionOrder = %v, want Latin first", cfg.VersionOrder)
	}
	acts := cfg.Books["Acts"]
	if len(acts.ByzantineWitnesses) == 0 {
		t.Fatal("defaults should carry the Acts Byzantine list")
	}
	if acts.ByzantineWitnesses[0] != "P57" {
		t.Errorf("Acts list starts with %q, want P57", acts.ByzantineWitnesses[0])
	}
	if cfg.CacheTTL() != 168*time.Hour {
		t.Errorf("CacheTTL = %v, want 168h", cfg.CacheTTL())
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	override := `{
		"group_token": "MT",
		"cache_ttl_hours": 1,
		"books": {"Rev": {"byzantine_witnesses": ["046"]}}
	}`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GroupToken != "MT" {
		t.Errorf("GroupToken = %q, want override MT", cfg.GroupToken)
	}
	if cfg.CacheTTLHours != 1 {
		t.Errorf("CacheTTLHours = %d, want 1", cfg.CacheTTLHours)
	}
	// Absent fields keep their defaults.
	if cfg.APIBaseURL == "" {
		t.Error("unset fields should keep default values")
	}
	if len(cfg.Books["Rev"].ByzantineWitnesses) != 1 {
		t.Errorf("Rev book settings = %+v", cfg.Books["Rev"])
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.GroupToken != "Byz" {
		t.Error("empty path should return defaults")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestCollationOptions(t *testing.T) {
	cfg := Default()
	opts, err := cfg.CollationOptions("Acts")
	if err != nil {
		t.Fatalf("CollationOptions failed: %v", err)
	}
	if len(opts.GroupMembers) == 0 {
		t.Error("Acts options should carry the Byzantine list")
	}
	if opts.ManuscriptSuffixes != nil {
		t.Error("no override configured: pattern should be nil")
	}

	// Unknown book: empty member list, still valid.
	opts, err = cfg.CollationOptions("Phlm")
	if err != nil {
		t.Fatalf("CollationOptions failed: %v", err)
	}
	if len(opts.GroupMembers) != 0 {
		t.Error("unconfigured book should have no group members")
	}

	cfg.ManuscriptSuffixes = `(\*|T)$`
	opts, err = cfg.CollationOptions("Acts")
	if err != nil {
		t.Fatalf("CollationOptions with override failed: %v", err)
	}
	if opts.ManuscriptSuffixes == nil || !opts.ManuscriptSuffixes.MatchString("01T") {
		t.Error("override pattern should compile and match")
	}

	cfg.ManuscriptSuffixes = `($`
	if _, err := cfg.CollationOptions("Acts"); err == nil {
		t.Error("invalid pattern should fail")
	}
}
