// Package config loads converter configuration. Built-in defaults are
// embedded; a user-supplied JSON file overrides them field by field.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"time"

	"vmr2tei/core/collation"
)

//go:embed defaults.json
var defaultsJSON []byte

// Book holds the per-book conversion settings.
type Book struct {
	// ByzantineWitnesses lists the members of the Byzantine group siglum
	// for this book, in canonical order.
	ByzantineWitnesses []string `json:"byzantine_witnesses"`
}

// Config is the full converter configuration.
type Config struct {
	// APIBaseURL is the NTVMR apparatus endpoint.
	APIBaseURL string `json:"api_base_url"`

	// CacheTTLHours is how long cached apparatus responses stay fresh.
	CacheTTLHours int `json:"cache_ttl_hours"`

	// GroupToken is the group siglum expanded during collation.
	GroupToken string `json:"group_token"`

	// VersionOrder fixes the version-language sort order.
	VersionOrder []string `json:"version_order"`

	// SingularToSubreading retypes singly-attested untyped readings as
	// subreadings.
	SingularToSubreading bool `json:"singular_to_subreading"`

	// ManuscriptSuffixes, VersionSuffixes, and PatristicSuffixes override
	// the built-in ignored-suffix patterns when non-empty.
	ManuscriptSuffixes string `json:"manuscript_suffixes,omitempty"`
	VersionSuffixes    string `json:"version_suffixes,omitempty"`
	PatristicSuffixes  string `json:"patristic_suffixes,omitempty"`

	// Books holds per-book settings keyed by book name.
	Books map[string]Book `json:"books"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	var cfg Config
	// The embedded defaults are compiled in and must parse.
	if err := json.Unmarshal(defaultsJSON, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return &cfg
}

// Load returns the defaults overlaid with the JSON file at path. An
// empty path returns the plain defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	// Unmarshal over the defaults: absent fields keep their values.
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// CacheTTL returns the cache freshness window as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// CollationOptions builds the collation options for one book. Suffix
// pattern overrides are compiled here so a bad pattern fails the run
// before any fetching happens.
func (c *Config) CollationOptions(book string) (collation.Options, error) {
	opts := collation.Options{
		GroupToken:           c.GroupToken,
		GroupMembers:         c.Books[book].ByzantineWitnesses,
		VersionOrder:         c.VersionOrder,
		SingularToSubreading: c.SingularToSubreading,
	}
	var err error
	if opts.ManuscriptSuffixes, err = compilePattern(c.ManuscriptSuffixes); err != nil {
		return opts, fmt.Errorf("manuscript_suffixes: %w", err)
	}
	if opts.VersionSuffixes, err = compilePattern(c.VersionSuffixes); err != nil {
		return opts, fmt.Errorf("version_suffixes: %w", err)
	}
	if opts.PatristicSuffixes, err = compilePattern(c.PatristicSuffixes); err != nil {
		return opts, fmt.Errorf("patristic_suffixes: %w", err)
	}
	return opts, nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}
