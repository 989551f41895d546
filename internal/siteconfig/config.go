// Package siteconfig loads the per-site generation settings (schema,
// username, increment, aliases) that spec.md §6 says sit outside the
// core engine's seam: a YAML file maps site keys to the inputs the
// driver needs, the way creachadair/keyfish's JSON config maps site
// names to password settings.
package siteconfig

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aledsdavies/keyforge/internal/errkind"
)

// Site is the non-secret, per-site configuration consulted before
// generation: everything the driver needs except the master seed.
type Site struct {
	// Host is the canonical hostname or URL this entry applies to.
	// Optional: an entry without a Host is matched only by its key or
	// its aliases, and the CLI then salts with the site argument as given.
	Host string `yaml:"host,omitempty"`

	// Schema overrides the default schema for this site (spec.md §4.1
	// grammar). Empty means "use Config.DefaultSchema".
	Schema string `yaml:"schema,omitempty"`

	// Username is injected into the canonical URL's userinfo component
	// before salt construction (spec.md §3).
	Username string `yaml:"username,omitempty"`

	// Increment lets the user mint a new password for a site without
	// changing the seed (spec.md §3's salt includes it verbatim).
	Increment uint64 `yaml:"increment,omitempty"`

	// Aliases are alternate hostnames that should resolve to this
	// entry when no exact or canonical match exists.
	Aliases []string `yaml:"aliases,omitempty"`

	// Archived entries are kept in the file but excluded from listing
	// and "did you mean" suggestions.
	Archived bool `yaml:"archived,omitempty"`
}

// UnmarshalYAML accepts the shorthand spec.md §6 allows: a site entry
// given as a bare string is treated as { schema: <string> }, so
// sites: { example.com: "[0-9]{4}" } works the same as spelling out
// the schema field.
func (s *Site) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var schema string
		if err := value.Decode(&schema); err != nil {
			return err
		}
		*s = Site{Schema: schema}
		return nil
	}

	type plain Site
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = Site(p)
	return nil
}

// Config is the top-level shape of a site configuration file.
type Config struct {
	// DefaultSchema is used for any site that does not set Schema.
	DefaultSchema string `yaml:"default_schema,omitempty"`

	// Sites maps a site key (conventionally a hostname) to its entry.
	Sites map[string]Site `yaml:"sites,omitempty"`
}

// Parse decodes YAML site configuration from data after validating it
// against the structural schema (schema_validate.go).
func Parse(data []byte) (*Config, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errkind.Wrap(errkind.IoError, "parsing site configuration", err)
	}
	return &cfg, nil
}

// Load reads and parses a site configuration file from path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errkind.Wrap(errkind.IoError, "opening site configuration "+path, err)
	}
	defer f.Close()
	return parseReader(f)
}

func parseReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errkind.Wrap(errkind.IoError, "reading site configuration", err)
	}
	return Parse(data)
}

// EffectiveSchema returns site's schema if set, else cfg's default.
func (c *Config) EffectiveSchema(site Site) string {
	if site.Schema != "" {
		return site.Schema
	}
	return c.DefaultSchema
}
