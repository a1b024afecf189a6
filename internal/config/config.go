package config

import (
	stderrors "errors"
	"os"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/xrefsync/internal/foundation/errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Upstream specification host the documents were copied from.
const (
	DefaultBlobBase = "https://github.com/microsoft/qsharp-language/blob/main/Specifications/Language/"
	DefaultTreeBase = "https://github.com/microsoft/qsharp-language/tree/main/Specifications/Language/"

	// BackToIndexLink is the navigation footer every upstream page carries.
	BackToIndexLink = "← [Back to Index](https://github.com/microsoft/qsharp-language/tree/main/Specifications/Language#index)"

	DefaultExtension   = ".md"
	DefaultReadme      = "README.md"
	DefaultIndexMarker = "## Index"
)

var httpURL = regexp.MustCompile(`^https?://\S+$`)

// Config represents the rewrite configuration. Every field has a default, so a
// config file is only needed to point the tool at a different upstream.
type Config struct {
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Remove    []string        `yaml:"remove"`
	Documents DocumentsConfig `yaml:"documents"`
}

// UpstreamConfig holds the two URL prefixes that are joined with a mapping key.
type UpstreamConfig struct {
	BlobBase string `yaml:"blob_base"`
	TreeBase string `yaml:"tree_base"`
}

// DocumentsConfig describes which files are documents and how the README index is found.
type DocumentsConfig struct {
	Extension   string `yaml:"extension"`
	Readme      string `yaml:"readme"`
	IndexMarker string `yaml:"index_marker"`
}

// Default returns the configuration for the Q# language specification.
func Default() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			BlobBase: DefaultBlobBase,
			TreeBase: DefaultTreeBase,
		},
		Remove: []string{BackToIndexLink},
		Documents: DocumentsConfig{
			Extension:   DefaultExtension,
			Readme:      DefaultReadme,
			IndexMarker: DefaultIndexMarker,
		},
	}
}

// Load reads a YAML config file on top of Default. Environment variables in the
// file are expanded before parsing. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.ConfigError("configuration file not found").WithCause(err).WithContext("path", path).Build()
		}
		return nil, errors.ConfigError("failed to read config file").WithCause(err).WithContext("path", path).Build()
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.ConfigError("failed to unmarshal config").WithCause(err).WithContext("path", path).Build()
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError("config validation failed").WithCause(err).WithContext("path", path).Build()
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Upstream.Validate(); err != nil {
		return err
	}
	if err := c.Documents.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Remove, validation.Each(validation.Required)),
	)
}

// Validate validates the upstream configuration.
func (c *UpstreamConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BlobBase, validation.Required, validation.Match(httpURL)),
		validation.Field(&c.TreeBase, validation.Required, validation.Match(httpURL)),
	)
}

// Validate validates the documents configuration.
func (c *DocumentsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Extension, validation.Required, validation.By(dotPrefixed)),
		validation.Field(&c.Readme, validation.Required, validation.By(plainFilename)),
		validation.Field(&c.IndexMarker, validation.Required),
	)
}

func dotPrefixed(value any) error {
	s, _ := value.(string)
	if !strings.HasPrefix(s, ".") || len(s) < 2 {
		return stderrors.New("must start with a dot")
	}
	return nil
}

func plainFilename(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, `/\`) {
		return stderrors.New("must be a file name, not a path")
	}
	return nil
}
