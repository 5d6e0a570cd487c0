package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/iancoleman/strcase"
	"github.com/mcncl/treegen/internal/errors"
	"github.com/mcncl/treegen/internal/generator"
	"github.com/mcncl/treegen/internal/models"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for treegen
type Config struct {
	Format    string          `yaml:"format"`
	Compact   bool            `yaml:"compact"`
	Seed      string          `yaml:"seed"`
	Generator GeneratorConfig `yaml:"generator"`
	Output    OutputConfig    `yaml:"output"`
	Dev       DevConfig       `yaml:"dev"`
}

// GeneratorConfig controls the shape of generated trees
type GeneratorConfig struct {
	Fields          int      `yaml:"fields"`
	MaxDepth        int      `yaml:"max_depth"`
	MaxArrayLength  int      `yaml:"max_array_length"`
	MaxStringLength int      `yaml:"max_string_length"`
	Kinds           KindList `yaml:"kinds"`
}

// OutputConfig controls where generated documents go
type OutputConfig struct {
	Path     string `yaml:"path"`
	Compress bool   `yaml:"compress"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// KindList is a list of kind names as written by the user.
type KindList []string

// UnmarshalYAML keeps the literal text of each entry, so an unquoted `null`
// is read as the kind name rather than an empty string.
func (kl *KindList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		// A single name or a comma-separated list.
		*kl = splitKinds(value.Value)
		return nil
	}
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: kinds must be a list of names", value.Line)
	}
	names := make(KindList, 0, len(value.Content))
	for _, item := range value.Content {
		if item.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: kind names must be scalars", item.Line)
		}
		names = append(names, item.Value)
	}
	*kl = names
	return nil
}

func splitKinds(s string) KindList {
	parts := strings.Split(s, ",")
	names := make(KindList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// kindAliases maps normalized names onto kinds.
var kindAliases = map[string]models.Kind{
	"string":   models.KindString,
	"str":      models.KindString,
	"text":     models.KindString,
	"number":   models.KindNumber,
	"num":      models.KindNumber,
	"int":      models.KindNumber,
	"float":    models.KindNumber,
	"boolean":  models.KindBoolean,
	"bool":     models.KindBoolean,
	"null":     models.KindNull,
	"nil":      models.KindNull,
	"none":     models.KindNull,
	"array":    models.KindArray,
	"list":     models.KindArray,
	"sequence": models.KindArray,
	"seq":      models.KindArray,
	"object":   models.KindObject,
	"map":      models.KindObject,
	"mapping":  models.KindObject,
	"dict":     models.KindObject,
}

// ParseKind resolves a user-supplied kind name. Matching ignores case and
// accepts plurals, so "Strings", "BOOLEANS" and "objects" all resolve.
func ParseKind(name string) (models.Kind, error) {
	norm := strcase.ToSnake(strings.TrimSpace(name))
	if k, ok := kindAliases[norm]; ok {
		return k, nil
	}
	if k, ok := kindAliases[strings.TrimSuffix(norm, "s")]; ok {
		return k, nil
	}
	return models.KindString, fmt.Errorf("%q: %w", name, errors.ErrUnknownKind)
}

// ParseKinds resolves a list of kind names into a set, reporting every unknown name.
func ParseKinds(names []string) (models.KindSet, error) {
	var (
		set    models.KindSet
		result *multierror.Error
	)
	for _, name := range names {
		k, err := ParseKind(name)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		set = set.Add(k)
	}
	return set, result.ErrorOrNil()
}

// KindNames returns the canonical names of every kind in set.
func KindNames(set models.KindSet) KindList {
	kinds := set.Kinds()
	names := make(KindList, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	return names
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	defaults := generator.DefaultOptions()
	return &Config{
		Format:  models.FormatYAML.String(),
		Compact: defaults.Compact,
		Generator: GeneratorConfig{
			Fields:          defaults.Fields,
			MaxDepth:        defaults.MaxDepth,
			MaxArrayLength:  defaults.MaxArrayLength,
			MaxStringLength: defaults.MaxStringLength,
			Kinds:           KindNames(defaults.Kinds),
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".treegen.yml", ".treegen.yaml", "treegen.yml", "treegen.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Overrides holds values given on the command line. Nil fields were not set.
type Overrides struct {
	Format          *string
	Compact         *bool
	Seed            *string
	Fields          *int
	MaxDepth        *int
	MaxArrayLength  *int
	MaxStringLength *int
	Kinds           []string
	OutputPath      *string
	Compress        *bool
	Debug           *bool
}

// ApplyOverrides copies every explicitly set override onto c
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Format != nil {
		c.Format = *o.Format
	}
	if o.Compact != nil {
		c.Compact = *o.Compact
	}
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	if o.Fields != nil {
		c.Generator.Fields = *o.Fields
	}
	if o.MaxDepth != nil {
		c.Generator.MaxDepth = *o.MaxDepth
	}
	if o.MaxArrayLength != nil {
		c.Generator.MaxArrayLength = *o.MaxArrayLength
	}
	if o.MaxStringLength != nil {
		c.Generator.MaxStringLength = *o.MaxStringLength
	}
	if len(o.Kinds) > 0 {
		c.Generator.Kinds = KindList(o.Kinds)
	}
	if o.OutputPath != nil {
		c.Output.Path = *o.OutputPath
	}
	if o.Compress != nil {
		c.Output.Compress = *o.Compress
	}
	if o.Debug != nil {
		c.Dev.Debug = *o.Debug
	}
}

// Load resolves the effective configuration: defaults, then the config file
// (explicit path, or the nearest one found by FindConfigFile), then overrides.
func Load(path string, o Overrides) (*Config, string, error) {
	if path == "" {
		path = FindConfigFile()
	}

	cfg := NewConfig()
	if path != "" {
		fileConfig, err := LoadConfig(path)
		if err != nil {
			return nil, path, errors.NewConfigError(fmt.Sprintf("failed to load '%s'", path), err)
		}
		cfg = fileConfig
	}

	cfg.ApplyOverrides(o)
	return cfg, path, nil
}

// OutputFormat resolves the configured output format
func (c *Config) OutputFormat() (models.Format, error) {
	f, err := models.ParseFormat(c.Format)
	if err != nil {
		return f, errors.NewConfigError(err.Error(), errors.ErrUnknownFormat)
	}
	return f, nil
}

// Options resolves and validates the generator options
func (c *Config) Options() (generator.Options, error) {
	kinds, err := ParseKinds(c.Generator.Kinds)
	if err != nil {
		return generator.Options{}, errors.NewConfigError("invalid kinds", err)
	}

	opts := generator.Options{
		Fields:          c.Generator.Fields,
		MaxDepth:        c.Generator.MaxDepth,
		MaxArrayLength:  c.Generator.MaxArrayLength,
		MaxStringLength: c.Generator.MaxStringLength,
		Kinds:           kinds,
		Compact:         c.Compact,
	}
	if err := opts.Validate(); err != nil {
		return generator.Options{}, err
	}
	return opts, nil
}

// Source returns the random source selected by the seed setting
func (c *Config) Source() generator.Source {
	if c.Seed == "" {
		return generator.GlobalSource()
	}
	return generator.NewSeededSource(c.Seed)
}
