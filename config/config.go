// Package config reads the generator configuration file, glgen.yaml.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/glbind/aggregate"
	"github.com/wippyai/glbind/errors"
	"github.com/wippyai/glbind/generator"
	"github.com/wippyai/glbind/render"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "glgen.yaml"

// Config is the decoded configuration file.
type Config struct {
	Registry      string `yaml:"registry"`
	Output        string `yaml:"output"`
	ImportRoot    string `yaml:"import_root"`
	RuntimeImport string `yaml:"runtime_import,omitempty"`

	APIs       []string `yaml:"apis"`
	Extensions Filter   `yaml:"extensions"`
	Strict     bool     `yaml:"strict"`

	// MetaExtensions replaces the built-in bundles when set. An explicit empty
	// list disables them.
	MetaExtensions []aggregate.Bundle `yaml:"meta_extensions,omitempty"`

	ManualPages []string          `yaml:"manual_pages,omitempty"`
	SpecLinks   map[string]string `yaml:"spec_links,omitempty"`
}

// Filter selects extensions by name with glob patterns.
type Filter struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// Default returns the configuration used for keys the file leaves out.
func Default() *Config {
	return &Config{
		Output:        "gl",
		RuntimeImport: render.DefaultRuntimeImport,
		APIs:          []string{"gl", "gles2"},
		Extensions:    Filter{Include: []string{"*"}},
		Strict:        true,
	}
}

// Load reads a configuration file. Relative registry and output paths are
// taken relative to the file's directory.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Load(errors.PhaseConfig, "open "+path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, err
	}
	cfg.relativeTo(filepath.Dir(path))
	return cfg, nil
}

// Decode reads a configuration from r over the defaults and validates it.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.ParseFailed(errors.PhaseConfig, "configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) relativeTo(dir string) {
	if c.Registry != "" && !filepath.IsAbs(c.Registry) {
		c.Registry = filepath.Join(dir, c.Registry)
	}
	if c.Output != "" && !filepath.IsAbs(c.Output) {
		c.Output = filepath.Join(dir, c.Output)
	}
}

// Validate checks required keys and filter patterns.
func (c *Config) Validate() error {
	if c.Registry == "" {
		return errors.InvalidInput(errors.PhaseConfig, "registry is required")
	}
	if _, err := c.Extensions.Matcher(); err != nil {
		return err
	}
	for i, b := range c.MetaExtensions {
		if b.Name == "" {
			return errors.InvalidData(errors.PhaseConfig, []string{"meta_extensions", strconv.Itoa(i)},
				"meta-extension without name")
		}
		if len(b.Extensions) == 0 {
			return errors.New(errors.PhaseConfig, errors.KindInvalidData).
				Path("meta_extensions", b.Name).
				Detail("meta-extension lists no extensions").
				Build()
		}
	}
	return nil
}

// Matcher compiles the filter. A name is kept when it matches an include
// pattern, or there are none, and matches no exclude pattern.
func (f Filter) Matcher() (func(name string) bool, error) {
	include, err := compile("include", f.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compile("exclude", f.Exclude)
	if err != nil {
		return nil, err
	}

	return func(name string) bool {
		if len(include) > 0 && !matchAny(include, name) {
			return false
		}
		return !matchAny(exclude, name)
	}, nil
}

func compile(key string, patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path("extensions", key).
				Detail("bad pattern %q", p).
				Cause(err).
				Build()
		}
		out = append(out, g)
	}
	return out, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// GeneratorOptions maps the configuration onto a generator run.
func (c *Config) GeneratorOptions() (generator.Options, error) {
	keep, err := c.Extensions.Matcher()
	if err != nil {
		return generator.Options{}, err
	}
	return generator.Options{
		APIs:          c.APIs,
		KeepExtension: keep,
		Strict:        c.Strict,
		Bundles:       c.MetaExtensions,
		ManualPages:   c.ManualPages,
		SpecLinks:     c.SpecLinks,
	}, nil
}

// Renderer returns the renderer for the configured import paths.
func (c *Config) Renderer() (*render.Renderer, error) {
	if c.ImportRoot == "" {
		return nil, errors.InvalidInput(errors.PhaseConfig, "import_root is required to render")
	}
	return &render.Renderer{ImportRoot: c.ImportRoot, RuntimeImport: c.RuntimeImport}, nil
}
