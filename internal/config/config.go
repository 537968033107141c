// Package config loads docsite settings. Later sources override earlier
// ones: built-in defaults, docsite.yaml, .env, the process environment and
// finally command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/betterhelper/docsite/internal/basepath"
	"github.com/betterhelper/docsite/internal/export"
	"github.com/betterhelper/docsite/kit/errutil"
	"github.com/betterhelper/docsite/kit/viteutil"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultFile = "docsite.yaml"
	EnvFile     = ".env"

	envOutDir      = "DOCSITE_OUT_DIR"
	envConcurrency = "DOCSITE_CONCURRENCY"
	envPreviewAddr = "DOCSITE_PREVIEW_ADDR"
)

type Config struct {
	// Root is the project directory every relative path is resolved against.
	Root string `yaml:"-"`

	// BasePath is the raw, unnormalized base path.
	BasePath string `yaml:"base_path"`

	Paths   PathsConfig   `yaml:"paths"`
	Export  ExportConfig  `yaml:"export"`
	Site    SiteConfig    `yaml:"site"`
	Preview PreviewConfig `yaml:"preview"`
	Vite    ViteConfig    `yaml:"vite"`
}

type PathsConfig struct {
	Template   string `yaml:"template"`
	ClientDir  string `yaml:"client_dir"`
	OutDir     string `yaml:"out_dir"`
	// ContentDir holds markdown/<lang>/docs. Empty means the catalog built
	// into the binary.
	ContentDir string `yaml:"content_dir"`
}

type ExportConfig struct {
	EntryKey            string `yaml:"entry_key"`
	Concurrency         int    `yaml:"concurrency"`
	MinifyInlineScripts bool   `yaml:"minify_inline_scripts"`
}

type SiteConfig struct {
	TitlePrefix string `yaml:"title_prefix"`
}

// ViteConfig drives the optional client build run before an export.
type ViteConfig struct {
	PackageManagerCmd string `yaml:"package_manager_cmd"`
	ConfigFile        string `yaml:"config_file"`
}

type PreviewConfig struct {
	Addr     string        `yaml:"addr"`
	Debounce time.Duration `yaml:"debounce"`
}

func Default() *Config {
	return &Config{
		Root: ".",
		Paths: PathsConfig{
			Template:  "index.html",
			ClientDir: filepath.Join("dist", "client"),
			OutDir:    filepath.Join("dist", "pages"),
		},
		Export: ExportConfig{
			EntryKey:    export.DefaultEntryKey,
			Concurrency: export.DefaultConcurrency,
		},
		Preview: PreviewConfig{
			Addr:     "127.0.0.1:4173",
			Debounce: 150 * time.Millisecond,
		},
		Vite: ViteConfig{PackageManagerCmd: "npx"},
	}
}

// Load reads the configuration for the project at root. configPath may be
// empty, in which case root/docsite.yaml is used if it exists; an explicit
// path must exist.
func Load(fsys afero.Fs, root, configPath string) (*Config, error) {
	cfg := Default()
	cfg.Root = root

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(root, DefaultFile)
	}
	data, err := afero.ReadFile(fsys, configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, configPath, err)
		}
		cfg.Root = root
	case explicit || errutil.IgnoreNotExist(err) != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	dotenv, err := readEnvFile(fsys, filepath.Join(root, EnvFile))
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readEnvFile parses path without touching the process environment. A
// missing file yields an empty map.
func readEnvFile(fsys afero.Fs, path string) (map[string]string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		if errutil.IgnoreNotExist(err) == nil {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	return env, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(basepath.EnvVar); ok {
		c.BasePath = v
	}
	if v, ok := lookup(envOutDir); ok && v != "" {
		c.Paths.OutDir = v
	}
	if v, ok := lookup(envPreviewAddr); ok && v != "" {
		c.Preview.Addr = v
	}
	if v, ok := lookup(envConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, envConcurrency, v)
		}
		c.Export.Concurrency = n
	}
	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.Paths.Template == "":
		return fmt.Errorf("%w: paths.template is required", ErrInvalidConfig)
	case c.Paths.ClientDir == "":
		return fmt.Errorf("%w: paths.client_dir is required", ErrInvalidConfig)
	case c.Paths.OutDir == "":
		return fmt.Errorf("%w: paths.out_dir is required", ErrInvalidConfig)
	case c.Export.EntryKey == "":
		return fmt.Errorf("%w: export.entry_key is required", ErrInvalidConfig)
	case c.Export.Concurrency < 1:
		return fmt.Errorf("%w: export.concurrency must be at least 1", ErrInvalidConfig)
	case c.Preview.Debounce < 0:
		return fmt.Errorf("%w: preview.debounce must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Path resolves p against Root unless it is absolute.
func (c *Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func (c *Config) TemplatePath() string { return c.Path(c.Paths.Template) }
func (c *Config) ClientDir() string    { return c.Path(c.Paths.ClientDir) }
func (c *Config) OutDir() string       { return c.Path(c.Paths.OutDir) }
func (c *Config) AssetsDir() string    { return filepath.Join(c.ClientDir(), export.AssetsDir) }

func (c *Config) ManifestPath() string {
	return filepath.Join(c.ClientDir(), filepath.FromSlash(viteutil.ManifestPath))
}

// ContentDir returns the resolved content directory, or "" for the built-in
// catalog.
func (c *Config) ContentDir() string {
	if c.Paths.ContentDir == "" {
		return ""
	}
	return c.Path(c.Paths.ContentDir)
}

// ViteBuildOptions converts the configuration into client build options.
func (c *Config) ViteBuildOptions() viteutil.BuildOptions {
	return viteutil.BuildOptions{
		PackageManagerCmd: c.Vite.PackageManagerCmd,
		Dir:               c.Root,
		OutDir:            c.ClientDir(),
		ConfigFile:        c.Vite.ConfigFile,
	}
}

// ExportOptions converts the configuration into exporter options.
func (c *Config) ExportOptions() export.Options {
	return export.Options{
		Root:                c.Root,
		TemplatePath:        c.TemplatePath(),
		ManifestPath:        c.ManifestPath(),
		AssetsDir:           c.AssetsDir(),
		OutDir:              c.OutDir(),
		EntryKey:            c.Export.EntryKey,
		BasePath:            c.BasePath,
		Concurrency:         c.Export.Concurrency,
		MinifyInlineScripts: c.Export.MinifyInlineScripts,
	}
}
