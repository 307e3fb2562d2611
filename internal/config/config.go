package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/vango-dev/filerouter/internal/errors"
	"github.com/vango-dev/filerouter/pkg/routetree"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "filerouter.json"

	// EnvFileName is the optional dotenv file read next to the config file.
	EnvFileName = ".env"

	// DefaultRoot is the default pages directory.
	DefaultRoot = "src/pages"

	// DefaultPort is the default development server port.
	DefaultPort = 5174

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultDebounce is the default delay between a change and a recompile.
	DefaultDebounce = "100ms"
)

// Environment variables that override filerouter.json.
const (
	EnvRoot   = "FILEROUTER_ROOT"
	EnvPort   = "FILEROUTER_PORT"
	EnvHost   = "FILEROUTER_HOST"
	EnvOutput = "FILEROUTER_OUTPUT"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config represents the complete filerouter.json configuration.
type Config struct {
	// Root is the pages directory, relative to the config file.
	Root string `json:"root" validate:"required"`

	// Extensions are the view file extensions, with or without the leading dot.
	Extensions []string `json:"extensions,omitempty" validate:"min=1,dive,required"`

	// NotFound is the import reference of the catch-all view, if any.
	NotFound string `json:"notFound,omitempty"`

	// Loading is the import reference of the Suspense fallback component, if any.
	Loading string `json:"loading,omitempty"`

	// Ignore contains glob patterns, relative to Root, excluded from discovery.
	Ignore []string `json:"ignore,omitempty"`

	// Duplicates selects what happens when two files map to one route.
	Duplicates string `json:"duplicates,omitempty" validate:"omitempty,oneof=reject last-wins"`

	// Output is where `filerouter gen` publishes the module: a file path,
	// an s3://bucket/key URL, or "-" for stdout.
	Output string `json:"output,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Debounce is the quiet period before a recompile, e.g. "100ms".
	Debounce string `json:"debounce,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Root:       DefaultRoot,
		Extensions: append([]string(nil), routetree.DefaultExtensions...),
		Duplicates: string(routetree.RejectDuplicates),
		Dev: DevConfig{
			Host:     DefaultHost,
			Port:     DefaultPort,
			Debounce: DefaultDebounce,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for filerouter.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrNew is Load, but a missing filerouter.json yields the defaults
// anchored at dir. Environment overrides still apply.
func LoadOrNew(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := New()
		cfg.configPath = path
		if err := cfg.applyEnv(); err != nil {
			return nil, err
		}
		return cfg, cfg.Validate()
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No filerouter.json found in " + filepath.Dir(path)).
				WithSuggestion("Run 'filerouter init' to scaffold a configuration")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithFile(path).
			WithDetail("Failed to parse filerouter.json: " + err.Error()).
			WithSuggestion("Check that filerouter.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Marshal returns the indented JSON form of the configuration.
func (c *Config) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, errors.New("E120").Wrap(err)
	}
	return append(data, '\n'), nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.Extensions == nil {
		c.Extensions = append([]string(nil), routetree.DefaultExtensions...)
	}
	if c.Duplicates == "" {
		c.Duplicates = string(routetree.RejectDuplicates)
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Debounce == "" {
		c.Dev.Debounce = DefaultDebounce
	}
}

// applyEnv applies FILEROUTER_* overrides. Process environment wins over
// the .env file next to filerouter.json, which is read but never exported.
func (c *Config) applyEnv() error {
	dotenv := map[string]string{}
	if dir := c.Dir(); dir != "" {
		if m, err := godotenv.Read(filepath.Join(dir, EnvFileName)); err == nil {
			dotenv = m
		} else if !os.IsNotExist(err) {
			return errors.New("E120").
				WithFile(filepath.Join(dir, EnvFileName)).
				WithDetail("Failed to parse .env: " + err.Error()).
				Wrap(err)
		}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(dotenv[key])
	}

	if v := lookup(EnvRoot); v != "" {
		c.Root = v
	}
	if v := lookup(EnvHost); v != "" {
		c.Dev.Host = v
	}
	if v := lookup(EnvOutput); v != "" {
		c.Output = v
	}
	if v := lookup(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E122").
				WithDetail(EnvPort + " must be a number, got " + strconv.Quote(v))
		}
		c.Dev.Port = port
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535")
	}
	if err := validate.Struct(c); err != nil {
		return errors.New("E120").
			WithFile(c.configPath).
			WithDetail(describe(err)).
			Wrap(err)
	}
	d, err := time.ParseDuration(c.Dev.Debounce)
	if err != nil {
		return errors.New("E120").
			WithFile(c.configPath).
			WithDetail("dev.debounce: " + err.Error()).
			WithSuggestion(`Use a Go duration such as "100ms"`)
	}
	if d <= 0 {
		return errors.New("E120").
			WithFile(c.configPath).
			WithDetail("dev.debounce must be positive, got " + c.Dev.Debounce).
			WithSuggestion(`Use a Go duration such as "100ms"`)
	}
	return nil
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must list at least one entry"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	default:
		return field + " failed " + fe.Tag() + " validation"
	}
}

// RootPath returns the absolute path to the pages directory.
func (c *Config) RootPath() string {
	return c.resolve(c.Root)
}

// OutputTarget returns the publish target: "-" and s3:// URLs are kept
// as-is, file paths are resolved against the config directory. An empty
// Output yields "".
func (c *Config) OutputTarget() string {
	switch {
	case c.Output == "", c.Output == "-", strings.HasPrefix(c.Output, "s3://"):
		return c.Output
	}
	return c.resolve(c.Output)
}

// RouteOptions returns the builder options for this configuration.
func (c *Config) RouteOptions() routetree.Options {
	return routetree.Options{
		Root:       c.RootPath(),
		Extensions: c.Extensions,
		Duplicates: routetree.DuplicatePolicy(c.Duplicates),
	}
}

// DebounceDuration returns the parsed dev.debounce value. Unparsable or
// non-positive values fall back to DefaultDebounce.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Dev.Debounce)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultDebounce)
	}
	return d
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing filerouter.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No filerouter.json found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'filerouter init' to scaffold a configuration")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest filerouter.json
// at or above the working directory, falling back to defaults anchored at
// the working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return LoadOrNew(wd)
	}

	return Load(root)
}
