package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "syscry.yml"

// Config holds the settings for the site server and tools, corresponding to syscry.yml.
type Config struct {
	Port          string `yaml:"port" koanf:"port"`
	Root          string `yaml:"root" koanf:"root"`
	ContentFile   string `yaml:"content_file" koanf:"content_file"`
	ImagesDir     string `yaml:"images_dir" koanf:"images_dir"`
	DBPath        string `yaml:"db_path" koanf:"db_path"`
	GinMode       string `yaml:"gin_mode" koanf:"gin_mode"`
	Watch         bool   `yaml:"watch" koanf:"watch"`
	AdminUsername string `yaml:"admin_username" koanf:"admin_username"`
	AdminPassword string `yaml:"admin_password" koanf:"admin_password"`
}

// DefaultConfig returns the settings used when nothing else is configured.
// Admin credentials are left empty so the server can warn about them.
func DefaultConfig() *Config {
	return &Config{
		Port:        "3000",
		Root:        ".",
		ContentFile: filepath.Join("cms", "content.json"),
		ImagesDir:   "images",
		DBPath:      filepath.Join(".syscry", "site.db"),
		GinMode:     "debug",
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SYSCRY_*). The bare PORT, ADMIN_USERNAME
// and ADMIN_PASSWORD variables are honored last.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// SYSCRY_CONTENT_FILE -> content_file, etc.
	if err := k.Load(env.Provider("SYSCRY_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SYSCRY_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if user := os.Getenv("ADMIN_USERNAME"); user != "" {
		cfg.AdminUsername = user
	}
	if pass := os.Getenv("ADMIN_PASSWORD"); pass != "" {
		cfg.AdminPassword = pass
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.Root == "" {
		return fmt.Errorf("root is required")
	}
	if c.ContentFile == "" {
		return fmt.Errorf("content_file is required")
	}
	switch c.GinMode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("invalid gin_mode %q: must be one of debug, release, test", c.GinMode)
	}
	return nil
}

// ResolvePath makes p absolute relative to the site root unless it already is.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// ContentPath is the resolved location of content.json.
func (c *Config) ContentPath() string { return c.ResolvePath(c.ContentFile) }

// ImagesPath is the resolved images directory listed by /api/images.
func (c *Config) ImagesPath() string { return c.ResolvePath(c.ImagesDir) }

// DatabasePath is the resolved sqlite database location.
func (c *Config) DatabasePath() string { return c.ResolvePath(c.DBPath) }

// PrivateNames are entries at the top of the site root that are never
// served or exported: secrets, VCS data and this config file.
var PrivateNames = []string{".env", ".git", DefaultPath}

// IsPrivate reports whether p lies inside one of PrivateNames under the
// root, or is the database or one of its journals (-wal, -shm, -journal).
func (c *Config) IsPrivate(p string) bool {
	abs, err := filepath.Abs(p)
	if err != nil {
		return true
	}
	if dbPath, err := filepath.Abs(c.DatabasePath()); err == nil && dbPath != "" {
		if abs == dbPath || strings.HasPrefix(abs, dbPath+"-") {
			return true
		}
	}

	root, err := filepath.Abs(c.Root)
	if err != nil {
		return true
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	top := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	for _, name := range PrivateNames {
		if top == name {
			return true
		}
	}
	return false
}
