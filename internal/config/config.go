// Package config provides YAML-based configuration for the generator service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/jordaneaster/sb-generator/internal/models"
)

// AppConfig is the root configuration structure.
type AppConfig struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Library holds the component image source settings
	Library LibraryConfig `yaml:"library"`

	// Storage holds the artifact output settings
	Storage StorageConfig `yaml:"storage"`

	// Generator holds canvas, species and pixelation settings
	Generator GeneratorConfig `yaml:"generator"`

	// Layers is the ordered layer scheme; empty means the stock scheme
	Layers []models.LayerSpec `yaml:"layers"`

	// Ledger holds the generation ledger settings
	Ledger LedgerConfig `yaml:"ledger"`

	// Logging holds log level/format
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bind_address"`
	EnableCORS   bool   `yaml:"enable_cors"`
	AllowOrigins string `yaml:"allow_origins"`
	ReadTimeout  int    `yaml:"read_timeout_seconds"`
	WriteTimeout int    `yaml:"write_timeout_seconds"` // 0 keeps SSE progress streams open
	IdleTimeout  int    `yaml:"idle_timeout_seconds"`
	BodyLimit    string `yaml:"body_limit"`
}

// StorageMode selects where artifacts are written.
const (
	StorageModeLocal  = "local"
	StorageModeBucket = "bucket"
)

// LibraryConfig contains component source settings. Mode "local" reads a
// directory tree <root>/<species>/<category>/; mode "bucket" lists an
// S3-compatible bucket with the same key layout.
type LibraryConfig struct {
	Mode    string       `yaml:"mode"`
	RootDir string       `yaml:"root_dir"`
	Bucket  BucketConfig `yaml:"bucket"`
}

// StorageConfig contains artifact sink settings.
type StorageConfig struct {
	Mode      string       `yaml:"mode"`
	OutputDir string       `yaml:"output_dir"`
	Bucket    BucketConfig `yaml:"bucket"`
}

// BucketConfig describes one S3-compatible bucket target.
type BucketConfig struct {
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	UseSSL        bool   `yaml:"use_ssl"`
	Bucket        string `yaml:"bucket"`
	Prefix        string `yaml:"prefix"`
	PublicBaseURL string `yaml:"public_base_url"`
}

// GeneratorConfig contains canvas, species and pixelation settings.
type GeneratorConfig struct {
	CanvasWidth      int      `yaml:"canvas_width"`
	CanvasHeight     int      `yaml:"canvas_height"`
	Species          []string `yaml:"species"`
	DefaultSpecies   string   `yaml:"default_species"`
	RandomizeSpecies bool     `yaml:"randomize_species"` // pick a random species when none requested
	PixelBlockSize   int      `yaml:"pixel_block_size"`
	PixelPaletteSize int      `yaml:"pixel_palette_size"` // 0 disables palette quantization
	Description      string   `yaml:"description"`
}

// LedgerConfig contains the generation ledger settings.
type LedgerConfig struct {
	Path string `yaml:"path"` // DuckDB file; empty disables the ledger
}

// LoggingConfig contains log settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8091,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 0,
			IdleTimeout:  120,
			BodyLimit:    "8M",
		},
		Library: LibraryConfig{
			Mode:    StorageModeLocal,
			RootDir: "./assets",
		},
		Storage: StorageConfig{
			Mode:      StorageModeLocal,
			OutputDir: "./data/output",
		},
		Generator: GeneratorConfig{
			CanvasWidth:      512,
			CanvasHeight:     512,
			Species:          []string{"indigo", "green", "violet", "amber"},
			DefaultSpecies:   "indigo",
			RandomizeSpecies: true,
			PixelBlockSize:   8,
			PixelPaletteSize: 0,
			Description:      "A procedurally generated Space Buddy.",
		},
		Layers: models.DefaultScheme().Layers,
		Ledger: LedgerConfig{
			Path: "./data/ledger.duckdb",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file. A missing file is created
// with defaults so a fresh checkout runs without hand-editing.
func LoadConfig(configPath string) (*AppConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		config.applyEnvironmentOverrides()
		config.resolvePaths(filepath.Dir(configPath))
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnvironmentOverrides()
	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save writes the configuration to a YAML file.
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Space Buddies generator configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values.
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if dir := os.Getenv("SBGEN_OUTPUT_DIR"); dir != "" {
		c.Storage.OutputDir = dir
	}

	if dir := os.Getenv("SBGEN_LIBRARY_DIR"); dir != "" {
		c.Library.RootDir = dir
	}

	if path := os.Getenv("SBGEN_LEDGER_PATH"); path != "" {
		c.Ledger.Path = path
	}
}

// resolvePaths converts relative paths to absolute based on config file location.
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Storage.OutputDir != "" && !filepath.IsAbs(c.Storage.OutputDir) {
		c.Storage.OutputDir = filepath.Join(configDir, c.Storage.OutputDir)
	}
	if c.Library.RootDir != "" && !filepath.IsAbs(c.Library.RootDir) {
		c.Library.RootDir = filepath.Join(configDir, c.Library.RootDir)
	}
	if c.Ledger.Path != "" && !filepath.IsAbs(c.Ledger.Path) {
		c.Ledger.Path = filepath.Join(configDir, c.Ledger.Path)
	}
}

// Scheme returns the configured layer scheme, falling back to the stock one
// when the config names no layers.
func (c *AppConfig) Scheme() models.LayerScheme {
	if len(c.Layers) == 0 {
		return models.DefaultScheme()
	}
	return models.LayerScheme{Layers: c.Layers}
}

// GetServerAddr returns the server bind address.
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates all directories the service writes to.
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{c.Storage.OutputDir}
	if c.Ledger.Path != "" {
		dirs = append(dirs, filepath.Dir(c.Ledger.Path))
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
