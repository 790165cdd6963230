package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CatalogDB  string `toml:"catalog_db"`
	LibraryDir string `toml:"library_dir"`
	ScratchDir string `toml:"scratch_dir"`
	LogDir     string `toml:"log_dir"`
}

// Tools names the external binaries the pipeline orchestrates.
type Tools struct {
	Flagger          string `toml:"flagger"`
	FlaggerOverrides string `toml:"flagger_overrides"`
	CutList          string `toml:"cutlist"`
	Extractor        string `toml:"extractor"`
	Converter        string `toml:"converter"`
}

// Channels configures per-channel behavior.
type Channels struct {
	// CommercialFree lists channel identifiers known to run no commercials.
	CommercialFree []string `toml:"commercial_free"`
}

// Transcode contains codec-conversion settings.
type Transcode struct {
	RecordedExtension string `toml:"recorded_extension"`
	TargetExtension   string `toml:"target_extension"`
	Quality           int    `toml:"quality"`
	AudioPolicy       string `toml:"audio_policy"`
}

// LibraryServer contains configuration for the library-server refresh request.
type LibraryServer struct {
	Enabled        bool   `toml:"enabled"`
	URL            string `toml:"url"`
	Section        string `toml:"section"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Notify contains configuration for the operator notification outbox.
type Notify struct {
	Enabled bool   `toml:"enabled"`
	Outbox  string `toml:"outbox"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Process contains configuration applied to the pipeline process itself.
type Process struct {
	Niceness int `toml:"niceness"`
}

// Config encapsulates all configuration values for recut. It is constructed
// once at process start and passed explicitly to every component.
//
// Sections by subsystem:
//   - Paths: catalog database, library root, scratch and log directories
//   - StorageGroups: storage-group name to recording directory registry
//   - Tools: external tool binaries (flagging, cut list, extraction, conversion)
//   - Channels: commercial-free channel allow-list
//   - Transcode: container extensions, quality preset, audio policy
//   - LibraryServer: best-effort library refresh endpoint
//   - Notify: failure notification outbox spool
//   - Logging: log format, level, and retention
//   - Process: niceness applied at pipeline start
type Config struct {
	Paths         Paths             `toml:"paths"`
	StorageGroups map[string]string `toml:"storage_groups"`
	Tools         Tools             `toml:"tools"`
	Channels      Channels          `toml:"channels"`
	Transcode     Transcode         `toml:"transcode"`
	LibraryServer LibraryServer     `toml:"library_server"`
	Notify        Notify            `toml:"notify"`
	Logging       Logging           `toml:"logging"`
	Process       Process           `toml:"process"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/recut/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("recut.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for a pipeline run.
// LibraryDir is created on a best-effort basis so the pipeline can run when
// the library mount is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ScratchDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
	}
	return nil
}

// StorageGroupDir resolves a storage-group name to its directory.
func (c *Config) StorageGroupDir(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Default"
	}
	dir, ok := c.StorageGroups[name]
	if !ok || strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("storage group %q is not registered in [storage_groups]", name)
	}
	return dir, nil
}

// IsCommercialFreeChannel reports whether a channel identifier appears on the
// configured commercial-free allow-list.
func (c *Config) IsCommercialFreeChannel(chanID string) bool {
	chanID = strings.TrimSpace(chanID)
	if chanID == "" {
		return false
	}
	for _, candidate := range c.Channels.CommercialFree {
		if strings.EqualFold(strings.TrimSpace(candidate), chanID) {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
