package testsupport

import (
	"path/filepath"
	"testing"

	"recut/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CatalogDB = filepath.Join(base, "catalog.db")
	cfgVal.Paths.LibraryDir = filepath.Join(base, "library")
	cfgVal.Paths.ScratchDir = filepath.Join(base, "scratch")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Notify.Outbox = filepath.Join(base, "outbox.spool")
	cfgVal.StorageGroups = map[string]string{
		"Default": filepath.Join(base, "recordings"),
		"Movies":  filepath.Join(base, "recordings", "movies"),
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStorageGroup registers an additional storage-group directory.
func WithStorageGroup(name, dir string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.StorageGroups[name] = dir
	}
}

// WithCommercialFreeChannels sets the channel allow-list on the test config.
func WithCommercialFreeChannels(channels ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Channels.CommercialFree = channels
	}
}

// BaseDir returns the temp base directory backing a config built by NewConfig.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CatalogDB)
}

// StorageDir resolves a storage-group directory, failing the test when the
// group is not registered.
func StorageDir(t testing.TB, cfg *config.Config, name string) string {
	t.Helper()
	dir, err := cfg.StorageGroupDir(name)
	if err != nil {
		t.Fatalf("resolve storage group %q: %v", name, err)
	}
	return dir
}
