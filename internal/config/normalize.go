package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStorageGroups(); err != nil {
		return err
	}
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.normalizeChannels()
	c.normalizeTranscode()
	c.normalizeLibraryServer()
	if err := c.normalizeNotify(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.CatalogDB, err = expandPath(c.Paths.CatalogDB); err != nil {
		return fmt.Errorf("paths.catalog_db: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.ScratchDir, err = expandPath(c.Paths.ScratchDir); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorageGroups() error {
	if c.StorageGroups == nil {
		c.StorageGroups = map[string]string{}
	}
	normalized := make(map[string]string, len(c.StorageGroups))
	for name, dir := range c.StorageGroups {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		expanded, err := expandPath(strings.TrimSpace(dir))
		if err != nil {
			return fmt.Errorf("storage_groups.%s: %w", name, err)
		}
		normalized[name] = expanded
	}
	c.StorageGroups = normalized
	return nil
}

func (c *Config) normalizeTools() error {
	c.Tools.Flagger = strings.TrimSpace(c.Tools.Flagger)
	if c.Tools.Flagger == "" {
		c.Tools.Flagger = defaultFlaggerBinary
	}
	c.Tools.CutList = strings.TrimSpace(c.Tools.CutList)
	if c.Tools.CutList == "" {
		c.Tools.CutList = defaultCutListBinary
	}
	c.Tools.Extractor = strings.TrimSpace(c.Tools.Extractor)
	if c.Tools.Extractor == "" {
		c.Tools.Extractor = defaultExtractorBinary
	}
	c.Tools.Converter = strings.TrimSpace(c.Tools.Converter)
	if c.Tools.Converter == "" {
		c.Tools.Converter = defaultConverterBinary
	}
	if trimmed := strings.TrimSpace(c.Tools.FlaggerOverrides); trimmed != "" {
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("tools.flagger_overrides: %w", err)
		}
		c.Tools.FlaggerOverrides = expanded
	} else {
		c.Tools.FlaggerOverrides = ""
	}
	return nil
}

func (c *Config) normalizeChannels() {
	if len(c.Channels.CommercialFree) == 0 {
		return
	}
	channels := make([]string, 0, len(c.Channels.CommercialFree))
	seen := make(map[string]struct{}, len(c.Channels.CommercialFree))
	for _, ch := range c.Channels.CommercialFree {
		normalized := strings.TrimSpace(ch)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		channels = append(channels, normalized)
	}
	c.Channels.CommercialFree = channels
}

func (c *Config) normalizeTranscode() {
	c.Transcode.RecordedExtension = normalizeExtension(c.Transcode.RecordedExtension, defaultRecordedExtension)
	c.Transcode.TargetExtension = normalizeExtension(c.Transcode.TargetExtension, defaultTargetExtension)
	if c.Transcode.Quality <= 0 {
		c.Transcode.Quality = defaultTranscodeQuality
	}
	c.Transcode.AudioPolicy = strings.TrimSpace(c.Transcode.AudioPolicy)
	if c.Transcode.AudioPolicy == "" {
		c.Transcode.AudioPolicy = defaultAudioPolicy
	}
}

func normalizeExtension(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	if !strings.HasPrefix(value, ".") {
		value = "." + value
	}
	return value
}

func (c *Config) normalizeLibraryServer() {
	c.LibraryServer.URL = strings.TrimRight(strings.TrimSpace(c.LibraryServer.URL), "/")
	c.LibraryServer.Section = strings.TrimSpace(c.LibraryServer.Section)
	if c.LibraryServer.RequestTimeout <= 0 {
		c.LibraryServer.RequestTimeout = defaultRefreshTimeout
	}
}

func (c *Config) normalizeNotify() error {
	if strings.TrimSpace(c.Notify.Outbox) == "" {
		c.Notify.Outbox = defaultOutboxPath
	}
	expanded, err := expandPath(c.Notify.Outbox)
	if err != nil {
		return fmt.Errorf("notify.outbox: %w", err)
	}
	c.Notify.Outbox = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
