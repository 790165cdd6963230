package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateTranscode(); err != nil {
		return err
	}
	if err := c.validateLibraryServer(); err != nil {
		return err
	}
	if err := c.validateProcess(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.CatalogDB) == "" {
		return errors.New("paths.catalog_db must be set")
	}
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		return errors.New("paths.scratch_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateTools() error {
	for key, value := range map[string]string{
		"tools.flagger":   c.Tools.Flagger,
		"tools.cutlist":   c.Tools.CutList,
		"tools.extractor": c.Tools.Extractor,
		"tools.converter": c.Tools.Converter,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	return nil
}

func (c *Config) validateTranscode() error {
	if c.Transcode.RecordedExtension == c.Transcode.TargetExtension {
		return fmt.Errorf(
			"transcode.target_extension %q must differ from transcode.recorded_extension; the extension change marks a recording as already processed",
			c.Transcode.TargetExtension,
		)
	}
	if c.Transcode.Quality <= 0 || c.Transcode.Quality > 51 {
		return errors.New("transcode.quality must be between 1 and 51")
	}
	return nil
}

func (c *Config) validateLibraryServer() error {
	if !c.LibraryServer.Enabled {
		return nil
	}
	if strings.TrimSpace(c.LibraryServer.URL) == "" {
		return errors.New("library_server.url must be set when library_server.enabled is true")
	}
	if strings.TrimSpace(c.LibraryServer.Section) == "" {
		return errors.New("library_server.section must be set when library_server.enabled is true")
	}
	return nil
}

func (c *Config) validateProcess() error {
	if c.Process.Niceness < 0 || c.Process.Niceness > 19 {
		return errors.New("process.niceness must be between 0 and 19")
	}
	return nil
}
