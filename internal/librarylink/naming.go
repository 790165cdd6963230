package librarylink

import (
	"fmt"
	"path/filepath"

	"recut/internal/catalog"
	"recut/internal/config"
	"recut/internal/textutil"
)

// LinkStem computes the library-visible name for a recording, without
// extension. Movies use "Title (Year)". Episodic recordings use
// "Series - SxxEyy - <disambiguator>", where the disambiguator is the
// subtitle when present and otherwise a channel/time fallback that keeps
// the name unique across a series.
func LinkStem(record *catalog.Record) string {
	if record.IsMovie() {
		title := textutil.SanitizeFileName(record.Title)
		if year := record.AirYear(); year > 0 {
			return fmt.Sprintf("%s (%d)", title, year)
		}
		return title
	}
	series := textutil.SanitizeFileName(record.Title)
	disambiguator := textutil.SanitizeFileName(record.Subtitle)
	if !record.HasSubtitle() {
		disambiguator = fmt.Sprintf("Recorded on %s at %s",
			record.ChanID, textutil.ReplaceColons(record.StartTime))
	}
	return fmt.Sprintf("%s - S%02dE%02d - %s", series, record.Season, record.Episode, disambiguator)
}

// LinkPath computes where the recording's symlink lives under the library
// root: a storage-group subdirectory, plus a per-series subdirectory for
// episodic recordings, plus the stem with the best artifact's extension.
func LinkPath(cfg *config.Config, record *catalog.Record, bestPath string) string {
	group := record.StorageGroup
	if group == "" {
		group = "Default"
	}
	dir := filepath.Join(cfg.Paths.LibraryDir, textutil.SanitizeFileName(group))
	if !record.IsMovie() {
		dir = filepath.Join(dir, textutil.SanitizeFileName(record.Title))
	}
	return filepath.Join(dir, LinkStem(record)+filepath.Ext(bestPath))
}
