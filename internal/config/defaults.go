package config

const (
	defaultCatalogDB         = "~/.local/share/recut/catalog.db"
	defaultLibraryDir        = "~/library"
	defaultScratchDir        = "~/.local/share/recut/scratch"
	defaultLogDir            = "~/.local/share/recut/logs"
	defaultLogRetentionDays  = 30
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultFlaggerBinary     = "commflag"
	defaultCutListBinary     = "cutlist"
	defaultExtractorBinary   = "losslesscut"
	defaultConverterBinary   = "HandBrakeCLI"
	defaultRecordedExtension = ".ts"
	defaultTargetExtension   = ".mkv"
	defaultTranscodeQuality  = 22
	defaultAudioPolicy       = "copy:aac"
	defaultRefreshTimeout    = 15
	defaultOutboxPath        = "~/.local/share/recut/outbox.spool"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogDB:  defaultCatalogDB,
			LibraryDir: defaultLibraryDir,
			ScratchDir: defaultScratchDir,
			LogDir:     defaultLogDir,
		},
		StorageGroups: map[string]string{},
		Tools: Tools{
			Flagger:   defaultFlaggerBinary,
			CutList:   defaultCutListBinary,
			Extractor: defaultExtractorBinary,
			Converter: defaultConverterBinary,
		},
		Transcode: Transcode{
			RecordedExtension: defaultRecordedExtension,
			TargetExtension:   defaultTargetExtension,
			Quality:           defaultTranscodeQuality,
			AudioPolicy:       defaultAudioPolicy,
		},
		LibraryServer: LibraryServer{
			RequestTimeout: defaultRefreshTimeout,
		},
		Notify: Notify{
			Outbox: defaultOutboxPath,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
