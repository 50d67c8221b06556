package config

const (
	defaultLogDir           = "~/.local/share/showtag/logs"
	defaultCatalogPath      = "~/.local/share/showtag/catalog.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultYearFormat       = "YYYY"
	defaultSegueString      = "->"
	defaultSoundboardAbbrev = "SBD"
	defaultAudAbbrev        = "AUD"
	defaultMatrixAbbrev     = "MTX"
	defaultUltramatrixAbbr  = "UMTX"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Catalog: Catalog{
			Path: defaultCatalogPath,
		},
		Preferences: Preferences{
			YearFormat:        defaultYearFormat,
			SegueString:       defaultSegueString,
			SoundboardAbbrev:  defaultSoundboardAbbrev,
			AudAbbrev:         defaultAudAbbrev,
			MatrixAbbrev:      defaultMatrixAbbrev,
			UltramatrixAbbrev: defaultUltramatrixAbbr,
		},
		AlbumTag: AlbumTag{
			IncludeBitrate:      true,
			IncludeBitrateNot16: true,
			IncludeShnid:        true,
			IncludeVenue:        false,
			IncludeCity:         true,
			Order: []string{
				"show_date",
				"city",
				"venue",
				"recording_type",
				"shnid",
				"bitrate",
			},
		},
		Cover: Cover{
			ClearExistingArtwork:  false,
			RetainExistingArtwork: true,
			ArtworkFolders:        map[string][]string{},
			DefaultImages:         map[string]string{},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
