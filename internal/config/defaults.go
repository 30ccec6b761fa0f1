package config

const (
	defaultDataDir         = "~/.local/share/fpexport"
	defaultStoreFile       = "results.db"
	defaultStoreCacheSize  = 256
	defaultExportMode      = "plain"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultLogMaxSizeMB    = 10
	defaultLogMaxBackups   = 5
	defaultLogMaxAgeDays   = 30
	defaultLogCompress     = true
	defaultConfigLocation  = "~/.config/fpexport/config.toml"
	defaultProjectFileName = "fpexport.toml"
)

// defaultAudioExtensions lists the file suffixes picked up when a directory is
// passed on the command line.
var defaultAudioExtensions = []string{".mp3", ".wav", ".flac", ".ogg", ".opus", ".m4a", ".aac", ".wma", ".aiff"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Store: Store{
			CacheSize: defaultStoreCacheSize,
		},
		Export: Export{
			Mode:            defaultExportMode,
			AudioExtensions: append([]string(nil), defaultAudioExtensions...),
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
			Compress:   defaultLogCompress,
		},
	}
}
