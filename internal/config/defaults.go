package config

const (
	defaultLibraryDir       = "~/clipshelf"
	defaultLogDir           = "~/.local/share/clipshelf/logs"
	defaultAPIBind          = "127.0.0.1:7519"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultLockAttempts     = 5
	defaultLockBackoffMS    = 100
	defaultLockBackoffMaxMS = 1000
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Tools: Tools{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Store: Store{
			LockAttempts:     defaultLockAttempts,
			LockBackoffMS:    defaultLockBackoffMS,
			LockBackoffMaxMS: defaultLockBackoffMaxMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
