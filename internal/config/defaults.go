package config

const (
	defaultDataDir               = "~/.local/share/ridgeid"
	defaultLogDir                = "~/.local/share/ridgeid/logs"
	defaultSnapshotDir           = "~/.local/share/ridgeid/snapshots"
	defaultDatabaseName          = "roster.db"
	defaultBusyTimeoutMillis     = 5000
	defaultCaptureSource         = CaptureSourceCamera
	defaultCaptureDevice         = "/dev/video0"
	defaultFFmpegBinary          = "ffmpeg"
	defaultCaptureInputFormat    = "v4l2"
	defaultCaptureTimeoutSeconds = 10
	defaultWaitForDeviceSeconds  = 0
	defaultAPIBind               = "127.0.0.1:7488"
	defaultAPIBodyLimitMB        = 16
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogRetentionDays      = 30
	defaultLogRotationHours      = 24
)

// Capture source kinds.
const (
	CaptureSourceCamera = "camera"
	CaptureSourceFile   = "file"
)

// Default returns a Config populated with repository defaults. Paths are not
// yet expanded; Load takes care of that.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			LogDir:      defaultLogDir,
			SnapshotDir: defaultSnapshotDir,
		},
		Roster: Roster{
			BusyTimeoutMillis: defaultBusyTimeoutMillis,
		},
		Capture: Capture{
			Source:               defaultCaptureSource,
			Device:               defaultCaptureDevice,
			FFmpegBinary:         defaultFFmpegBinary,
			InputFormat:          defaultCaptureInputFormat,
			TimeoutSeconds:       defaultCaptureTimeoutSeconds,
			WaitForDeviceSeconds: defaultWaitForDeviceSeconds,
		},
		API: API{
			Bind:        defaultAPIBind,
			BodyLimitMB: defaultAPIBodyLimitMB,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
			RotationHours: defaultLogRotationHours,
		},
	}
}
