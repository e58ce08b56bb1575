package config

const (
	defaultConfigPath         = "~/.config/shortreel/config.toml"
	defaultFFmpeg             = "ffmpeg"
	defaultFFprobe            = "ffprobe"
	defaultWorkspaceDir       = "~/.cache/shortreel/engine"
	defaultWidth              = 720
	defaultHeight             = 1280
	defaultFPS                = 15
	defaultGapSeconds         = 0.1
	defaultPreset             = "veryfast"
	defaultCRF                = 28
	defaultAudioBitrate       = "128k"
	defaultFontName           = "Roboto Mono"
	defaultFontFile           = "RobotoMono-Regular.ttf"
	defaultFontSize           = 16
	defaultFontPath           = "~/.local/share/fonts/RobotoMono-Regular.ttf"
	defaultFontURL            = "https://github.com/googlefonts/RobotoMono/raw/main/fonts/ttf/RobotoMono-Regular.ttf"
	defaultFontTimeoutSeconds = 30
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Engine: Engine{
			FFmpeg:       defaultFFmpeg,
			FFprobe:      defaultFFprobe,
			WorkspaceDir: defaultWorkspaceDir,
		},
		Render: Render{
			Width:        defaultWidth,
			Height:       defaultHeight,
			FPS:          defaultFPS,
			GapSeconds:   defaultGapSeconds,
			Preset:       defaultPreset,
			CRF:          defaultCRF,
			AudioBitrate: defaultAudioBitrate,
		},
		Subtitles: Subtitles{
			Enabled:            true,
			FontName:           defaultFontName,
			FontFile:           defaultFontFile,
			FontSize:           defaultFontSize,
			FontPath:           defaultFontPath,
			FontURL:            defaultFontURL,
			FontTimeoutSeconds: defaultFontTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
