package config

import (
	"os"
	"strings"
)

// Environment overrides, applied after the file is parsed.
const (
	EnvFFmpeg  = "SHORTREEL_FFMPEG"
	EnvFFprobe = "SHORTREEL_FFPROBE"
	EnvFontURL = "SHORTREEL_FONT_URL"
)

func (c *Config) normalize() error {
	if v := strings.TrimSpace(os.Getenv(EnvFFmpeg)); v != "" {
		c.Engine.FFmpeg = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFFprobe)); v != "" {
		c.Engine.FFprobe = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontURL)); v != "" {
		c.Subtitles.FontURL = v
	}

	var err error
	if c.Engine.FFmpeg, err = expandPath(c.Engine.FFmpeg); err != nil {
		return err
	}
	if c.Engine.FFprobe, err = expandPath(c.Engine.FFprobe); err != nil {
		return err
	}
	if c.Engine.WorkspaceDir, err = expandPath(c.Engine.WorkspaceDir); err != nil {
		return err
	}
	if c.Subtitles.FontPath, err = expandPath(c.Subtitles.FontPath); err != nil {
		return err
	}

	c.Render.Preset = strings.ToLower(strings.TrimSpace(c.Render.Preset))
	c.Render.AudioBitrate = strings.ToLower(strings.TrimSpace(c.Render.AudioBitrate))
	c.Subtitles.FontName = strings.TrimSpace(c.Subtitles.FontName)
	c.Subtitles.FontURL = strings.TrimSpace(c.Subtitles.FontURL)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
