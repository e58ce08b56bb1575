package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/forPelevin/shortreel/internal/domain/ffargs"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.FFmpeg == "" {
		errs = append(errs, errors.New("engine.ffmpeg must be set"))
	}
	if c.Engine.FFprobe == "" {
		errs = append(errs, errors.New("engine.ffprobe must be set"))
	}
	if c.Render.GapSeconds < 0 || c.Render.GapSeconds > 10 {
		errs = append(errs, fmt.Errorf("render.gap_seconds %v out of range 0-10", c.Render.GapSeconds))
	}
	if c.Subtitles.FontFile != "" && !ffargs.ValidName(c.Subtitles.FontFile) {
		errs = append(errs, fmt.Errorf("subtitles.font_file %q must be a bare file name", c.Subtitles.FontFile))
	}
	if c.Subtitles.FontURL != "" {
		u, err := url.Parse(c.Subtitles.FontURL)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			errs = append(errs, fmt.Errorf("subtitles.font_url %q must be an http(s) URL", c.Subtitles.FontURL))
		}
	}
	if c.Subtitles.FontTimeoutSeconds < 0 {
		errs = append(errs, errors.New("subtitles.font_timeout_seconds must be >= 0"))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be console or json", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not recognized", c.Logging.Level))
	}

	enc := ffargs.SceneEncode{
		Image:  "probe.png",
		Audio:  "probe.wav",
		Output: "probe.mp4",
		Total:  time.Second,
		Gap:    c.Gap(),
		FPS:    c.Render.FPS,
		Frame:  c.Frame(),
		Codec:  c.Codec(),
	}
	if c.Subtitles.Enabled {
		enc.Subtitles = &ffargs.Subtitles{File: "probe.srt", FontName: c.Subtitles.FontName, FontSize: c.Subtitles.FontSize}
	}
	if err := enc.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("render: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) Gap() time.Duration {
	return time.Duration(c.Render.GapSeconds * float64(time.Second))
}

func (c *Config) Frame() ffargs.Frame {
	return ffargs.Frame{Width: c.Render.Width, Height: c.Render.Height}
}

func (c *Config) Codec() ffargs.Codec {
	return ffargs.Codec{Preset: c.Render.Preset, CRF: c.Render.CRF, AudioBitrate: c.Render.AudioBitrate}
}

func (c *Config) FontTimeout() time.Duration {
	return time.Duration(c.Subtitles.FontTimeoutSeconds) * time.Second
}
