package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Engine locates the transcoder binaries and the session workspace.
type Engine struct {
	FFmpeg       string `toml:"ffmpeg"`
	FFprobe      string `toml:"ffprobe"`
	WorkspaceDir string `toml:"workspace_dir"`
}

// Render holds segment geometry and codec policy.
type Render struct {
	Width        int     `toml:"width"`
	Height       int     `toml:"height"`
	FPS          int     `toml:"fps"`
	GapSeconds   float64 `toml:"gap_seconds"`
	Preset       string  `toml:"preset"`
	CRF          int     `toml:"crf"`
	AudioBitrate string  `toml:"audio_bitrate"`
}

// Subtitles configures burn-in and where the font comes from. The engine
// cannot see host fonts, so the font file is copied into it.
type Subtitles struct {
	Enabled            bool   `toml:"enabled"`
	FontName           string `toml:"font_name"`
	FontFile           string `toml:"font_file"`
	FontSize           int    `toml:"font_size"`
	FontPath           string `toml:"font_path"`
	FontURL            string `toml:"font_url"`
	FontTimeoutSeconds int    `toml:"font_timeout_seconds"`
}

type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for shortreel.
type Config struct {
	Engine    Engine    `toml:"engine"`
	Render    Render    `toml:"render"`
	Subtitles Subtitles `toml:"subtitles"`
	Logging   Logging   `toml:"logging"`
}

// Load parses the file at path (if it exists) over the defaults, then
// normalizes and validates the result. An empty path falls back to
// ./shortreel.toml and then the user config directory.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// Sample returns an annotated example configuration.
func Sample() string { return sampleConfig }

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("shortreel.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}
