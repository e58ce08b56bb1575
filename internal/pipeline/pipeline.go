package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/forPelevin/shortreel/internal/config"
	"github.com/forPelevin/shortreel/internal/logging"
	"github.com/forPelevin/shortreel/internal/ports"
	"github.com/forPelevin/shortreel/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/shortreel/internal/ports/adapters/fontfetch"
	"github.com/forPelevin/shortreel/internal/types"
	"github.com/forPelevin/shortreel/internal/usecase"
)

// ErrWorkspaceBusy is returned when another run holds the engine workspace.
var ErrWorkspaceBusy = errors.New("engine workspace is in use by another run")

type Config struct {
	Manifest         string
	OutPath          string
	OutDir           string
	IncludeSubtitles bool
	App              *config.Config
	Logger           *slog.Logger
	Progress         ports.ProgressObserver
}

func (c Config) Validate() error {
	if c.Manifest == "" {
		return errors.New("manifest is empty")
	}
	if _, err := os.Stat(c.Manifest); err != nil {
		return fmt.Errorf("stat manifest: %w", err)
	}
	if c.App == nil {
		return errors.New("app config is required")
	}
	return nil
}

type Summary struct {
	RunID    string
	OutPath  string
	Artifact types.Artifact
	Segments []types.SegmentReport
}

// Run loads the scene manifest, assembles the video with an ffmpeg engine
// session and writes the artifact to disk.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	runID := uuid.NewString()
	logger = logger.With("run", runID[:8])

	scenes, err := LoadScenes(cfg.Manifest)
	if err != nil {
		return Summary{}, err
	}
	logger.Info("manifest loaded", "component", "pipeline", "scenes", len(scenes), "manifest", cfg.Manifest)

	workspace := cfg.App.Engine.WorkspaceDir
	if workspace == "" {
		workspace = filepath.Join(os.TempDir(), "shortreel-engine")
	}
	if err := os.MkdirAll(filepath.Dir(workspace), 0o755); err != nil {
		return Summary{}, fmt.Errorf("prepare workspace: %w", err)
	}
	unlock, err := lockWorkspace(workspace)
	if err != nil {
		return Summary{}, err
	}
	defer unlock()

	engine := ffmpeg.New(cfg.App.Engine.FFmpeg, workspace, logger)
	uc := usecase.New(usecase.Deps{
		Engine: engine,
		Probe:  ffmpeg.NewProber(cfg.App.Engine.FFprobe),
		Fonts:  fontfetch.New(cfg.App.Subtitles.FontPath, cfg.App.Subtitles.FontURL, cfg.App.FontTimeout()),
		Logger: logger,
	}, Options(cfg.App))

	res, err := uc.Run(ctx, usecase.Input{
		Scenes:           scenes,
		IncludeSubtitles: cfg.IncludeSubtitles,
		Progress:         cfg.Progress,
	})
	if err != nil {
		return Summary{}, err
	}

	outPath := cfg.OutPath
	if outPath == "" {
		outDir := cfg.OutDir
		if outDir == "" {
			outDir = "out"
		}
		outPath = buildOutPath(outDir, cfg.Manifest, time.Now().UTC(), runID)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return Summary{}, err
	}
	if err := os.WriteFile(outPath, res.Artifact.Data, 0o644); err != nil {
		return Summary{}, fmt.Errorf("write output: %w", err)
	}
	logger.Info("video written", "component", "pipeline", "path", outPath, "workspace", engine.Workspace())

	return Summary{RunID: runID, OutPath: outPath, Artifact: res.Artifact, Segments: res.Segments}, nil
}

// Options maps the render and subtitle config onto assembler options.
func Options(c *config.Config) usecase.Options {
	opts := usecase.DefaultOptions()
	opts.Frame = c.Frame()
	opts.FPS = c.Render.FPS
	opts.Gap = c.Gap()
	opts.Codec = c.Codec()
	opts.FontName = c.Subtitles.FontName
	opts.FontFile = c.Subtitles.FontFile
	opts.FontSize = c.Subtitles.FontSize
	return opts
}

// lockWorkspace serializes runs across processes: per-scene files in the
// workspace are overwritten by name, so two runs must never overlap.
func lockWorkspace(workspace string) (func(), error) {
	lock := flock.New(workspace + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceBusy, workspace)
	}
	return func() { _ = lock.Unlock() }, nil
}

func buildOutPath(outDir, manifest string, now time.Time, runID string) string {
	name := strings.TrimSuffix(filepath.Base(manifest), filepath.Ext(manifest))
	name = normalizePathSegment(name)
	if name == "" {
		name = "reel"
	}
	ts := now.UTC().Format("20060102-150405Z")
	suffix := strings.ReplaceAll(runID, "-", "")
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return filepath.Join(outDir, fmt.Sprintf("%s-%s-%s.mp4", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
