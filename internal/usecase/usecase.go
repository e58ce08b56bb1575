package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/forPelevin/shortreel/internal/domain/ffargs"
	"github.com/forPelevin/shortreel/internal/domain/progress"
	"github.com/forPelevin/shortreel/internal/ports"
	"github.com/forPelevin/shortreel/internal/types"
)

type Deps struct {
	Engine ports.Engine
	Probe  ports.DurationProbe
	Fonts  ports.FontSource
	Logger *slog.Logger
}

// Options are the render policy knobs shared by every scene of a run.
type Options struct {
	Frame    ffargs.Frame
	FPS      int
	Gap      time.Duration
	Codec    ffargs.Codec
	FontName string
	FontFile string
	FontSize int
}

func DefaultOptions() Options {
	return Options{
		Frame:    ffargs.Frame{Width: 720, Height: 1280},
		FPS:      15,
		Gap:      100 * time.Millisecond,
		Codec:    ffargs.Codec{Preset: "veryfast", CRF: 28, AudioBitrate: "128k"},
		FontName: "Roboto Mono",
		FontFile: "RobotoMono-Regular.ttf",
		FontSize: 16,
	}
}

type Assembler struct {
	d    Deps
	opts Options
	log  *slog.Logger
}

func New(d Deps, opts Options) *Assembler {
	log := d.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Assembler{d: d, opts: opts, log: log.With("component", "assembler")}
}

type Input struct {
	Scenes           []types.Scene
	IncludeSubtitles bool
	Progress         ports.ProgressObserver
}

type Result struct {
	Artifact types.Artifact
	Segments []types.SegmentReport
}

// Run assembles the scenes, in order, into one video. Either a complete
// artifact is returned or an error; nothing partial. Runs sharing an
// engine must not overlap.
func (a *Assembler) Run(ctx context.Context, in Input) (Result, error) {
	if err := checkScenes(in.Scenes); err != nil {
		return Result{}, err
	}

	tracker := progress.NewTracker(in.Progress, len(in.Scenes))
	tracker.Start()

	if err := a.d.Engine.EnsureReady(ctx); err != nil {
		return Result{}, &StageError{Stage: "engine", Err: fmt.Errorf("%w: %w", ErrEngineUnavailable, err)}
	}
	defer a.d.Engine.OnProgress(nil)

	if in.IncludeSubtitles {
		a.provisionFont(ctx)
	}

	a.log.Info("assembly started",
		"scenes", len(in.Scenes),
		"subtitles", in.IncludeSubtitles,
		"fps", a.opts.FPS,
		"gap", a.opts.Gap,
	)

	segments := make([]segment, 0, len(in.Scenes))
	for i, sc := range in.Scenes {
		seg, err := a.renderScene(ctx, tracker, i, sc, in.IncludeSubtitles)
		if err != nil {
			return Result{}, err
		}
		segments = append(segments, seg)
	}

	art, err := a.concat(ctx, tracker, segments)
	if err != nil {
		return Result{}, err
	}
	tracker.Complete()

	reports := make([]types.SegmentReport, len(segments))
	for i, s := range segments {
		reports[i] = s.report
	}
	a.log.Info("assembly finished", "duration", art.Duration, "bytes", len(art.Data))
	return Result{Artifact: art, Segments: reports}, nil
}

func checkScenes(scenes []types.Scene) error {
	if len(scenes) == 0 {
		return &StageError{Stage: "precondition", Err: ErrNoScenes}
	}
	for i, sc := range scenes {
		if sc.Image.Empty() || sc.Audio.Empty() {
			return &StageError{Stage: "precondition", Scene: i + 1, Err: ErrMissingMedia}
		}
	}
	return nil
}

// provisionFont copies the subtitle font into the engine namespace. A
// missing font is not fatal here: burn-in then fails per scene and the
// scene falls back to the plain render.
func (a *Assembler) provisionFont(ctx context.Context) {
	if a.d.Fonts == nil {
		a.log.Warn("no font source configured; subtitles may not render")
		return
	}
	b, err := a.d.Fonts.Font(ctx)
	if err != nil {
		a.log.Warn("subtitle font unavailable", "error", err)
		return
	}
	if err := a.d.Engine.WriteFile(ctx, a.opts.FontFile, b); err != nil {
		a.log.Warn("subtitle font not written", "error", err)
	}
}
