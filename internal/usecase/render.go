package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/forPelevin/shortreel/internal/domain/ffargs"
	"github.com/forPelevin/shortreel/internal/domain/progress"
	"github.com/forPelevin/shortreel/internal/domain/subtitles"
	"github.com/forPelevin/shortreel/internal/types"
)

const maxRenderAttempts = 2

type segment struct {
	file   string
	report types.SegmentReport
}

type variant struct {
	name      string
	subtitles bool
}

// renderPlan lists the variants to try, in order, for one scene.
func renderPlan(includeSubtitles bool) []variant {
	plan := []variant{{name: "plain"}}
	if includeSubtitles {
		plan = append([]variant{{name: "subtitled", subtitles: true}}, plan...)
	}
	if len(plan) > maxRenderAttempts {
		plan = plan[:maxRenderAttempts]
	}
	return plan
}

func (a *Assembler) renderScene(ctx context.Context, tr *progress.Tracker, index int, sc types.Scene, includeSubtitles bool) (segment, error) {
	num := index + 1
	base := fmt.Sprintf("scene_%d", num)
	log := a.log.With("scene", num)

	a.d.Engine.OnProgress(func(p float64) { tr.Scene(index, p) })
	tr.Scene(index, 0)

	narration, err := a.d.Probe.AudioDuration(ctx, *sc.Audio)
	if err != nil {
		return segment{}, &StageError{Stage: "probe", Scene: num, Err: err}
	}
	total := narration + a.opts.Gap

	image := base + types.ImageExt(sc.Image.MIME)
	audio := base + "_audio" + types.AudioExt(sc.Audio.MIME)
	srt := base + ".srt"
	out := base + ".mp4"

	if err := a.d.Engine.WriteFile(ctx, image, sc.Image.Data); err != nil {
		return segment{}, &StageError{Stage: "write", Scene: num, Err: err}
	}
	if err := a.d.Engine.WriteFile(ctx, audio, sc.Audio.Data); err != nil {
		return segment{}, &StageError{Stage: "write", Scene: num, Err: err}
	}
	if includeSubtitles {
		doc := subtitles.FormatSRT(sc.Narration, 0, narration)
		if err := a.d.Engine.WriteFile(ctx, srt, []byte(doc)); err != nil {
			return segment{}, &StageError{Stage: "write", Scene: num, Err: err}
		}
	}

	enc := ffargs.SceneEncode{
		Image:  image,
		Audio:  audio,
		Output: out,
		Total:  total,
		Gap:    a.opts.Gap,
		FPS:    a.opts.FPS,
		Frame:  a.opts.Frame,
		Codec:  a.opts.Codec,
	}

	plan := renderPlan(includeSubtitles)
	var lastErr error
	for attempt, v := range plan {
		enc.Subtitles = nil
		if v.subtitles {
			enc.Subtitles = &ffargs.Subtitles{File: srt, FontName: a.opts.FontName, FontSize: a.opts.FontSize}
		}
		lastErr = a.encode(ctx, enc)
		if lastErr == nil {
			log.Info("scene rendered",
				"variant", v.name,
				"narration", narration.Round(time.Millisecond),
				"total", total.Round(time.Millisecond),
			)
			return segment{
				file: out,
				report: types.SegmentReport{
					SceneNumber: sc.Number,
					Narration:   narration,
					Total:       total,
					Subtitles:   v.subtitles,
					Attempts:    attempt + 1,
				},
			}, nil
		}
		if v.subtitles && attempt+1 < len(plan) {
			log.Warn("retrying without subtitles", "error", fmt.Errorf("%w: %w", ErrSubtitleRender, lastErr))
		}
	}
	return segment{}, &StageError{Stage: "encode", Scene: num, Err: fmt.Errorf("%w: %w", ErrSceneEncode, lastErr)}
}

func (a *Assembler) encode(ctx context.Context, enc ffargs.SceneEncode) error {
	cmd, err := enc.Command()
	if err != nil {
		return err
	}
	return a.d.Engine.Run(ctx, cmd)
}
