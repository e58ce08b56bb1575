package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/forPelevin/shortreel/internal/domain/ffargs"
	"github.com/forPelevin/shortreel/internal/domain/progress"
	"github.com/forPelevin/shortreel/internal/types"
)

const (
	concatList   = "concat.txt"
	concatOutput = "output.mp4"
)

// concat joins the segments without re-encoding. A failure here means the
// segments disagree on codec parameters, so it is not retried.
func (a *Assembler) concat(ctx context.Context, tr *progress.Tracker, segments []segment) (types.Artifact, error) {
	files := make([]string, len(segments))
	var total time.Duration
	for i, s := range segments {
		files[i] = s.file
		total += s.report.Total
	}

	a.d.Engine.OnProgress(tr.Merge)
	tr.Merge(0)

	list, err := ffargs.ConcatList(files)
	if err != nil {
		return types.Artifact{}, &StageError{Stage: "concat", Err: fmt.Errorf("%w: %w", ErrConcat, err)}
	}
	if err := a.d.Engine.WriteFile(ctx, concatList, []byte(list)); err != nil {
		return types.Artifact{}, &StageError{Stage: "concat", Err: err}
	}
	cmd, err := ffargs.Concat{List: concatList, Output: concatOutput, Duration: total}.Command()
	if err != nil {
		return types.Artifact{}, &StageError{Stage: "concat", Err: fmt.Errorf("%w: %w", ErrConcat, err)}
	}
	if err := a.d.Engine.Run(ctx, cmd); err != nil {
		return types.Artifact{}, &StageError{Stage: "concat", Err: fmt.Errorf("%w: %w", ErrConcat, err)}
	}
	b, err := a.d.Engine.ReadFile(ctx, concatOutput)
	if err != nil {
		return types.Artifact{}, &StageError{Stage: "concat", Err: err}
	}
	a.log.Debug("segments merged", "segments", len(files), "duration", total)
	return types.Artifact{Data: b, MIME: "video/mp4", Duration: total}, nil
}
