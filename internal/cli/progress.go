package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/forPelevin/shortreel/internal/logging"
	"github.com/forPelevin/shortreel/internal/types"
)

const barSteps = 1000

type progressView interface {
	OnProgress(types.ProgressState)
	// Close ends the view; ok is false when the run failed.
	Close(ok bool)
}

func stepLabel(s types.ProgressState) string {
	if s.Merging() {
		if s.Fraction >= 1 {
			return "done"
		}
		return "merging"
	}
	return fmt.Sprintf("scene %d/%d", *s.Scene+1, s.Total)
}

type barView struct {
	bar *progressbar.ProgressBar
}

func newBarView(w io.Writer) *barView {
	return &barView{bar: progressbar.NewOptions(barSteps,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("starting"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
	)}
}

func (v *barView) OnProgress(s types.ProgressState) {
	v.bar.Describe(stepLabel(s))
	_ = v.bar.Set(int(s.Fraction * barSteps))
}

func (v *barView) Close(ok bool) {
	if ok {
		_ = v.bar.Finish()
		return
	}
	_ = v.bar.Exit()
}

// logView is used when stderr is not a terminal: it logs one line per
// step and per crossed 10% bucket.
type logView struct {
	logger  *slog.Logger
	sampler *logging.ProgressSampler
}

func newLogView(logger *slog.Logger) *logView {
	return &logView{logger: logger, sampler: logging.NewProgressSampler(10)}
}

func (v *logView) OnProgress(s types.ProgressState) {
	pct := s.Fraction * 100
	step := stepLabel(s)
	if !v.sampler.ShouldLog(pct, step) {
		return
	}
	v.logger.Info("progress", "component", "cli", "step", step, "percent", fmt.Sprintf("%.0f", pct))
}

func (v *logView) Close(bool) {}
