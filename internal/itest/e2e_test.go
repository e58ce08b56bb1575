//go:build integration

package itest

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/forPelevin/shortreel/internal/config"
	"github.com/forPelevin/shortreel/internal/pipeline"
	"github.com/forPelevin/shortreel/internal/ports"
	"github.com/forPelevin/shortreel/internal/types"
)

func TestE2E(t *testing.T) {
	tmp := t.TempDir()
	manifest := twoSceneManifest(t, tmp)

	app := config.Default()
	app.Engine.WorkspaceDir = filepath.Join(tmp, "engine")
	app.Subtitles.FontURL = ""

	var fractions []float64
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for _, subtitles := range []bool{true, false} {
		fractions = fractions[:0]
		out := filepath.Join(tmp, "out", "reel.mp4")
		sum, err := pipeline.Run(ctx, pipeline.Config{
			Manifest:         manifest,
			OutPath:          out,
			IncludeSubtitles: subtitles,
			App:              &app,
			Progress: ports.ObserverFunc(func(s types.ProgressState) {
				fractions = append(fractions, s.Fraction)
			}),
		})
		if err != nil {
			t.Fatalf("pipeline failed (subtitles=%v): %v", subtitles, err)
		}
		if _, err := os.Stat(out); err != nil {
			t.Fatalf("missing output: %v", err)
		}
		if len(sum.Segments) != 2 {
			t.Fatalf("expected 2 segments, got %d", len(sum.Segments))
		}

		got, err := probeDurationSeconds(out)
		if err != nil {
			t.Fatal(err)
		}
		// 1.5s + 2.0s narration plus a 0.1s gap per scene.
		if want := 3.7; math.Abs(got-want) > 0.25 {
			t.Fatalf("duration = %.3fs, want about %.1fs", got, want)
		}

		if len(fractions) < 2 || fractions[0] != 0 || fractions[len(fractions)-1] != 1 {
			t.Fatalf("progress must start at 0 and end at 1: %v", fractions)
		}
		for i := 1; i < len(fractions); i++ {
			if fractions[i] < fractions[i-1] {
				t.Fatalf("progress went backwards at %d: %v", i, fractions)
			}
		}
	}
}
