package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/shortreel/internal/types"
)

// Prober reads media durations with ffprobe.
type Prober struct {
	ffprobe string
}

func NewProber(ffprobePath string) *Prober {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Prober{ffprobe: ffprobePath}
}

// AudioDuration decodes the whole narration buffer and returns its real
// presentation length. The blob goes through a temp file named after its
// MIME type so ffprobe picks the right demuxer.
func (p *Prober) AudioDuration(ctx context.Context, audio types.Blob) (time.Duration, error) {
	f, err := os.CreateTemp("", "shortreel-probe-*"+types.AudioExt(audio.MIME))
	if err != nil {
		return 0, fmt.Errorf("probe temp file: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(audio.Data); err != nil {
		f.Close()
		return 0, fmt.Errorf("probe temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("probe temp file: %w", err)
	}
	return p.ProbeDuration(ctx, f.Name())
}

func (p *Prober) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, p.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	return parseDuration(string(b))
}

func parseDuration(out string) (time.Duration, error) {
	s := strings.TrimSpace(out)
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if sec <= 0 {
		return 0, fmt.Errorf("non-positive duration %q", s)
	}
	return time.Duration(sec * float64(time.Second)), nil
}
