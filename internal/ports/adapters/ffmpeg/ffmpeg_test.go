package ffmpeg

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/forPelevin/shortreel/internal/types"
)

func TestReadProgress(t *testing.T) {
	stream := strings.Join([]string{
		"frame=1",
		"out_time_us=500000",
		"progress=continue",
		"out_time_us=1000000",
		"out_time_ms=garbage",
		"no separator",
		"out_time_us=4000000",
		"progress=end",
	}, "\n")

	var got []float64
	readProgress(strings.NewReader(stream), 2*time.Second, func(p float64) { got = append(got, p) })

	want := []float64{0.25, 0.5, 1, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestReadProgress_UnknownDurationOnlyReportsEnd(t *testing.T) {
	var got []float64
	readProgress(strings.NewReader("out_time_us=100\nprogress=end\n"), 0, func(p float64) { got = append(got, p) })
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("got %v, want [1]", got)
	}
}

func TestSession_RequiresReady(t *testing.T) {
	s := New("ffmpeg", t.TempDir(), nil)
	ctx := context.Background()

	if err := s.WriteFile(ctx, "a.txt", []byte("x")); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("write before ready: err=%v, want ErrUnavailable", err)
	}
	if err := s.Run(ctx, types.Command{Args: []string{"out.mp4"}}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("run before ready: err=%v, want ErrUnavailable", err)
	}
}

func TestSession_EnsureReadyMissingBinary(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "no-such-ffmpeg"), t.TempDir(), nil)
	err := s.EnsureReady(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err=%v, want ErrUnavailable", err)
	}
}

func TestSession_FileNamespace(t *testing.T) {
	dir := t.TempDir()
	s := New("ffmpeg", dir, nil)
	// Skip binary verification: the namespace does not need ffmpeg.
	s.ready = true
	ctx := context.Background()

	if err := s.WriteFile(ctx, "scene_1.srt", []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := s.ReadFile(ctx, "scene_1.srt")
	if err != nil || string(b) != "hello" {
		t.Fatalf("read: %q, %v", b, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "scene_1.srt")); err != nil {
		t.Fatalf("expected file inside workspace: %v", err)
	}
	for _, bad := range []string{"../escape.txt", "sub/dir.txt", "", ".hidden"} {
		if err := s.WriteFile(ctx, bad, nil); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("3.412000\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d != 3412*time.Millisecond {
		t.Fatalf("got %s", d)
	}
	for _, bad := range []string{"N/A", "", "0", "-1"} {
		if _, err := parseDuration(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
