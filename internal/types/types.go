package types

import (
	"strings"
	"time"
)

// Blob is an opaque media payload with its declared MIME type.
type Blob struct {
	Data []byte
	MIME string
}

func (b *Blob) Empty() bool { return b == nil || len(b.Data) == 0 }

type Scene struct {
	Number      int
	Description string
	Narration   string
	Image       *Blob
	Audio       *Blob
}

// Command is one engine invocation. Duration is the expected output length
// and only drives progress reporting.
type Command struct {
	Args     []string
	Duration time.Duration
}

type Artifact struct {
	Data     []byte
	MIME     string
	Duration time.Duration
}

type SegmentReport struct {
	SceneNumber int
	Narration   time.Duration
	Total       time.Duration
	Subtitles   bool
	Attempts    int
}

// ProgressState is what observers receive. Scene is nil during the merge step.
type ProgressState struct {
	Fraction float64
	Scene    *int
	Total    int
}

func (p ProgressState) Merging() bool { return p.Scene == nil }

// AudioExt picks the container extension the engine demuxes the narration with.
func AudioExt(mime string) string {
	m := strings.ToLower(mime)
	switch {
	case strings.Contains(m, "mpeg"), strings.Contains(m, "mp3"):
		return ".mp3"
	case strings.Contains(m, "ogg"):
		return ".ogg"
	case strings.Contains(m, "webm"):
		return ".webm"
	case strings.Contains(m, "mp4"), strings.Contains(m, "aac"):
		return ".m4a"
	default:
		return ".wav"
	}
}

func ImageExt(mime string) string {
	m := strings.ToLower(mime)
	switch {
	case strings.Contains(m, "jpeg"), strings.Contains(m, "jpg"):
		return ".jpg"
	case strings.Contains(m, "webp"):
		return ".webp"
	default:
		return ".png"
	}
}
