// Package ffargs builds the ffmpeg argument lists the pipeline runs. Every
// value that reaches an argument is either a number, a member of a fixed
// set, or a file name checked against a strict pattern, so narration and
// description text can never end up inside a filter graph.
package ffargs

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/shortreel/internal/types"
)

var fileName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

var bitrate = regexp.MustCompile(`^[0-9]+k$`)

// fontName is stricter than fileName: it lands inside force_style.
var fontName = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)

var presets = map[string]struct{}{
	"ultrafast": {}, "superfast": {}, "veryfast": {}, "faster": {},
	"fast": {}, "medium": {}, "slow": {}, "slower": {}, "veryslow": {},
}

// ValidName reports whether name is usable as an engine file name.
func ValidName(name string) bool {
	return fileName.MatchString(name) && !strings.Contains(name, "..")
}

type Frame struct {
	Width  int
	Height int
}

type Codec struct {
	Preset       string
	CRF          int
	AudioBitrate string
}

// Subtitles describes the burn-in overlay. Fonts are looked up in the
// engine's own namespace because the engine cannot see host fonts.
type Subtitles struct {
	File     string
	FontName string
	FontSize int
}

type SceneEncode struct {
	Image     string
	Audio     string
	Output    string
	Total     time.Duration
	Gap       time.Duration
	FPS       int
	Frame     Frame
	Codec     Codec
	Subtitles *Subtitles
}

func (e SceneEncode) Validate() error {
	var errs []error
	for _, n := range []string{e.Image, e.Audio, e.Output} {
		if !ValidName(n) {
			errs = append(errs, fmt.Errorf("invalid file name %q", n))
		}
	}
	if e.Total <= 0 {
		errs = append(errs, errors.New("total duration must be > 0"))
	}
	if e.Gap < 0 {
		errs = append(errs, errors.New("gap must be >= 0"))
	}
	if e.FPS <= 0 || e.FPS > 120 {
		errs = append(errs, fmt.Errorf("fps %d out of range", e.FPS))
	}
	if err := e.Frame.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := e.Codec.validate(); err != nil {
		errs = append(errs, err)
	}
	if e.Subtitles != nil {
		if err := e.Subtitles.validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Command returns the arguments that composite one still image and one
// narration track into a fixed-size segment.
func (e SceneEncode) Command() (types.Command, error) {
	if err := e.Validate(); err != nil {
		return types.Command{}, fmt.Errorf("scene encode: %w", err)
	}
	args := []string{
		"-loop", "1",
		"-framerate", strconv.Itoa(e.FPS),
		"-t", seconds(e.Total),
		"-i", e.Image,
		"-i", e.Audio,
		"-vf", VideoFilter(e.Frame, e.Subtitles),
		"-af", "apad=pad_dur=" + seconds(e.Gap),
		"-c:v", "libx264",
		"-preset", e.Codec.Preset,
		"-crf", strconv.Itoa(e.Codec.CRF),
		"-tune", "stillimage",
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(e.FPS),
		"-c:a", "aac",
	}
	if e.Codec.AudioBitrate != "" {
		args = append(args, "-b:a", e.Codec.AudioBitrate)
	}
	args = append(args, "-shortest", e.Output)
	return types.Command{Args: args, Duration: e.Total}, nil
}

// VideoFilter scales the still to fit the frame, optionally burns the
// subtitle cue while the picture is still unpadded (so text stays on the
// image, not on the bars), then pads to the full canvas.
func VideoFilter(f Frame, subs *Subtitles) string {
	parts := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease:force_divisible_by=2", f.Width, f.Height),
	}
	if subs != nil {
		style := fmt.Sprintf(
			"FontName=%s,FontSize=%d,PrimaryColour=&H00FFFFFF,OutlineColour=&H00000000,BorderStyle=1,Outline=2,Shadow=0,Alignment=2,MarginV=40",
			subs.FontName, subs.FontSize,
		)
		parts = append(parts, fmt.Sprintf("subtitles=%s:fontsdir=.:force_style='%s'", subs.File, style))
	}
	parts = append(parts,
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", f.Width, f.Height),
		"setsar=1",
	)
	return strings.Join(parts, ",")
}

type Concat struct {
	List     string
	Output   string
	Duration time.Duration
}

// ConcatList renders the concat demuxer manifest for segments in order.
func ConcatList(segments []string) (string, error) {
	if len(segments) == 0 {
		return "", errors.New("concat: no segments")
	}
	var b strings.Builder
	for _, s := range segments {
		if !ValidName(s) {
			return "", fmt.Errorf("concat: invalid segment name %q", s)
		}
		fmt.Fprintf(&b, "file '%s'\n", s)
	}
	return b.String(), nil
}

// Command stream-copies the listed segments; they share codec parameters
// by construction, so nothing is re-encoded.
func (c Concat) Command() (types.Command, error) {
	if !ValidName(c.List) || !ValidName(c.Output) {
		return types.Command{}, fmt.Errorf("concat: invalid file names %q, %q", c.List, c.Output)
	}
	return types.Command{
		Args: []string{
			"-f", "concat",
			"-safe", "0",
			"-i", c.List,
			"-c", "copy",
			"-movflags", "+faststart",
			c.Output,
		},
		Duration: c.Duration,
	}, nil
}

func (f Frame) validate() error {
	if f.Width <= 0 || f.Height <= 0 || f.Width%2 != 0 || f.Height%2 != 0 {
		return fmt.Errorf("frame %dx%d must be positive and even", f.Width, f.Height)
	}
	return nil
}

func (c Codec) validate() error {
	if _, ok := presets[c.Preset]; !ok {
		return fmt.Errorf("unknown x264 preset %q", c.Preset)
	}
	if c.CRF < 0 || c.CRF > 51 {
		return fmt.Errorf("crf %d out of range 0-51", c.CRF)
	}
	if c.AudioBitrate != "" && !bitrate.MatchString(c.AudioBitrate) {
		return fmt.Errorf("invalid audio bitrate %q", c.AudioBitrate)
	}
	return nil
}

func (s Subtitles) validate() error {
	if !ValidName(s.File) {
		return fmt.Errorf("invalid subtitle file name %q", s.File)
	}
	if !fontName.MatchString(s.FontName) {
		return fmt.Errorf("invalid font name %q", s.FontName)
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("font size must be > 0")
	}
	return nil
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
