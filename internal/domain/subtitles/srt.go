package subtitles

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

var (
	bracketRun = regexp.MustCompile(`\[[^\]]*\]`)
	spaceRun   = regexp.MustCompile(`\s+`)
)

// FormatSRT renders a single-cue SRT document spanning [start, end).
func FormatSRT(narration string, start, end time.Duration) string {
	var b strings.Builder
	b.WriteString("1\n")
	b.WriteString(srtTime(start))
	b.WriteString(" --> ")
	b.WriteString(srtTime(end))
	b.WriteString("\n")
	b.WriteString(CueText(narration))
	b.WriteString("\n\n")
	return b.String()
}

// CueText strips paralinguistic tags like "[excited]" and returns display
// text. The result is never empty: SRT cues need a body.
func CueText(narration string) string {
	s := norm.NFC.String(narration)
	s = bracketRun.ReplaceAllString(s, " ")
	s = spaceRun.ReplaceAllString(s, " ")
	s = sanitize(strings.TrimSpace(s))
	if s == "" {
		return " "
	}
	return s
}

func srtTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Millisecond)
	hs := int(d / time.Hour)
	d -= time.Duration(hs) * time.Hour
	ms := int(d / time.Minute)
	d -= time.Duration(ms) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hs, ms, s, int(d/time.Millisecond))
}

// libass reads {...} as override blocks and a stray "]" would survive the
// tag strip, so both bracket kinds are neutralized.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\\", "/")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	s = strings.ReplaceAll(s, "[", "(")
	s = strings.ReplaceAll(s, "]", ")")
	return s
}
