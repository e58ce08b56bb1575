package subtitles

import (
	"strings"
	"testing"
	"time"
)

func TestFormatSRT_SingleCue(t *testing.T) {
	got := FormatSRT("[excited] Hello   there,\n world!", 0, 3412*time.Millisecond)
	want := "1\n00:00:00,000 --> 00:00:03,412\nHello there, world!\n\n"
	if got != want {
		t.Fatalf("unexpected srt:\n%q\nwant:\n%q", got, want)
	}
}

func TestCueText(t *testing.T) {
	tests := map[string]string{
		"[whispers]":               " ",
		"":                         " ",
		"   \t\n ":                 " ",
		"Plain text":               "Plain text",
		"[laughs] ok [sighs] fine": "ok fine",
		"nested [a [b] c] tail":    "nested c) tail",
		"dangling [open":           "dangling (open",
		"{\\an8}styled":            "(/an8)styled",
		"Cafe\u0301 [soft] time":   "Caf\u00e9 time",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			got := CueText(in)
			if got != want {
				t.Fatalf("CueText(%q) = %q, want %q", in, got, want)
			}
			if got == "" {
				t.Fatalf("cue text must never be empty")
			}
			if strings.ContainsAny(got, "[]") {
				t.Fatalf("cue text kept brackets: %q", got)
			}
		})
	}
}

func TestSrtTime_Format(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00,000"},
		{-time.Second, "00:00:00,000"},
		{61*time.Second + 234*time.Millisecond, "00:01:01,234"},
		{time.Hour + 2*time.Minute + 3*time.Second + 4*time.Millisecond, "01:02:03,004"},
		{1999600 * time.Microsecond, "00:00:02,000"},
	}
	for _, tc := range tests {
		if got := srtTime(tc.in); got != tc.want {
			t.Fatalf("srtTime(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
