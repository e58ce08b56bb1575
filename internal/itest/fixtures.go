//go:build integration

package itest

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/forPelevin/shortreel/internal/pipeline"
)

// writeStill renders a solid-color PNG with ffmpeg's lavfi source.
func writeStill(t *testing.T, path, color string, w, h int) {
	t.Helper()
	runFFmpeg(t, "-f", "lavfi", "-i", fmt.Sprintf("color=c=%s:s=%dx%d", color, w, h), "-frames:v", "1", path)
}

// writeTone renders a mono sine WAV of the given length.
func writeTone(t *testing.T, path string, seconds float64) {
	t.Helper()
	runFFmpeg(t, "-f", "lavfi", "-i", fmt.Sprintf("sine=frequency=440:duration=%.3f", seconds), "-ac", "1", path)
}

func runFFmpeg(t *testing.T, args ...string) {
	t.Helper()
	cmd := exec.Command("ffmpeg", append([]string{"-hide_banner", "-y"}, args...)...)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg fixture failed: %v\n%s", err, string(b))
	}
}

func writeManifest(t *testing.T, path string, scenes []pipeline.ManifestScene) {
	t.Helper()
	b, err := json.MarshalIndent(pipeline.Manifest{Scenes: scenes}, "", "  ")
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

// twoSceneManifest builds a landscape and a portrait scene so both
// letterbox directions are exercised.
func twoSceneManifest(t *testing.T, dir string) string {
	t.Helper()
	media := filepath.Join(dir, "media")
	if err := os.MkdirAll(media, 0o755); err != nil {
		t.Fatal(err)
	}
	writeStill(t, filepath.Join(media, "1.png"), "navy", 1280, 720)
	writeStill(t, filepath.Join(media, "2.png"), "darkgreen", 600, 1200)
	writeTone(t, filepath.Join(media, "1.wav"), 1.5)
	writeTone(t, filepath.Join(media, "2.wav"), 2.0)

	manifest := filepath.Join(dir, "scenes.json")
	writeManifest(t, manifest, []pipeline.ManifestScene{
		{SceneNumber: 1, Description: "harbor at dusk", Narration: "[calm] The harbor goes quiet.", Image: "media/1.png", Audio: "media/1.wav"},
		{SceneNumber: 2, Description: "forest path", Narration: "A path leads {into} the trees.", Image: "media/2.png", Audio: "media/2.wav"},
	})
	return manifest
}
