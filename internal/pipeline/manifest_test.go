package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadScenes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "media", "1.png"), []byte("\x89PNG\r\n\x1a\nrest"))
	writeFile(t, filepath.Join(dir, "media", "1.mp3"), []byte("ID3audio"))
	writeFile(t, filepath.Join(dir, "media", "2.bin"), []byte("RIFF\x00\x00\x00\x00WAVEfmt "))
	writeFile(t, filepath.Join(dir, "media", "2.jpg"), []byte("jpeg"))
	manifest := filepath.Join(dir, "scenes.json")
	writeFile(t, manifest, []byte(`{"scenes":[
		{"scene_number":1,"description":"a lighthouse","narration":"[calm] Night falls.","image":"media/1.png","audio":"media/1.mp3"},
		{"description":"the sea","narration":"Waves.","image":"media/2.jpg","audio":"media/2.bin"},
		{"scene_number":7,"narration":"No media yet.","image":"media/2.jpg","audio_mime":"audio/mpeg"}
	]}`))

	scenes, err := LoadScenes(manifest)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(scenes) != 3 {
		t.Fatalf("got %d scenes", len(scenes))
	}
	if scenes[0].Audio.MIME != "audio/mpeg" || scenes[0].Image.MIME != "image/png" {
		t.Fatalf("unexpected mimes for scene 1: %q %q", scenes[0].Audio.MIME, scenes[0].Image.MIME)
	}
	if scenes[1].Number != 2 {
		t.Fatalf("missing scene number should default to position, got %d", scenes[1].Number)
	}
	if !strings.HasPrefix(scenes[1].Audio.MIME, "audio/wav") {
		t.Fatalf("expected sniffed wav type, got %q", scenes[1].Audio.MIME)
	}
	if scenes[2].Number != 7 || scenes[2].Audio != nil {
		t.Fatalf("scene without audio path should keep a nil blob: %+v", scenes[2])
	}
	if scenes[0].Narration != "[calm] Night falls." {
		t.Fatalf("narration must be passed through untouched: %q", scenes[0].Narration)
	}
}

func TestLoadScenes_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	writeFile(t, empty, []byte(`{"scenes":[]}`))
	if _, err := LoadScenes(empty); err == nil || !strings.Contains(err.Error(), "no scenes") {
		t.Fatalf("expected no scenes error, got %v", err)
	}

	broken := filepath.Join(dir, "broken.json")
	writeFile(t, broken, []byte(`{"scenes":`))
	if _, err := LoadScenes(broken); err == nil || !strings.Contains(err.Error(), "parse manifest") {
		t.Fatalf("expected parse error, got %v", err)
	}

	dangling := filepath.Join(dir, "dangling.json")
	writeFile(t, dangling, []byte(`{"scenes":[{"image":"missing.png","audio":"missing.mp3"}]}`))
	if _, err := LoadScenes(dangling); err == nil || !strings.Contains(err.Error(), "scene 1 image") {
		t.Fatalf("expected media read error, got %v", err)
	}
}
