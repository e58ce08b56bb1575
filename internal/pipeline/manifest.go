package pipeline

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/forPelevin/shortreel/internal/types"
)

// Manifest is the on-disk scene list produced by the script, image and
// narration stages. Media paths are relative to the manifest file.
type Manifest struct {
	Scenes []ManifestScene `json:"scenes"`
}

type ManifestScene struct {
	SceneNumber int    `json:"scene_number"`
	Description string `json:"description"`
	Narration   string `json:"narration"`
	Image       string `json:"image"`
	ImageMIME   string `json:"image_mime,omitempty"`
	Audio       string `json:"audio"`
	AudioMIME   string `json:"audio_mime,omitempty"`
}

var mediaTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".webm": "audio/webm",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// LoadScenes reads a manifest and the media it points to. A scene with an
// empty media path keeps a nil blob; the assembler rejects it with the
// scene's position.
func LoadScenes(path string) ([]types.Scene, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.Scenes) == 0 {
		return nil, fmt.Errorf("manifest %s has no scenes", path)
	}

	base := filepath.Dir(path)
	scenes := make([]types.Scene, len(m.Scenes))
	for i, ms := range m.Scenes {
		num := ms.SceneNumber
		if num <= 0 {
			num = i + 1
		}
		img, err := loadBlob(base, ms.Image, ms.ImageMIME)
		if err != nil {
			return nil, fmt.Errorf("scene %d image: %w", i+1, err)
		}
		aud, err := loadBlob(base, ms.Audio, ms.AudioMIME)
		if err != nil {
			return nil, fmt.Errorf("scene %d audio: %w", i+1, err)
		}
		scenes[i] = types.Scene{
			Number:      num,
			Description: ms.Description,
			Narration:   ms.Narration,
			Image:       img,
			Audio:       aud,
		}
	}
	return scenes, nil
}

func loadBlob(base, rel, declared string) (*types.Blob, error) {
	if strings.TrimSpace(rel) == "" {
		return nil, nil
	}
	p := rel
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return &types.Blob{Data: data, MIME: detectMIME(p, declared, data)}, nil
}

func detectMIME(path, declared string, data []byte) string {
	if declared = strings.TrimSpace(declared); declared != "" {
		return declared
	}
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := mediaTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return http.DetectContentType(data)
}
