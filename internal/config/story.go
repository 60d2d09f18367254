package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scene is one entry of a story file. Poster is the still the scene was
// generated from; Video and Audio are optional explicit overrides for the
// derived <poster-stem>_video.mp4 / <poster-stem>_audio.mp3 paths.
type Scene struct {
	Poster          string   `yaml:"poster" json:"poster"`
	Video           string   `yaml:"video,omitempty" json:"video,omitempty"`
	Audio           string   `yaml:"audio,omitempty" json:"audio,omitempty"`
	Title           string   `yaml:"title,omitempty" json:"title,omitempty"`
	Caption         string   `yaml:"caption,omitempty" json:"caption,omitempty"`
	TextDirection   string   `yaml:"text_direction,omitempty" json:"text_direction,omitempty"`
	VideoPrompt     string   `yaml:"video_prompt,omitempty" json:"video_prompt,omitempty"`
	EffectsDuration *float64 `yaml:"effects_duration,omitempty" json:"effects_duration,omitempty"`
}

// Story is a parsed story file: an ordered scene list plus output settings.
type Story struct {
	FinalFilename string  `yaml:"final_filename,omitempty" json:"final_filename,omitempty"`
	Resolution    []int   `yaml:"output_resolution,omitempty" json:"output_resolution,omitempty"`
	EndCardLink   string  `yaml:"end_card_link,omitempty" json:"end_card_link,omitempty"`
	Scenes        []Scene `yaml:"scenes" json:"scenes"`
}

// LoadStory reads a story file. YAML is the native format, JSON is accepted
// for stories exported by other tools.
func LoadStory(path string) (*Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading story file: %w", err)
	}

	var story Story
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &story)
	} else {
		err = yaml.Unmarshal(data, &story)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing story file %s: %w", path, err)
	}

	if len(story.Scenes) == 0 {
		return nil, fmt.Errorf("story file %s contains no scenes", path)
	}

	base := filepath.Dir(path)
	for i := range story.Scenes {
		sc := &story.Scenes[i]
		sc.Poster = resolve(base, sc.Poster)
		sc.Video = resolve(base, sc.Video)
		sc.Audio = resolve(base, sc.Audio)
	}

	return &story, nil
}

// VideoPath returns the scene's clip path, deriving it from the poster name
// when no explicit path is set.
func (s *Scene) VideoPath() string {
	if s.Video != "" {
		return s.Video
	}
	return derived(s.Poster, "_video.mp4")
}

// AudioPath returns the scene's narration path, deriving it from the poster
// name when no explicit path is set.
func (s *Scene) AudioPath() string {
	if s.Audio != "" {
		return s.Audio
	}
	return derived(s.Poster, "_audio.mp3")
}

// NarrationText is the text spoken over the scene: title line first, then
// the caption.
func (s *Scene) NarrationText() string {
	switch {
	case s.Title != "" && s.Caption != "":
		return s.Title + "\n" + s.Caption
	case s.Title != "":
		return s.Title
	default:
		return s.Caption
	}
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func derived(poster, suffix string) string {
	if poster == "" {
		return ""
	}
	stem := strings.TrimSuffix(poster, filepath.Ext(poster))
	return stem + suffix
}
