// Package timeline turns an ordered list of scene descriptors into a flat,
// time-positioned layer stack. The sequencer owns the only clock: every
// layer's start is derived from the cursor at the moment its scene is
// appended, so scene order fully determines both time and z-order.
package timeline

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"
	"math"
	"os"

	"github.com/ivlev/story2video/internal/config"
	"github.com/ivlev/story2video/internal/geometry"
	"github.com/ivlev/story2video/internal/sidebar"
)

const (
	sidebarRatio    = 0.3
	sidebarSlide    = 1.0
	sidebarFade     = 0.5
	titleFontSize   = 48
	captionFontSize = 32
)

// Prober answers media questions without the sequencer knowing about
// ffprobe.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
	Dimensions(ctx context.Context, path string) (w, h int, err error)
	HasAudio(ctx context.Context, path string) (bool, error)
}

// Scene is one fully resolved scene descriptor.
type Scene struct {
	Video           string
	Audio           string
	Title           string
	Caption         string
	Direction       config.Direction
	EffectsDuration float64
}

// StorySequencer accumulates layers scene by scene. The cursor only moves
// forward; overlap between consecutive scenes is expressed by starting a
// scene slightly before the cursor, never by rewinding it.
type StorySequencer struct {
	width  int
	height int
	prober Prober

	cursor float64
	layers []Layer
	scenes int
}

func NewStorySequencer(width, height int, prober Prober) *StorySequencer {
	return &StorySequencer{width: width, height: height, prober: prober}
}

// AddScene appends a scene's layers at the current cursor. A scene whose
// clip is missing or unreadable is logged and skipped; the cursor does not
// move, so the next scene takes its place.
func (s *StorySequencer) AddScene(ctx context.Context, sc Scene) {
	n := s.scenes + 1

	if _, err := os.Stat(sc.Video); err != nil {
		log.Printf("[!] Scene %d skipped: video %s not found", n, sc.Video)
		return
	}

	srcW, srcH, err := s.prober.Dimensions(ctx, sc.Video)
	if err != nil {
		log.Printf("[!] Scene %d skipped: probing %s: %v", n, sc.Video, err)
		return
	}
	videoDur, err := s.prober.Duration(ctx, sc.Video)
	if err != nil || videoDur <= 0 {
		log.Printf("[!] Scene %d skipped: no usable duration for %s", n, sc.Video)
		return
	}
	crop := geometry.Fit(srcW, srcH, s.width, s.height)

	// The first scene starts at zero; later scenes reach back under the
	// previous one for the length of the intro animation.
	overlap := 0.0
	if s.cursor > 0 {
		overlap = sc.EffectsDuration
	}
	sceneStart := math.Max(0, s.cursor-overlap)

	if sc.EffectsDuration > 0 {
		s.layers = append(s.layers, Layer{
			Kind:     KindFreezeFrame,
			Start:    sceneStart,
			Duration: sc.EffectsDuration,
			Source:   sc.Video,
			Crop:     crop,
			FadeIn:   sc.EffectsDuration,
			Slide:    slideIn(sc.Direction, s.width, s.height, s.width, s.height, 0, 0, sc.EffectsDuration),
		})
	}

	videoStart := sceneStart + sc.EffectsDuration
	finalDur := videoDur
	loops := 0
	audio := ""

	if sc.Audio != "" {
		if _, err := os.Stat(sc.Audio); err != nil {
			log.Printf("[!] Scene %d: narration %s not found, using clip as is", n, sc.Audio)
		} else if audioDur, err := s.prober.Duration(ctx, sc.Audio); err != nil || audioDur <= 0 {
			log.Printf("[!] Scene %d: no usable duration for narration %s", n, sc.Audio)
		} else {
			audio = sc.Audio
			if audioDur > videoDur {
				// Stretch the clip by whole copies, then trim to the
				// narration exactly. Audio is never cut short.
				loops = int(math.Ceil(audioDur/videoDur)) - 1
				finalDur = audioDur
			}
		}
	}

	embedded := false
	if audio == "" {
		if has, err := s.prober.HasAudio(ctx, sc.Video); err == nil {
			embedded = has
		}
	}

	s.layers = append(s.layers, Layer{
		Kind:             KindVideo,
		Start:            videoStart,
		Duration:         finalDur,
		Source:           sc.Video,
		Crop:             crop,
		LoopCount:        loops,
		Audio:            audio,
		UseEmbeddedAudio: embedded,
	})

	if sc.Title != "" || sc.Caption != "" {
		s.addSidebar(sc, videoStart, finalDur)
	}

	s.cursor = videoStart + finalDur
	s.scenes++
	fmt.Printf("[>] Scene %d: intro %.2fs, video %.2fs at %.2fs, cursor %.2fs\n",
		n, sc.EffectsDuration, finalDur, videoStart, s.cursor)
}

func (s *StorySequencer) addSidebar(sc Scene, start, duration float64) {
	var panel *sidebar.Overlay
	switch sc.Direction {
	case config.DirTop, config.DirBottom:
		panel = sidebar.Build(s.width, int(sidebarRatio*float64(s.height)), sc.Direction,
			sc.Title, sc.Caption, titleFontSize, captionFontSize)
	default:
		panel = sidebar.Build(int(sidebarRatio*float64(s.width)), s.height, sc.Direction,
			sc.Title, sc.Caption, titleFontSize, captionFontSize)
	}
	if panel == nil {
		return
	}

	var dockX, dockY float64
	switch sc.Direction {
	case config.DirRight:
		dockX = float64(s.width - panel.Width)
	case config.DirBottom:
		dockY = float64(s.height - panel.Height)
	}

	s.layers = append(s.layers, Layer{
		Kind:     KindSidebar,
		Start:    start,
		Duration: duration,
		Image:    panel.Image,
		X:        dockX,
		Y:        dockY,
		FadeIn:   sidebarFade,
		Slide:    slideIn(sc.Direction, panel.Width, panel.Height, s.width, s.height, dockX, dockY, sidebarSlide),
	})
}

// AddEndCard overlays an image over the last `duration` seconds of the
// movie, docked at the bottom-right corner with a small margin.
func (s *StorySequencer) AddEndCard(img image.Image, duration float64) {
	if img == nil || duration <= 0 || s.cursor <= 0 {
		return
	}
	nrgba := toNRGBA(img)
	b := nrgba.Bounds()
	const margin = 40
	start := math.Max(0, s.cursor-duration)
	s.layers = append(s.layers, Layer{
		Kind:     KindSidebar,
		Start:    start,
		Duration: s.cursor - start,
		Image:    nrgba,
		X:        float64(s.width - b.Dx() - margin),
		Y:        float64(s.height - b.Dy() - margin),
		FadeIn:   sidebarFade,
	})
}

// Layers returns the accumulated stack in append order.
func (s *StorySequencer) Layers() []Layer {
	return s.layers
}

// Duration is the current cursor value, i.e. the length of the movie.
func (s *StorySequencer) Duration() float64 {
	return s.cursor
}

// SceneCount reports how many scenes were actually placed.
func (s *StorySequencer) SceneCount() int {
	return s.scenes
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Bounds(), img, b.Min, draw.Src)
	return n
}
