// Package render materializes a timeline: the sequencer's layer list is a
// pure description, and everything pixel-shaped happens here in a single
// ffmpeg pass.
package render

import (
	"context"
	"fmt"
	"image/png"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/story2video/internal/timeline"
)

// FFmpeg renders layer stacks by shelling out to ffmpeg.
type FFmpeg struct {
	ShowStats bool
}

// Render writes the movie described by layers to opts.OutputPath. An empty
// stack is not an error: it logs and produces no file. An ffmpeg failure
// is fatal and carries the captured encoder log.
func (r *FFmpeg) Render(ctx context.Context, layers []timeline.Layer, opts Options) error {
	if len(layers) == 0 {
		log.Printf("[!] Nothing to render: the timeline is empty")
		return nil
	}

	tempDir, err := os.MkdirTemp("", "story2video_render_")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	full := make([]timeline.Layer, 0, len(layers)+1)
	full = append(full, timeline.Layer{Kind: timeline.KindBackground, Duration: opts.Duration})
	full = append(full, layers...)

	overlays, err := writeOverlays(ctx, full, tempDir)
	if err != nil {
		return err
	}

	args := BuildArgs(full, overlays, opts)

	fmt.Printf("[*] Rendering %d layers, %.2fs -> %s\n", len(layers), opts.Duration, opts.OutputPath)
	started := time.Now()

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg render failed: %w\n%s", err, out)
	}

	if r.ShowStats {
		fmt.Printf("[+++] Render finished in %s\n", time.Since(started).Round(time.Millisecond))
	}
	return nil
}

// writeOverlays dumps every image-backed layer to a PNG in dir. The files
// are independent, so they are encoded in parallel.
func writeOverlays(ctx context.Context, layers []timeline.Layer, dir string) (map[int]string, error) {
	overlays := make(map[int]string)
	g, _ := errgroup.WithContext(ctx)

	for i, l := range layers {
		if l.Kind != timeline.KindSidebar || l.Image == nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("overlay_%03d.png", i))
		overlays[i] = path
		img := l.Image
		g.Go(func() error {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating overlay %s: %w", path, err)
			}
			if err := png.Encode(f, img); err != nil {
				f.Close()
				return fmt.Errorf("encoding overlay %s: %w", path, err)
			}
			return f.Close()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overlays, nil
}
