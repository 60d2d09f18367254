package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ivlev/story2video/internal/timeline"
)

// Options are the output-side render settings.
type Options struct {
	Width      int
	Height     int
	FPS        int
	Duration   float64
	OutputPath string
	Encoder    string
	Quality    []string
}

// BuildArgs translates a layer stack into one complete ffmpeg invocation.
// layers[0] must be the background; overlays maps the index of each
// image-backed layer to the PNG written for it. Every layer becomes an
// input plus a filter chain, composed bottom-up in append order so the
// stack order is the z-order.
func BuildArgs(layers []timeline.Layer, overlays map[int]string, opts Options) []string {
	b := &graphBuilder{opts: opts, args: []string{"-y"}}

	for i, l := range layers {
		switch l.Kind {
		case timeline.KindBackground:
			b.addBackground(l)
		case timeline.KindFreezeFrame:
			b.addFreezeFrame(i, l)
		case timeline.KindVideo:
			b.addVideo(i, l)
		case timeline.KindSidebar:
			b.addImage(i, l, overlays[i])
		}
	}

	b.finish()
	return b.args
}

type graphBuilder struct {
	opts   Options
	args   []string
	chains []string
	audio  []string

	inputs int
	steps  int
	base   string
}

func (b *graphBuilder) addInput(perInput ...string) int {
	b.args = append(b.args, perInput...)
	idx := b.inputs
	b.inputs++
	return idx
}

func (b *graphBuilder) addBackground(l timeline.Layer) {
	idx := b.addInput("-f", "lavfi", "-t", sec(l.Duration), "-i",
		fmt.Sprintf("color=c=black:s=%dx%d:r=%d", b.opts.Width, b.opts.Height, b.opts.FPS))
	b.base = fmt.Sprintf("[%d:v]", idx)
}

// addFreezeFrame derives the intro still in-graph: take the clip's first
// frame, clone it for the intro duration, fade the alpha in and shift the
// timestamps to the layer's slot.
func (b *graphBuilder) addFreezeFrame(li int, l timeline.Layer) {
	idx := b.addInput("-i", l.Source)
	label := fmt.Sprintf("[f%d]", li)

	var chain strings.Builder
	fmt.Fprintf(&chain, "[%d:v]trim=end_frame=1", idx)
	if f := l.Crop.Filter(); f != "" {
		chain.WriteString("," + f)
	}
	fmt.Fprintf(&chain, ",tpad=stop_mode=clone:stop_duration=%s", sec(l.Duration))
	fmt.Fprintf(&chain, ",format=rgba,fade=t=in:st=0:d=%s:alpha=1", sec(l.FadeIn))
	fmt.Fprintf(&chain, ",setpts=PTS-STARTPTS+%s/TB%s", sec(l.Start), label)

	b.chains = append(b.chains, chain.String())
	b.overlayStep(label, l)
}

func (b *graphBuilder) addVideo(li int, l timeline.Layer) {
	perInput := []string{}
	if l.LoopCount > 0 {
		perInput = append(perInput, "-stream_loop", strconv.Itoa(l.LoopCount))
	}
	perInput = append(perInput, "-i", l.Source)
	idx := b.addInput(perInput...)
	label := fmt.Sprintf("[v%d]", li)

	var chain strings.Builder
	fmt.Fprintf(&chain, "[%d:v]", idx)
	if f := l.Crop.Filter(); f != "" {
		chain.WriteString(f + ",")
	}
	if l.LoopCount > 0 {
		// Whole looped copies run long; trim to the narration exactly.
		fmt.Fprintf(&chain, "trim=duration=%s,", sec(l.Duration))
	}
	fmt.Fprintf(&chain, "setpts=PTS-STARTPTS+%s/TB%s", sec(l.Start), label)

	b.chains = append(b.chains, chain.String())
	b.overlayStep(label, l)

	switch {
	case l.Audio != "":
		aIdx := b.addInput("-i", l.Audio)
		b.addAudioChain(fmt.Sprintf("[%d:a]", aIdx), l, false)
	case l.UseEmbeddedAudio:
		b.addAudioChain(fmt.Sprintf("[%d:a]", idx), l, true)
	}
}

func (b *graphBuilder) addImage(li int, l timeline.Layer, path string) {
	if path == "" {
		return
	}
	idx := b.addInput("-loop", "1", "-t", sec(l.Duration), "-i", path)
	label := fmt.Sprintf("[s%d]", li)

	chain := fmt.Sprintf("[%d:v]format=rgba,fade=t=in:st=0:d=%s:alpha=1,setpts=PTS-STARTPTS+%s/TB%s",
		idx, sec(l.FadeIn), sec(l.Start), label)
	b.chains = append(b.chains, chain)
	b.overlayStep(label, l)
}

// overlayStep stacks the prepared layer onto the running composite. The
// enable window hides the layer outside its slot; eof_action=pass hands
// frames through once the layer's input runs dry.
func (b *graphBuilder) overlayStep(label string, l timeline.Layer) {
	x := fmt.Sprintf("%.0f", l.X)
	y := fmt.Sprintf("%.0f", l.Y)
	if l.Slide != nil {
		x = "'" + l.Slide.ExprX(l.Start) + "'"
		y = "'" + l.Slide.ExprY(l.Start) + "'"
	}

	out := fmt.Sprintf("[ov%d]", b.steps)
	b.steps++
	b.chains = append(b.chains, fmt.Sprintf(
		"%s%soverlay=x=%s:y=%s:eof_action=pass:enable='between(t\\,%s\\,%s)'%s",
		b.base, label, x, y, sec(l.Start), sec(l.End()), out))
	b.base = out
}

func (b *graphBuilder) addAudioChain(src string, l timeline.Layer, trim bool) {
	label := fmt.Sprintf("[a%d]", len(b.audio))
	var chain strings.Builder
	chain.WriteString(src)
	if trim {
		fmt.Fprintf(&chain, "atrim=duration=%s,asetpts=PTS-STARTPTS,", sec(l.Duration))
	}
	fmt.Fprintf(&chain, "adelay=%d:all=1%s", int(l.Start*1000), label)
	b.chains = append(b.chains, chain.String())
	b.audio = append(b.audio, label)
}

func (b *graphBuilder) finish() {
	audioOut := ""
	switch len(b.audio) {
	case 0:
	case 1:
		audioOut = b.audio[0]
	default:
		mix := strings.Join(b.audio, "") + fmt.Sprintf(
			"amix=inputs=%d:duration=longest:dropout_transition=0:normalize=0[aout]", len(b.audio))
		b.chains = append(b.chains, mix)
		audioOut = "[aout]"
	}

	b.args = append(b.args, "-filter_complex", strings.Join(b.chains, ";"))
	b.args = append(b.args, "-map", b.base)
	if audioOut != "" {
		b.args = append(b.args, "-map", audioOut, "-c:a", "aac", "-b:a", "192k")
	}
	b.args = append(b.args,
		"-t", sec(b.opts.Duration),
		"-r", strconv.Itoa(b.opts.FPS),
		"-c:v", b.opts.Encoder)
	b.args = append(b.args, b.opts.Quality...)
	b.args = append(b.args, "-pix_fmt", "yuv420p", "-movflags", "+faststart", b.opts.OutputPath)
}

func sec(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
