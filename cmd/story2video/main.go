package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/story2video/internal/config"
	"github.com/ivlev/story2video/internal/endcard"
	"github.com/ivlev/story2video/internal/genvideo"
	"github.com/ivlev/story2video/internal/notify"
	"github.com/ivlev/story2video/internal/poster"
	"github.com/ivlev/story2video/internal/render"
	"github.com/ivlev/story2video/internal/system"
	"github.com/ivlev/story2video/internal/timeline"
	"github.com/ivlev/story2video/internal/voice"
)

func main() {
	system.InitResourceLimits()
	godotenv.Load()

	dirs := []string{"input/stories", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	storyPtr := flag.String("story", "", "Story file (default: the freshest .yaml/.json in input/stories/)")
	outputPtr := flag.String("output", "", "Output video path (default: from the story, or auto-generated in output/)")
	widthPtr := flag.Int("width", 1080, "Canvas width")
	heightPtr := flag.Int("height", 1920, "Canvas height")
	fpsPtr := flag.Int("fps", 24, "Frames per second")
	workersPtr := flag.Int("workers", system.DefaultWorkers(), "Parallel generation jobs")
	effectsPtr := flag.Float64("effects", 0.5, "Scene intro duration in seconds")
	dpiPtr := flag.Int("dpi", 300, "Render DPI for PDF posters")
	presetPtr := flag.String("preset", "", "Canvas preset: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	qualityPtr := flag.Int("quality", 80, "Video quality, 0-100")
	endCardPtr := flag.Float64("end-card", 4, "End card duration in seconds, 0 disables it")
	notifyPtr := flag.String("notify", os.Getenv("NOTIFY_EMAIL"), "Email address for start/finish notifications")
	statsPtr := flag.Bool("stats", false, "Print timing stats")

	flag.Parse()

	action := flag.Arg(0)
	if action == "" {
		action = "all"
	}
	switch action {
	case "generate", "edit", "all":
	default:
		log.Fatalf("[-] Unknown action %q: want generate, edit or all", action)
	}

	width, height := *widthPtr, *heightPtr
	switch *presetPtr {
	case "16:9":
		width, height = 1920, 1080
	case "9:16":
		width, height = 1080, 1920
	case "4:5":
		width, height = 1080, 1350
	}

	storyPath := *storyPtr
	if flag.NArg() > 1 {
		storyPath = flag.Arg(1)
	}
	if storyPath == "" {
		latest, err := system.FindLatestStory("input/stories")
		if err != nil {
			log.Fatalf("[-] %v. Put a story file into input/stories/", err)
		}
		storyPath = latest
		fmt.Printf("[*] Using story: %s\n", storyPath)
	}

	story, err := config.LoadStory(storyPath)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	if len(story.Resolution) == 2 && story.Resolution[0] > 0 && story.Resolution[1] > 0 {
		width, height = story.Resolution[0], story.Resolution[1]
	}

	finalOutput := *outputPtr
	if finalOutput == "" {
		if story.FinalFilename != "" {
			finalOutput = filepath.Join("output", story.FinalFilename)
		} else {
			stem := strings.TrimSuffix(filepath.Base(storyPath), filepath.Ext(storyPath))
			timestamp := time.Now().Format("2006-01-02_15-04-05")
			finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", stem, timestamp))
		}
	}

	encoderName := system.GetBestH264Encoder()
	if encoderName != "libx264" {
		fmt.Printf("[*] Hardware encoder available: %s\n", encoderName)
	}

	cfg := &config.Config{
		StoryPath:       storyPath,
		OutputVideo:     finalOutput,
		Width:           width,
		Height:          height,
		FPS:             *fpsPtr,
		Workers:         *workersPtr,
		EffectsDuration: *effectsPtr,
		DPI:             *dpiPtr,
		Preset:          *presetPtr,
		VideoEncoder:    encoderName,
		Quality:         *qualityPtr,
		EndCardLink:     story.EndCardLink,
		EndCardDuration: *endCardPtr,
		NotifyEmail:     *notifyPtr,
		ShowStats:       *statsPtr,
	}

	ctx := context.Background()

	if action == "generate" || action == "all" {
		if err := runGenerate(ctx, cfg, story); err != nil {
			log.Fatalf("[-] Generation failed: %v", err)
		}
	}
	if action == "edit" || action == "all" {
		if err := runEdit(ctx, cfg, story); err != nil {
			log.Fatalf("[-] Assembly failed: %v", err)
		}
		fmt.Printf("[+++] Done: %s\n", cfg.OutputVideo)
	}
}

// runGenerate fills in the per-scene assets that are still missing:
// narration from the scene text, a clip animated from the poster. Scenes
// are independent, so they run in parallel; a failed scene is logged and
// the rest keep going.
func runGenerate(ctx context.Context, cfg *config.Config, story *config.Story) error {
	speech := voice.NewClient(os.Getenv("ELEVENLABS_API_KEY"))
	clips := genvideo.NewClient(os.Getenv("FAL_KEY"))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i := range story.Scenes {
		sc := &story.Scenes[i]
		n := i + 1
		if sc.Poster == "" {
			log.Printf("[!] Scene %d has no poster, nothing to generate", n)
			continue
		}
		g.Go(func() error {
			generateScene(ctx, cfg, speech, clips, sc, n)
			return nil
		})
	}
	return g.Wait()
}

func generateScene(ctx context.Context, cfg *config.Config, speech *voice.Client, clips *genvideo.Client, sc *config.Scene, n int) {
	audioPath := sc.AudioPath()
	if text := sc.NarrationText(); text != "" && !fileExists(audioPath) {
		raw := audioPath + ".raw.mp3"
		if err := speech.Synthesize(ctx, text, raw); err != nil {
			log.Printf("[!] Scene %d: narration failed, scene stays silent: %v", n, err)
		} else {
			if err := voice.CleanNarration(ctx, raw, audioPath, voice.DefaultGateThresholdDB); err != nil {
				log.Printf("[!] Scene %d: noise gate failed, keeping raw narration: %v", n, err)
				os.Rename(raw, audioPath)
			} else {
				os.Remove(raw)
			}
			fmt.Printf("[>] Scene %d: narration ready: %s\n", n, audioPath)
		}
	}

	videoPath := sc.VideoPath()
	if fileExists(videoPath) {
		return
	}

	img, err := poster.Load(sc.Poster, cfg.DPI)
	if err != nil {
		log.Printf("[!] Scene %d: poster unreadable, clip not generated: %v", n, err)
		return
	}

	// The clip should run a hair longer than its narration so the cut
	// never lands mid-word.
	seconds := 5
	if fileExists(audioPath) {
		if dur, err := system.MediaDuration(ctx, audioPath); err == nil {
			seconds = int(dur) + 1
		}
	}

	if err := clips.Generate(ctx, img, sc.VideoPrompt, seconds, videoPath); err != nil {
		log.Printf("[!] Scene %d: clip generation failed: %v", n, err)
		return
	}
	fmt.Printf("[>] Scene %d: clip ready: %s\n", n, videoPath)
}

// runEdit sequences the story scene by scene and renders the movie in one
// ffmpeg pass. Sequencing is strictly sequential: every scene's slot
// depends on where the previous one left the cursor.
func runEdit(ctx context.Context, cfg *config.Config, story *config.Story) error {
	mailer := notify.FromEnv()
	sendMail(mailer, cfg.NotifyEmail, "Render started",
		fmt.Sprintf("Assembling %d scenes from %s.", len(story.Scenes), cfg.StoryPath))

	seq := timeline.NewStorySequencer(cfg.Width, cfg.Height, system.FFProber{})
	for _, sc := range story.Scenes {
		ed := cfg.EffectsDuration
		if sc.EffectsDuration != nil {
			ed = *sc.EffectsDuration
		}

		audio := sc.AudioPath()
		if !fileExists(audio) {
			audio = ""
		}

		seq.AddScene(ctx, timeline.Scene{
			Video:           sc.VideoPath(),
			Audio:           audio,
			Title:           sc.Title,
			Caption:         sc.Caption,
			Direction:       config.ParseDirection(sc.TextDirection),
			EffectsDuration: ed,
		})
	}

	if seq.SceneCount() == 0 {
		return fmt.Errorf("no scene could be placed on the timeline")
	}

	if cfg.EndCardLink != "" && cfg.EndCardDuration > 0 {
		size := min(cfg.Width, cfg.Height) / 5
		card, err := endcard.Build(cfg.EndCardLink, size)
		if err != nil {
			log.Printf("[!] End card skipped: %v", err)
		} else {
			seq.AddEndCard(card, cfg.EndCardDuration)
		}
	}

	system.LogResources()

	renderer := &render.FFmpeg{ShowStats: cfg.ShowStats}
	opts := render.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		FPS:        cfg.FPS,
		Duration:   seq.Duration(),
		OutputPath: cfg.OutputVideo,
		Encoder:    cfg.VideoEncoder,
		Quality:    system.EncoderQualityArgs(cfg.VideoEncoder, cfg.Quality),
	}
	started := time.Now()
	if err := renderer.Render(ctx, seq.Layers(), opts); err != nil {
		sendMail(mailer, cfg.NotifyEmail, "Render failed", err.Error())
		return err
	}

	sendMail(mailer, cfg.NotifyEmail, "Render finished",
		fmt.Sprintf("%s is ready: %d scenes, %.2fs, rendered in %s.",
			cfg.OutputVideo, seq.SceneCount(), seq.Duration(), time.Since(started).Round(time.Second)))
	return nil
}

func sendMail(mailer *notify.Mailer, to, subject, body string) {
	if mailer == nil || to == "" {
		return
	}
	if err := mailer.Send(to, subject, body); err != nil {
		log.Printf("[!] Notification not sent: %v", err)
	}
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
