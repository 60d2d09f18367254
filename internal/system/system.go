package system

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits raises the open-file limit; a long story renders with
// one ffmpeg input per layer plus temp overlays.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Could not read the open file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Could not raise the open file limit: %v", err)
	} else {
		fmt.Printf("[*] Open file limit raised to %d\n", rLimit.Cur)
	}
}

// DefaultWorkers picks a worker count for the generation stage: one per
// logical core, capped so API-bound work does not trip rate limits.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		n = 2
	}
	if n > 8 {
		n = 8
	}
	return n
}

// LogResources prints the pre-render resource report.
func LogResources() {
	cores, err := cpu.Counts(true)
	if err != nil {
		cores = 0
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		fmt.Printf("[*] System: %d logical cores\n", cores)
		return
	}
	fmt.Printf("[*] System: %d logical cores, %.1f GB free of %.1f GB\n",
		cores, float64(vm.Available)/1e9, float64(vm.Total)/1e9)
}

// FindLatestStory returns the most recently modified story file in dir.
func FindLatestStory(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	extensions := []string{".yaml", ".yml", ".json"}
	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := strings.ToLower(f.Name())
		matched := false
		for _, ext := range extensions {
			if strings.HasSuffix(name, ext) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no story files found in %s", dir)
	}
	return latestFile, nil
}

// MediaDuration asks ffprobe for the container duration in seconds.
func MediaDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(string(out)))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration of %s: %w", path, err)
	}
	return duration, nil
}

// MediaDimensions returns the first video stream's width and height.
func MediaDimensions(ctx context.Context, path string) (int, int, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(string(out)))
	}

	parts := strings.Split(strings.TrimSpace(string(out)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected ffprobe output for %s: %q", path, out)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// HasAudioStream reports whether the file carries at least one audio stream.
func HasAudioStream(ctx context.Context, path string) (bool, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=index",
		"-of", "csv=p=0", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return false, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// FFProber is the ffprobe-backed media prober used outside of tests.
type FFProber struct{}

func (FFProber) Duration(ctx context.Context, path string) (float64, error) {
	return MediaDuration(ctx, path)
}

func (FFProber) Dimensions(ctx context.Context, path string) (int, int, error) {
	return MediaDimensions(ctx, path)
}

func (FFProber) HasAudio(ctx context.Context, path string) (bool, error) {
	return HasAudioStream(ctx, path)
}

// GetBestH264Encoder probes the local ffmpeg build for hardware H.264
// encoders, preferring VideoToolbox and NVENC over software libx264.
func GetBestH264Encoder() string {
	cmd := exec.Command("ffmpeg", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "libx264"
	}

	for _, enc := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), enc) {
			return enc
		}
	}
	return "libx264"
}

// EncoderQualityArgs maps the 0..100 quality knob onto each encoder's own
// scale.
func EncoderQualityArgs(encoder string, quality int) []string {
	if quality < 0 {
		quality = 0
	} else if quality > 100 {
		quality = 100
	}

	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox has no CRF; approximate with bitrate.
		bitrate := 2 + quality/10 // 2..12 Mbit/s
		return []string{"-b:v", fmt.Sprintf("%dM", bitrate)}
	case "h264_nvenc":
		cq := 51 - quality/2 // 51 (worst) .. 1 (best)
		return []string{"-cq", strconv.Itoa(cq)}
	default:
		crf := 35 - quality/4 // 35 .. 10
		return []string{"-crf", strconv.Itoa(crf), "-preset", "medium"}
	}
}
