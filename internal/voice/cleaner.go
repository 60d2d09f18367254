package voice

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"strings"
)

// DefaultGateThresholdDB mutes breath noise and room tone between phrases.
const DefaultGateThresholdDB = -35.0

// CleanNarration writes a copy of inPath with everything under the
// threshold gated out. The gate opens and releases fast enough that gaps
// shorter than ~50ms pass through untouched. Callers fall back to the raw
// narration when this fails.
func CleanNarration(ctx context.Context, inPath, outPath string, thresholdDB float64) error {
	threshold := math.Pow(10, thresholdDB/20)
	filter := fmt.Sprintf("agate=threshold=%.6f:ratio=9000:attack=10:release=50", threshold)

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", inPath,
		"-af", filter,
		"-c:a", "libmp3lame", "-q:a", "2",
		outPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("noise gate failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
