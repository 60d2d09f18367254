package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatestStory(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.yaml")
	fresh := filepath.Join(dir, "fresh.json")
	ignored := filepath.Join(dir, "notes.txt")

	for _, p := range []string{old, fresh, ignored} {
		if err := os.WriteFile(p, []byte("scenes: []"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := FindLatestStory(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != fresh {
		t.Errorf("FindLatestStory = %q, want %q", got, fresh)
	}
}

func TestFindLatestStoryEmptyDir(t *testing.T) {
	if _, err := FindLatestStory(t.TempDir()); err == nil {
		t.Error("expected error for a directory without story files")
	}
}

func TestEncoderQualityArgs(t *testing.T) {
	cases := []struct {
		encoder string
		quality int
		want    string
	}{
		{"h264_videotoolbox", 80, "-b:v"},
		{"h264_nvenc", 80, "-cq"},
		{"libx264", 80, "-crf"},
	}
	for _, c := range cases {
		args := EncoderQualityArgs(c.encoder, c.quality)
		if len(args) < 2 || args[0] != c.want {
			t.Errorf("%s: args = %v, want leading %q", c.encoder, args, c.want)
		}
	}

	// Out-of-range values clamp instead of producing nonsense.
	args := EncoderQualityArgs("libx264", 500)
	if args[1] != "10" {
		t.Errorf("clamped crf = %v, want 10", args[1])
	}
}

func TestDefaultWorkers(t *testing.T) {
	n := DefaultWorkers()
	if n < 1 || n > 8 {
		t.Errorf("DefaultWorkers = %d, want 1..8", n)
	}
}
