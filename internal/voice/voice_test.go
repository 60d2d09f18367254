package voice

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnnotatePausesTitleAndBody(t *testing.T) {
	got := annotatePauses("Weekly Digest\nFirst sentence. Second sentence.")

	if !strings.Contains(got, `Weekly Digest <break time="1.0s" />`) {
		t.Errorf("title pause missing: %q", got)
	}
	if !strings.Contains(got, `First sentence. <break time="0.2s" /> Second`) {
		t.Errorf("sentence pause missing: %q", got)
	}
	if strings.HasSuffix(strings.TrimSpace(got), "/>") {
		t.Errorf("trailing break must be stripped: %q", got)
	}
}

func TestAnnotatePausesTitleOnly(t *testing.T) {
	if got := annotatePauses("Just a title"); got != "Just a title" {
		t.Errorf("title-only text should be untouched, got %q", got)
	}
}

func TestSynthesizeRequiresKey(t *testing.T) {
	c := NewClient("")
	err := c.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "out.mp3"))
	if err == nil {
		t.Fatal("expected an error without an API key")
	}
}

func TestSynthesize(t *testing.T) {
	var gotPath, gotKey string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	c := NewClient("secret")
	c.VoiceID = "test-voice"
	c.HTTP = srv.Client()

	out := filepath.Join(t.TempDir(), "narration.mp3")
	err := c.synthesizeAt(context.Background(), srv.URL, "Title\nBody one. Body two.", out)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if gotPath != "/test-voice" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("api key header = %q", gotKey)
	}
	body := string(gotBody)
	if !strings.Contains(body, "eleven_multilingual_v2") {
		t.Errorf("model missing from request: %s", body)
	}
	if !strings.Contains(body, `break time=`) {
		t.Errorf("pauses missing from request: %s", body)
	}

	data, err := os.ReadFile(out)
	if err != nil || string(data) != "mp3-bytes" {
		t.Errorf("narration not saved: %v %q", err, data)
	}
}

func TestSynthesizeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("secret")
	c.HTTP = srv.Client()

	out := filepath.Join(t.TempDir(), "narration.mp3")
	err := c.synthesizeAt(context.Background(), srv.URL, "text", out)
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected API error with body, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("failed synthesis must not leave a file behind")
	}
}
