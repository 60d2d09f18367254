package genvideo

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	old := pollInterval
	pollInterval = 10 * time.Millisecond
	defer func() { pollInterval = old }()

	var polls atomic.Int32
	var submitted map[string]any

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/fal-ai/test-model", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Key secret" {
			t.Errorf("auth header = %q", got)
		}
		json.NewDecoder(r.Body).Decode(&submitted)
		json.NewEncoder(w).Encode(map[string]string{
			"request_id":   "req-1",
			"status_url":   srv.URL + "/status",
			"response_url": srv.URL + "/result",
		})
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		status := "IN_PROGRESS"
		if polls.Add(1) >= 2 {
			status = "COMPLETED"
		}
		fmt.Fprintf(w, `{"status":%q}`, status)
	})
	mux.HandleFunc("/result", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"video":{"url":%q}}`, srv.URL+"/clip.mp4")
	})
	mux.HandleFunc("/clip.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("clip-bytes"))
	})

	c := NewClient("secret")
	c.Model = "fal-ai/test-model"
	c.QueueBase = srv.URL
	c.HTTP = srv.Client()

	out := filepath.Join(t.TempDir(), "clip.mp4")
	poster := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if err := c.Generate(context.Background(), poster, "slow pan", 6, out); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if data, err := os.ReadFile(out); err != nil || string(data) != "clip-bytes" {
		t.Errorf("clip not saved: %v %q", err, data)
	}
	if submitted["prompt"] != "slow pan" {
		t.Errorf("prompt = %v", submitted["prompt"])
	}
	if submitted["duration"] != float64(6) {
		t.Errorf("duration = %v", submitted["duration"])
	}
	uri, _ := submitted["image_url"].(string)
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("poster must be inlined as a data uri, got %.40s", uri)
	}
}

func TestGenerateFailedJob(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/fal-ai/test-model", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"request_id":   "req-2",
			"status_url":   srv.URL + "/status",
			"response_url": srv.URL + "/result",
		})
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"FAILED"}`))
	})

	c := NewClient("secret")
	c.Model = "fal-ai/test-model"
	c.QueueBase = srv.URL
	c.HTTP = srv.Client()

	err := c.Generate(context.Background(), image.NewNRGBA(image.Rect(0, 0, 2, 2)),
		"", 5, filepath.Join(t.TempDir(), "clip.mp4"))
	if err == nil || !strings.Contains(err.Error(), "failed") {
		t.Errorf("expected job failure, got %v", err)
	}
}

func TestGenerateRequiresKey(t *testing.T) {
	c := NewClient("")
	err := c.Generate(context.Background(), image.NewNRGBA(image.Rect(0, 0, 2, 2)), "", 5, "out.mp4")
	if err == nil {
		t.Fatal("expected an error without an API key")
	}
}
