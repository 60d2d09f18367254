// Package genvideo animates a scene poster into a short clip through the
// fal.ai queue API: submit the job, poll its status, download the result.
package genvideo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	defaultQueueBase = "https://queue.fal.run"
	defaultModel     = "fal-ai/vidu/q3/image-to-video"
)

var pollInterval = 3 * time.Second

// Client drives image-to-video generation. APIKey comes from the FAL_KEY
// environment variable.
type Client struct {
	APIKey    string
	Model     string
	QueueBase string
	HTTP      *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:    apiKey,
		Model:     defaultModel,
		QueueBase: defaultQueueBase,
		HTTP:      &http.Client{Timeout: 60 * time.Second},
	}
}

type submitResponse struct {
	RequestID   string `json:"request_id"`
	StatusURL   string `json:"status_url"`
	ResponseURL string `json:"response_url"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type resultResponse struct {
	Video struct {
		URL string `json:"url"`
	} `json:"video"`
}

// Generate turns a poster into a clip of roughly `seconds` seconds and
// writes it to outputPath.
func (c *Client) Generate(ctx context.Context, poster image.Image, prompt string, seconds int, outputPath string) error {
	if c.APIKey == "" {
		return fmt.Errorf("FAL_KEY is not set")
	}

	dataURI, err := imageDataURI(poster)
	if err != nil {
		return err
	}

	job, err := c.submit(ctx, dataURI, prompt, seconds)
	if err != nil {
		return err
	}

	if err := c.await(ctx, job); err != nil {
		return err
	}

	videoURL, err := c.result(ctx, job)
	if err != nil {
		return err
	}
	return c.download(ctx, videoURL, outputPath)
}

func (c *Client) submit(ctx context.Context, imageURI, prompt string, seconds int) (*submitResponse, error) {
	payload, err := json.Marshal(map[string]any{
		"image_url": imageURI,
		"prompt":    prompt,
		"duration":  seconds,
	})
	if err != nil {
		return nil, err
	}

	var job submitResponse
	url := fmt.Sprintf("%s/%s", c.QueueBase, c.Model)
	if err := c.do(ctx, http.MethodPost, url, payload, &job); err != nil {
		return nil, fmt.Errorf("submitting generation job: %w", err)
	}
	if job.StatusURL == "" || job.ResponseURL == "" {
		return nil, fmt.Errorf("queue response missing polling urls")
	}
	return &job, nil
}

func (c *Client) await(ctx context.Context, job *submitResponse) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		var st statusResponse
		if err := c.do(ctx, http.MethodGet, job.StatusURL, nil, &st); err != nil {
			return fmt.Errorf("polling job %s: %w", job.RequestID, err)
		}
		switch st.Status {
		case "COMPLETED":
			return nil
		case "FAILED":
			return fmt.Errorf("generation job %s failed", job.RequestID)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) result(ctx context.Context, job *submitResponse) (string, error) {
	var res resultResponse
	if err := c.do(ctx, http.MethodGet, job.ResponseURL, nil, &res); err != nil {
		return "", fmt.Errorf("fetching job %s result: %w", job.RequestID, err)
	}
	if res.Video.URL == "" {
		return "", fmt.Errorf("job %s finished without a video url", job.RequestID)
	}
	return res.Video.URL, nil
}

func (c *Client) download(ctx context.Context, url, outputPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("downloading clip: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading clip: %s", resp.Status)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("saving clip: %w", err)
	}
	return out.Close()
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, into any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Key "+c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	return json.NewDecoder(resp.Body).Decode(into)
}

func imageDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding poster: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
