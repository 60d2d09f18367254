// Package voice turns scene text into narration via the ElevenLabs API.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	apiBase        = "https://api.elevenlabs.io/v1/text-to-speech"
	defaultVoiceID = "b8jhBTcGAq4kQGWmKprT"
	defaultModel   = "eleven_multilingual_v2"

	titlePause    = 1.0
	sentencePause = 0.2
)

// Client is an ElevenLabs text-to-speech client. APIKey comes from the
// ELEVENLABS_API_KEY environment variable.
type Client struct {
	APIKey  string
	VoiceID string
	HTTP    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		VoiceID: defaultVoiceID,
		HTTP:    &http.Client{Timeout: 120 * time.Second},
	}
}

type synthesisRequest struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	VoiceSettings map[string]any `json:"voice_settings"`
}

// Synthesize speaks text into an MP3 at outputPath. The first line of the
// text is treated as the scene title and gets a long pause after it;
// sentence ends get short ones.
func (c *Client) Synthesize(ctx context.Context, text, outputPath string) error {
	return c.synthesizeAt(ctx, apiBase, text, outputPath)
}

func (c *Client) synthesizeAt(ctx context.Context, base, text, outputPath string) error {
	if c.APIKey == "" {
		return fmt.Errorf("ELEVENLABS_API_KEY is not set")
	}

	body, err := json.Marshal(synthesisRequest{
		Text:    annotatePauses(text),
		ModelID: defaultModel,
		VoiceSettings: map[string]any{
			"stability":        0.3,
			"similarity_boost": 0.75,
		},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s", base, c.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("elevenlabs returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("saving narration: %w", err)
	}
	return out.Close()
}

// annotatePauses inserts SSML breaks: a long one after the title line and
// a short one after every sentence, with no trailing break at the end.
func annotatePauses(text string) string {
	title, rest, hasBody := strings.Cut(strings.TrimSpace(text), "\n")

	var b strings.Builder
	b.WriteString(breakAfterSentences(title))
	if hasBody {
		fmt.Fprintf(&b, ` <break time="%.1fs" /> `, titlePause)
		b.WriteString(breakAfterSentences(strings.TrimSpace(rest)))
	}
	return strings.TrimSuffix(b.String(), sentenceBreak())
}

func breakAfterSentences(s string) string {
	return strings.ReplaceAll(s, ". ", "."+sentenceBreak())
}

func sentenceBreak() string {
	return fmt.Sprintf(` <break time="%.1fs" /> `, sentencePause)
}
