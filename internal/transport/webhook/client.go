package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/samber/oops"
)

// Footer is the embed footer block.
type Footer struct {
	Text string `json:"text"`
}

// Thumbnail is the optional embed thumbnail block.
type Thumbnail struct {
	URL string `json:"url"`
}

// Embed is a structured notification in the sink's wire format.
type Embed struct {
	Title       string     `json:"title,omitempty"`
	URL         string     `json:"url,omitempty"`
	Description string     `json:"description,omitempty"`
	Color       int        `json:"color,omitempty"`
	Timestamp   string     `json:"timestamp,omitempty"`
	Footer      *Footer    `json:"footer,omitempty"`
	Thumbnail   *Thumbnail `json:"thumbnail,omitempty"`
}

// Sender optionally overrides the sink-side display identity.
type Sender struct {
	Username  string
	AvatarURL string
}

type allowedMentions struct {
	Parse []string `json:"parse"`
}

type payload struct {
	Content         string           `json:"content,omitempty"`
	Embeds          []Embed          `json:"embeds,omitempty"`
	AllowedMentions *allowedMentions `json:"allowed_mentions,omitempty"`
	Username        string           `json:"username,omitempty"`
	AvatarURL       string           `json:"avatar_url,omitempty"`
}

// Sink delivers formatted messages to a webhook endpoint. Expected
// failures (non-success status, transport errors) come back as errors,
// never panics.
type Sink interface {
	SendContent(ctx context.Context, url, content string) error
	SendEmbed(ctx context.Context, url string, embed Embed, sender Sender) error
}

// Client posts JSON payloads to webhook URLs
type Client struct {
	client *http.Client
}

// NewClient creates a webhook client with a bounded per-request timeout
func NewClient(timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{Timeout: timeout},
	}
}

// SendContent posts a plain text message (used for day headers).
func (c *Client) SendContent(ctx context.Context, url, content string) error {
	return c.post(ctx, url, payload{Content: content})
}

// SendEmbed posts a structured notification. Broad mention expansion is
// always suppressed via allowed_mentions.
func (c *Client) SendEmbed(ctx context.Context, url string, embed Embed, sender Sender) error {
	return c.post(ctx, url, payload{
		Embeds:          []Embed{embed},
		AllowedMentions: &allowedMentions{Parse: []string{}},
		Username:        sender.Username,
		AvatarURL:       sender.AvatarURL,
	})
}

func (c *Client) post(ctx context.Context, url string, p payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return oops.With("context", "failed to marshal webhook payload").Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return oops.With("context", "failed to build webhook request").Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return oops.With("context", "webhook request failed").Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		// Read a little of the body for diagnostics.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return oops.With("status", resp.StatusCode, "body", string(snippet)).
			Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}
