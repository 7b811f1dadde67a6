package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendContent(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)
	require.NoError(t, client.SendContent(context.Background(), srv.URL, "**2026-08-26 | Tf2**"))

	assert.Equal(t, "**2026-08-26 | Tf2**", got["content"])
	assert.NotContains(t, got, "embeds")
}

func TestSendEmbedWireFormat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	embed := Embed{
		Title:       "Update 1.0.1",
		URL:         "https://example.com/posts/1",
		Description: "Fixed a bug",
		Color:       0x5865F2,
		Timestamp:   "2026-08-26T10:00:00Z",
		Footer:      &Footer{Text: "tf2"},
		Thumbnail:   &Thumbnail{URL: "https://example.com/icon.png"},
	}
	sender := Sender{Username: "Herald", AvatarURL: "https://example.com/avatar.png"}

	client := NewClient(5 * time.Second)
	require.NoError(t, client.SendEmbed(context.Background(), srv.URL, embed, sender))

	embeds, ok := got["embeds"].([]any)
	require.True(t, ok)
	require.Len(t, embeds, 1)
	first := embeds[0].(map[string]any)
	assert.Equal(t, "Update 1.0.1", first["title"])
	assert.Equal(t, float64(0x5865F2), first["color"])
	assert.Equal(t, map[string]any{"text": "tf2"}, first["footer"])
	assert.Equal(t, map[string]any{"url": "https://example.com/icon.png"}, first["thumbnail"])

	// Mention expansion is suppressed by default.
	mentions, ok := got["allowed_mentions"].(map[string]any)
	require.True(t, ok)
	parse, ok := mentions["parse"].([]any)
	require.True(t, ok)
	assert.Empty(t, parse)

	assert.Equal(t, "Herald", got["username"])
	assert.Equal(t, "https://example.com/avatar.png", got["avatar_url"])
}

func TestSendEmbedOmitsEmptySender(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)
	require.NoError(t, client.SendEmbed(context.Background(), srv.URL, Embed{Title: "x"}, Sender{}))

	assert.NotContains(t, got, "username")
	assert.NotContains(t, got, "avatar_url")
}

func TestNonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)
	err := client.SendContent(context.Background(), srv.URL, "hello")
	assert.Error(t, err)
}

func TestTransportFailureIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	client := NewClient(time.Second)
	err := client.SendContent(context.Background(), srv.URL, "hello")
	assert.Error(t, err)
}
