package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aidigest/internal/config"
)

func TestClientSummarize(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}

		var req struct {
			Model       string  `json:"model"`
			MaxTokens   int     `json:"max_tokens"`
			Temperature float64 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" {
			t.Errorf("model = %q", req.Model)
		}
		if req.MaxTokens != 200 {
			t.Errorf("max_tokens = %d", req.MaxTokens)
		}
		if req.Temperature != 0.3 {
			t.Errorf("temperature = %v", req.Temperature)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		if !strings.Contains(req.Messages[1].Content, "at most 100 words") {
			t.Errorf("user prompt missing word limit: %q", req.Messages[1].Content)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "  A tidy summary.  "}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(config.OpenAIConfig{Endpoint: srv.URL, Model: "gpt-4o-mini", APIKey: "test-key"})
	got, err := c.Summarize(context.Background(), "Title", "Body text", 100)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "A tidy summary." {
		t.Errorf("summary = %q", got)
	}
}

func TestClientSummarizeTruncatesContent(t *testing.T) {
	t.Parallel()

	var sentContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		sentContent = req.Messages[1].Content

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "ok"}}},
		})
	}))
	defer srv.Close()

	c := NewClient(config.OpenAIConfig{Endpoint: srv.URL, Model: "m", APIKey: "k"})
	long := strings.Repeat("x", 5000)
	if _, err := c.Summarize(context.Background(), "t", long, 100); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if strings.Contains(sentContent, strings.Repeat("x", 3001)) {
		t.Error("content was not truncated to 3000 chars")
	}
}

func TestClientSummarizeAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(config.OpenAIConfig{Endpoint: srv.URL, Model: "m", APIKey: "k"})
	if _, err := c.Summarize(context.Background(), "t", "c", 100); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestClientSummarizeMisconfigured(t *testing.T) {
	t.Parallel()

	c := NewClient(config.OpenAIConfig{Endpoint: "http://x", Model: "m"})
	if _, err := c.Summarize(context.Background(), "t", "c", 100); err == nil {
		t.Fatal("expected error when api key is missing")
	}
}
