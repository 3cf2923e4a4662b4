package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPExtractorExtract(t *testing.T) {
	t.Parallel()

	body := `<html><head><title>Page Title | Site</title></head><body>
		<h1 class="article__title">OpenAI ships a new model</h1>
		<div class="article-content">` + strings.Repeat("The model improves reasoning. ", 10) + `</div>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	e := NewHTTPExtractor(srv.Client())
	art, err := e.Extract(context.Background(), srv.URL+"/2025/01/10/openai-model/", "TechCrunch")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if art.Title != "OpenAI ships a new model" {
		t.Errorf("title = %q", art.Title)
	}
	if !strings.Contains(art.Content, "The model improves reasoning.") {
		t.Errorf("content missing body text: %q", art.Content)
	}
	if art.WordCount == 0 {
		t.Error("word count not set")
	}
	if len(art.Excerpt) == 0 || len(art.Excerpt) > 203 {
		t.Errorf("excerpt length = %d", len(art.Excerpt))
	}
	if art.Domain == "" {
		t.Error("domain not set")
	}
	if art.URLHash == "" {
		t.Error("url hash not set")
	}
}

func TestHTTPExtractorTitleFallsBackToPageTitle(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Only The Tab Title</title></head><body><p>short</p></body></html>`))
	}))
	defer srv.Close()

	e := NewHTTPExtractor(srv.Client())
	art, err := e.Extract(context.Background(), srv.URL+"/x/", "unknown source")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if art.Title != "Only The Tab Title" {
		t.Errorf("title = %q", art.Title)
	}
	if art.Content != "" {
		t.Errorf("content should be empty for short bodies, got %q", art.Content)
	}
}

func TestHTTPExtractorFailureReturnsSkeleton(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewHTTPExtractor(srv.Client())
	art, err := e.Extract(context.Background(), srv.URL+"/2025/01/10/big-ai-story/", "TechCrunch")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if art.Title != "Big Ai Story" {
		t.Errorf("fallback title = %q, want %q", art.Title, "Big Ai Story")
	}
	if art.URL == "" || art.URLHash == "" {
		t.Error("skeleton must keep url and hash")
	}
}

func TestFallbackTitleFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/2025/01/some-ai_update/", "Some Ai Update"},
		{"https://example.com/", "Article"},
		{"://bad", "Article"},
	}
	for _, tt := range tests {
		if got := fallbackTitleFromURL(tt.url); got != tt.want {
			t.Errorf("fallbackTitleFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
