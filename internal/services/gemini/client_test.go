package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"meetnotes/internal/services"
)

func candidatePayload(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{
						map[string]any{"text": text},
					},
				},
			},
		},
	}
}

func TestGenerateContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "gemini-1.5-flash:generateContent") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Fatalf("expected api key in query, got %q", r.URL.RawQuery)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
			t.Fatalf("unexpected contents shape: %+v", req.Contents)
		}
		if !strings.Contains(req.Contents[0].Parts[0].Text, "ship Friday") {
			t.Fatalf("prompt not embedded: %q", req.Contents[0].Parts[0].Text)
		}
		if req.GenerationConfig.Temperature != 0.7 || req.GenerationConfig.TopK != 40 {
			t.Fatalf("unexpected generation config: %+v", req.GenerationConfig)
		}
		if err := json.NewEncoder(w).Encode(candidatePayload("Action items: ship Friday.")); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key"}, WithBaseURL(server.URL))
	summary, err := client.GenerateContent(context.Background(), BuildPrompt("Alice: Let's ship Friday.", "List action items"))
	if err != nil {
		t.Fatalf("GenerateContent returned error: %v", err)
	}
	if summary != "Action items: ship Friday." {
		t.Fatalf("unexpected summary: %q", summary)
	}
}

func TestGenerateContentPlaceholderOnUnexpectedShape(t *testing.T) {
	shapes := []any{
		map[string]any{},
		map[string]any{"candidates": []any{}},
		map[string]any{"candidates": []any{map[string]any{"content": map[string]any{}}}},
		map[string]any{"candidates": []any{map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": ""}}}}}},
	}
	for i, shape := range shapes {
		payload := shape
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := json.NewEncoder(w).Encode(payload); err != nil {
				t.Fatalf("encode response: %v", err)
			}
		}))
		client := NewClient(Config{APIKey: "test"}, WithBaseURL(server.URL))
		summary, err := client.GenerateContent(context.Background(), "prompt")
		server.Close()
		if err != nil {
			t.Fatalf("shape %d: unexpected error: %v", i, err)
		}
		if summary != PlaceholderSummary {
			t.Fatalf("shape %d: expected placeholder, got %q", i, summary)
		}
	}
}

func TestGenerateContentUpstreamStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "API key not valid"},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad"}, WithBaseURL(server.URL))
	_, err := client.GenerateContent(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected upstream error")
	}
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	detail := services.Detail(err)
	if !strings.Contains(detail, "Google API error: 403") || !strings.Contains(detail, "API key not valid") {
		t.Fatalf("unexpected detail: %q", detail)
	}
}

func TestGenerateContentUpstreamStatusErrorWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test"}, WithBaseURL(server.URL))
	_, err := client.GenerateContent(context.Background(), "prompt")
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if !strings.Contains(services.Detail(err), "upstream exploded") {
		t.Fatalf("expected body snippet in detail, got %q", services.Detail(err))
	}
}

func TestGenerateContentTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test"},
		WithBaseURL(server.URL),
		WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))
	_, err := client.GenerateContent(context.Background(), "prompt")
	if !errors.Is(err, services.ErrUpstreamTimeout) {
		t.Fatalf("expected ErrUpstreamTimeout, got %v", err)
	}
}

func TestGenerateContentUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(Config{APIKey: "test"}, WithBaseURL(server.URL))
	_, err := client.GenerateContent(context.Background(), "prompt")
	if !errors.Is(err, services.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestGenerateContentUnparseableSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test"}, WithBaseURL(server.URL))
	_, err := client.GenerateContent(context.Background(), "prompt")
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestGenerateContentRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestBuildPromptEmbedsInputsVerbatim(t *testing.T) {
	prompt := BuildPrompt("Alice: Let's ship Friday.", "List action items")
	if !strings.Contains(prompt, "Transcript:\nAlice: Let's ship Friday.") {
		t.Fatalf("transcript not embedded: %q", prompt)
	}
	if !strings.Contains(prompt, "Instruction:\nList action items") {
		t.Fatalf("instruction not embedded: %q", prompt)
	}
	if !strings.HasSuffix(prompt, "Please provide a well-structured summary based on the instruction above.") {
		t.Fatalf("missing framing suffix: %q", prompt)
	}
}
