package gpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/starford/kenaz-distill/internal/llm"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func fakeServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32, *chatRequest) {
	t.Helper()
	var calls atomic.Int32
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls, &got
}

const okBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {"role": "assistant", "content": "Here is what I found in your notes: pie."}
  }]
}`

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient("", ""); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestComplete(t *testing.T) {
	srv, calls, got := fakeServer(t, http.StatusOK, okBody)
	c, err := NewClient("test-key", srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := c.Complete(context.Background(), llm.Request{
		Model:  "gpt-4o",
		System: "You are a helpful assistant.",
		Prompt: "what about pie?",
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "Here is what I found in your notes: pie." {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("finish reason = %q", resp.FinishReason)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
	if got.Model != "gpt-4o" {
		t.Errorf("model = %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Fatalf("messages = %+v", got.Messages)
	}
	if got.Messages[1].Content != "what about pie?" {
		t.Errorf("user content = %q", got.Messages[1].Content)
	}
}

func TestComplete_ServerErrorNotRetried(t *testing.T) {
	srv, calls, _ := fakeServer(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`)
	c, _ := NewClient("test-key", srv.URL)

	_, err := c.Complete(context.Background(), llm.Request{Model: "gpt-4o", Prompt: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want exactly 1", calls.Load())
	}
}

func TestComplete_NoChoices(t *testing.T) {
	srv, _, _ := fakeServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o","choices":[]}`)
	c, _ := NewClient("test-key", srv.URL)

	_, err := c.Complete(context.Background(), llm.Request{Model: "gpt-4o", Prompt: "x"})
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("err = %v, want no choices error", err)
	}
}

func TestComplete_RequiresModel(t *testing.T) {
	c, _ := NewClient("test-key", "http://127.0.0.1:1")
	if _, err := c.Complete(context.Background(), llm.Request{Prompt: "x"}); err == nil {
		t.Fatal("expected error for empty model")
	}
}
