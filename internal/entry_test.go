package internal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/kenaz-distill/internal/apperr"
	"github.com/starford/kenaz-distill/internal/distiller"
	"github.com/starford/kenaz-distill/internal/llm"
	"github.com/starford/kenaz-distill/internal/noteservice"
	"github.com/starford/kenaz-distill/internal/testutil"
	"github.com/starford/kenaz-distill/internal/vault"
)

type stubProvider struct {
	prompts []string
}

func (p *stubProvider) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	p.prompts = append(p.prompts, req.Prompt)
	return &llm.Response{Content: "Here is what I found in your notes: apples."}, nil
}

func testConfig(vaultPath string) *Config {
	cfg := NewDefaultConfig()
	cfg.Vault.Path = vaultPath
	return cfg
}

func runAsk(t *testing.T, cfg *Config, query string, p llm.Provider) (string, error) {
	t.Helper()
	var out bytes.Buffer
	opts := []Option{WithConfig(cfg), WithOutput(&out), WithLogOutput(io.Discard)}
	if p != nil {
		opts = append(opts, WithProvider(p))
	}
	err := Ask(context.Background(), query, opts...)
	return out.String(), err
}

func TestAsk(t *testing.T) {
	dir := testutil.WriteVault(t, map[string]string{
		"a.md":        "apple pie",
		"nested/b.md": "banana split",
	})
	p := &stubProvider{}

	out, err := runAsk(t, testConfig(dir), "apple", p)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	for _, want := range []string{
		"Loaded 2 notes.",
		"Found 1 relevant notes.",
		"a (" + filepath.Join(dir, "a.md") + ")",
		"Here is what I found in your notes: apples.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if len(p.prompts) != 1 || strings.Contains(p.prompts[0], "banana split") {
		t.Errorf("prompts = %q", p.prompts)
	}
}

func TestAsk_NoResults(t *testing.T) {
	dir := testutil.WriteVault(t, map[string]string{"a.md": "apple pie"})
	p := &stubProvider{}

	out, err := runAsk(t, testConfig(dir), "cherry", p)
	if err != nil {
		t.Fatalf("no results should not be an error: %v", err)
	}
	if !strings.Contains(out, "No relevant notes found. Try a different keyword.") {
		t.Errorf("output = %q", out)
	}
	if len(p.prompts) != 0 {
		t.Error("provider should not be called without matches")
	}
}

func TestAsk_MissingVault(t *testing.T) {
	_, err := runAsk(t, testConfig(filepath.Join(t.TempDir(), "missing")), "apple", nil)
	if !errors.Is(err, apperr.ErrPathNotFound) {
		t.Fatalf("err = %v, want ErrPathNotFound", err)
	}
}

func TestAsk_NoCredential(t *testing.T) {
	dir := testutil.WriteVault(t, map[string]string{"a.md": "apple pie"})
	out, err := runAsk(t, testConfig(dir), "apple", nil)
	if err != nil {
		t.Fatalf("missing key must not be fatal: %v", err)
	}
	if !strings.Contains(out, distiller.NoProviderMessage) {
		t.Errorf("output = %q", out)
	}
}

func TestAsk_RequiresConfig(t *testing.T) {
	if err := Ask(context.Background(), "x"); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestHTTPHandler(t *testing.T) {
	dir := testutil.WriteVault(t, map[string]string{"a.md": "apple pie"})
	repo, err := vault.Open(dir, testutil.Logger())
	if err != nil {
		t.Fatal(err)
	}
	d := distiller.New(distiller.Config{Model: DefaultModel}, distiller.WithLogger(testutil.Logger()))
	cfg := testConfig(dir)
	cfg.Auth = AuthConfig{Mode: AuthModeToken, Token: "secret"}
	h := newHTTPHandler(noteservice.NewService(repo, d), cfg)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health = %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search?q=apple", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated search = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=apple", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "a.md") {
		t.Errorf("search = %d %s", w.Code, w.Body.String())
	}
}
