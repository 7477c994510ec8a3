package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vinayprograms/resumerag/errors"
	"github.com/vinayprograms/resumerag/ratelimit"
)

func TestStatic_RegisteredAndDerived(t *testing.T) {
	p := NewStatic(4).Set("hello world", []float32{1, 0})

	vecs, err := p.Embed(context.Background(), []string{"hello world", "other"})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(vecs))
	}
	if len(vecs[0]) != 2 || vecs[0][0] != 1 || vecs[0][1] != 0 {
		t.Errorf("registered vector = %v", vecs[0])
	}
	if len(vecs[1]) != 4 {
		t.Errorf("derived vector should have dimension 4, got %d", len(vecs[1]))
	}

	// derived vectors are deterministic
	again, _ := p.Embed(context.Background(), []string{"other"})
	for i := range again[0] {
		if again[0][i] != vecs[1][i] {
			t.Fatal("static embedder should be deterministic")
		}
	}
	if p.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", p.Calls())
	}
}

func TestStatic_Fail(t *testing.T) {
	p := NewStatic(2).Fail("boom", errors.Unavailable("provider down"))

	if _, err := p.Embed(context.Background(), []string{"boom"}); !errors.Is(err, errors.ErrCodeUnavailable) {
		t.Errorf("expected UNAVAILABLE, got %v", err)
	}
	if _, err := p.Embed(context.Background(), []string{"fine"}); err != nil {
		t.Errorf("other texts should still embed: %v", err)
	}
}

func TestEmbedOne(t *testing.T) {
	p := NewStatic(3).Set("x", []float32{1, 2, 3})
	vec, err := EmbedOne(context.Background(), p, "x")
	if err != nil {
		t.Fatalf("EmbedOne: %v", err)
	}
	if len(vec) != 3 || vec[2] != 3 {
		t.Errorf("vec = %v", vec)
	}

	empty := NewStatic(3).Set("nothing", []float32{})
	if _, err := EmbedOne(context.Background(), empty, "nothing"); !errors.Is(err, errors.ErrCodeEmbedding) {
		t.Errorf("empty vector should be EMBEDDING_FAILED, got %v", err)
	}
}

func TestEmbedOne_NonFinite(t *testing.T) {
	p := NewStatic(2).
		Set("nan", []float32{float32(math.NaN()), 0}).
		Set("inf", []float32{1, float32(math.Inf(-1))})

	for _, text := range []string{"nan", "inf"} {
		_, err := EmbedOne(context.Background(), p, text)
		if !errors.Is(err, errors.ErrCodeEmbedding) {
			t.Errorf("%s: got %v, want EMBEDDING_FAILED", text, err)
		}
	}
}

func TestNameOf(t *testing.T) {
	if NameOf(NewStatic(1)) != "static" {
		t.Error("static provider should be named static")
	}
	if NameOf(NewOllama(OllamaConfig{})) != "ollama" {
		t.Error("ollama provider should be named ollama")
	}
}

func TestLimited_ThrottlesAndReduces(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter()
	defer limiter.Close()
	limiter.SetCapacity("static", 4, time.Hour)

	inner := NewStatic(2).Fail("quota", errors.RateLimited("429 from provider"))
	p := NewLimited(inner, limiter)

	if _, err := p.Embed(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := p.Embed(context.Background(), []string{"quota"}); !errors.Is(err, errors.ErrCodeRateLimit) {
		t.Fatalf("expected RATE_LIMITED, got %v", err)
	}
	if got := limiter.GetCapacity("static").Total; got != 3 {
		t.Errorf("capacity after 429 = %d, want 3", got)
	}
	if p.Dimension() != 2 {
		t.Errorf("Dimension() = %d", p.Dimension())
	}
}

func TestLimited_ContextExpires(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter()
	defer limiter.Close()
	limiter.SetCapacity("static", 1, time.Hour)

	p := NewLimited(NewStatic(2), limiter)
	p.Embed(context.Background(), []string{"a"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Embed(ctx, []string{"b"})
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("expected TIMEOUT, got %v", err)
	}
}

func TestOllama_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("model = %q", req.Model)
		}
		out := ollamaEmbedResponse{}
		for i := range req.Input {
			out.Embeddings = append(out.Embeddings, []float32{float32(i), 1})
		}
		json.NewEncoder(w).Encode(out)
	}))
	defer srv.Close()

	p := NewOllama(OllamaConfig{BaseURL: srv.URL})
	vecs, err := p.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vecs) != 2 || vecs[1][0] != 1 {
		t.Errorf("vecs = %v", vecs)
	}
	if p.Dimension() != 768 {
		t.Errorf("Dimension() = %d", p.Dimension())
	}
}

func TestOllama_StatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   errors.ErrorCode
	}{
		{http.StatusUnauthorized, errors.ErrCodeUnauthorized},
		{http.StatusTooManyRequests, errors.ErrCodeRateLimit},
		{http.StatusInternalServerError, errors.ErrCodeUnavailable},
		{http.StatusBadRequest, errors.ErrCodeEmbedding},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			_, err := NewOllama(OllamaConfig{BaseURL: srv.URL}).Embed(context.Background(), []string{"a"})
			if !errors.Is(err, tt.want) {
				t.Errorf("status %d: got %v, want %s", tt.status, err, tt.want)
			}
		})
	}
}

func TestOllama_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewOllama(OllamaConfig{BaseURL: url}).Embed(context.Background(), []string{"a"})
	if !errors.Is(err, errors.ErrCodeUnavailable) {
		t.Errorf("expected UNAVAILABLE, got %v", err)
	}
}

func TestOpenAI_RequiresKey(t *testing.T) {
	if _, err := NewOpenAI(OpenAIConfig{}); err == nil {
		t.Error("expected error without api key")
	}
}

func TestOpenAI_EmbedOrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/embeddings") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"object":"list","model":"text-embedding-ada-002",
			"data":[
				{"object":"embedding","index":1,"embedding":[0.5,0.5]},
				{"object":"embedding","index":0,"embedding":[1,0]}
			],
			"usage":{"prompt_tokens":2,"total_tokens":2}}`)
	}))
	defer srv.Close()

	p, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	vecs, err := p.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if vecs[0][0] != 1 || vecs[1][0] != 0.5 {
		t.Errorf("vecs = %v", vecs)
	}
	if p.Dimension() != 1536 {
		t.Errorf("Dimension() = %d", p.Dimension())
	}
}

func TestOpenAI_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key","type":"invalid_request_error","code":"invalid_api_key","param":null}}`)
	}))
	defer srv.Close()

	p, _ := NewOpenAI(OpenAIConfig{APIKey: "sk-bad", BaseURL: srv.URL + "/"})
	_, err := p.Embed(context.Background(), []string{"x"})
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestGoogle_RequiresKey(t *testing.T) {
	if _, err := NewGoogle(context.Background(), GoogleConfig{}); err == nil {
		t.Error("expected error without api key")
	}
}
