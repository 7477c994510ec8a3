package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vinayprograms/resumerag/embedding"
	"github.com/vinayprograms/resumerag/errors"
	"github.com/vinayprograms/resumerag/logging"
	"github.com/vinayprograms/resumerag/matcher"
	"github.com/vinayprograms/resumerag/server"
)

func newBackend(t *testing.T, p embedding.Provider) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, err := matcher.New(p, matcher.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(server.New(svc, server.Config{}, logging.Discard()).Handler())
	t.Cleanup(func() {
		srv.Close()
		svc.Close()
	})
	return New(srv.URL + "/")
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClient_IndexQueryList(t *testing.T) {
	p := embedding.NewStatic(2).
		Set("hello world", []float32{1, 0}).
		Set("goodbye", []float32{0, 5})
	c := newBackend(t, p)
	ctx := context.Background()
	dir := t.TempDir()

	results, err := c.IndexFiles(ctx, []string{
		writeFile(t, dir, "hello.txt", "hello world"),
		writeFile(t, dir, "bye.txt", "goodbye"),
		writeFile(t, dir, "photo.jpg", "jpeg"),
	})
	if err != nil {
		t.Fatalf("IndexFiles: %v", err)
	}
	if len(results) != 3 || results[2].Status != matcher.StatusFailed {
		t.Fatalf("results = %+v", results)
	}

	matches, err := c.Query(ctx, "hello world", 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 2 || matches[0].Filename != "hello.txt" || matches[0].Score != 0 {
		t.Errorf("matches = %+v", matches)
	}

	entries, err := c.List(ctx, "goodbye", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Filename != "bye.txt" {
		t.Errorf("entries = %+v", entries)
	}

	h, err := c.Health(ctx)
	if err != nil || h.Documents != 2 {
		t.Errorf("health = %+v, %v", h, err)
	}
}

func TestClient_StructuredError(t *testing.T) {
	c := newBackend(t, embedding.NewStatic(2))

	_, err := c.Query(context.Background(), "   ", 0)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestClient_PlainErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Health(context.Background())
	if !errors.Is(err, errors.ErrCodeUnavailable) {
		t.Errorf("expected UNAVAILABLE, got %v", err)
	}
	if errors.GetMetadata(err)["status"] != "502" {
		t.Errorf("metadata = %v", errors.GetMetadata(err))
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := New(url).Health(context.Background()); !errors.Is(err, errors.ErrCodeUnavailable) {
		t.Errorf("expected UNAVAILABLE, got %v", err)
	}
}

func TestClient_MissingFile(t *testing.T) {
	c := New("http://127.0.0.1:0")
	if _, err := c.IndexFiles(context.Background(), []string{"/does/not/exist.pdf"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if _, err := c.IndexFiles(context.Background(), nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for no files, got %v", err)
	}
}
