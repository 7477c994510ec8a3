// Package client talks to a running resumerag service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vinayprograms/resumerag/catalog"
	"github.com/vinayprograms/resumerag/errors"
	"github.com/vinayprograms/resumerag/matcher"
)

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health describes the service store.
type Health struct {
	Status    string `json:"status"`
	Documents int    `json:"documents"`
	Dimension int    `json:"dimension"`
}

// IndexFiles uploads the files at paths in one batch.
func (c *Client) IndexFiles(ctx context.Context, paths []string) ([]matcher.FileResult, error) {
	if len(paths) == 0 {
		return nil, errors.InvalidInput("no files to upload")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("cannot read %s", path), errors.WithCause(err))
		}
		part, err := w.CreateFormFile("files", filepath.Base(path))
		if err != nil {
			return nil, errors.Wrap(err, "failed to build upload")
		}
		if _, err := part.Write(data); err != nil {
			return nil, errors.Wrap(err, "failed to build upload")
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to build upload")
	}

	var resp struct {
		Results []matcher.FileResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/index_resumes", w.FormDataContentType(), &buf, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Query ranks stored resumes against jobDescription. topK <= 0 lets the
// service apply its default.
func (c *Client) Query(ctx context.Context, jobDescription string, topK int) ([]matcher.Result, error) {
	form := url.Values{"job_description": {jobDescription}}
	if topK > 0 {
		form.Set("top_k", strconv.Itoa(topK))
	}

	var resp struct {
		Results []matcher.Result `json:"results"`
	}
	err := c.do(ctx, http.MethodPost, "/query", "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()), &resp)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// List returns the catalog, optionally filtered by keyword.
func (c *Client) List(ctx context.Context, contains string, limit int) ([]catalog.Entry, error) {
	q := url.Values{}
	if contains != "" {
		q.Set("contains", contains)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/resumes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Resumes []catalog.Entry `json:"resumes"`
	}
	if err := c.do(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Resumes, nil
}

// Health fetches /healthz.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/healthz", "", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// do sends a request and decodes a 2xx body into out. Error bodies are
// decoded into *errors.Error when the service sent one.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.InvalidInput("bad request", errors.WithCause(err))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "request to "+c.baseURL)
		}
		return errors.WrapWithCode(err, errors.ErrCodeUnavailable, "cannot reach "+c.baseURL)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeUnavailable, "failed to read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb struct {
			Error *errors.Error `json:"error"`
		}
		if json.Unmarshal(data, &eb) == nil && eb.Error != nil && eb.Error.Code() != "" {
			return eb.Error
		}
		return errors.New(errors.ErrCodeUnavailable,
			fmt.Sprintf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data))),
			errors.WithMetadata("status", strconv.Itoa(resp.StatusCode)))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeInternal, "failed to decode response")
	}
	return nil
}
