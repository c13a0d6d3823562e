package pdfextractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// HTTPExtractor calls a sidecar extractor service, one PDF per request, so
// that a single file's failure is isolated the same way the subprocess
// transport isolates it.
type HTTPExtractor struct {
	URL    string
	Client *http.Client
}

// NewHTTPExtractor returns an extractor backed by the given endpoint URL.
func NewHTTPExtractor(url string) *HTTPExtractor {
	return &HTTPExtractor{
		URL:    url,
		Client: &http.Client{Timeout: perFileTimeout},
	}
}

// Extract posts each file to the extractor endpoint in turn.
func (e *HTTPExtractor) Extract(ctx context.Context, files []File) ([]Result, error) {
	results := make([]Result, 0, len(files))
	for _, f := range files {
		results = append(results, e.extractOne(ctx, f))
	}
	return results, nil
}

func (e *HTTPExtractor) extractOne(ctx context.Context, f File) Result {
	ctx, cancel := context.WithTimeout(ctx, perFileTimeout)
	defer cancel()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", f.Name)
	if err != nil {
		return Result{SourceFile: f.Name, Error: "failed to build request: " + err.Error()}
	}
	if _, err := part.Write(f.Data); err != nil {
		return Result{SourceFile: f.Name, Error: "failed to build request: " + err.Error()}
	}
	if err := writer.Close(); err != nil {
		return Result{SourceFile: f.Name, Error: "failed to build request: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, &body)
	if err != nil {
		return Result{SourceFile: f.Name, Error: "failed to build request: " + err.Error()}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.Client.Do(req)
	if err != nil {
		return Result{SourceFile: f.Name, Error: "extractor request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	output, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{SourceFile: f.Name, Error: "failed to read extractor response: " + err.Error()}
	}
	if resp.StatusCode >= 500 {
		return Result{SourceFile: f.Name, Error: fmt.Sprintf("extractor returned status %d", resp.StatusCode)}
	}

	results, parseErr := parseOutput(output)
	if parseErr != nil {
		return Result{SourceFile: f.Name, Error: parseErr.Error()}
	}
	if len(results) == 0 {
		return Result{SourceFile: f.Name, Error: "extractor returned no result"}
	}
	r := results[0]
	if r.SourceFile == "" {
		r.SourceFile = f.Name
	}
	return r
}
