package pdfextractor

import (
	"context"
	"os"
	"os/exec"
	"time"
)

// perFileTimeout bounds a single extractor invocation (§4.3.1).
const perFileTimeout = 5 * time.Minute

// SubprocessExtractor shells out to a local extractor binary, one PDF at a
// time, so that a crash or bad exit code on one file never aborts the rest
// of the batch.
type SubprocessExtractor struct {
	BinaryPath string
}

// NewSubprocessExtractor returns an extractor that invokes binaryPath once
// per PDF, passing the temp file path as its sole argument.
func NewSubprocessExtractor(binaryPath string) *SubprocessExtractor {
	return &SubprocessExtractor{BinaryPath: binaryPath}
}

// Extract runs the extractor binary against each file in turn.
func (e *SubprocessExtractor) Extract(ctx context.Context, files []File) ([]Result, error) {
	results := make([]Result, 0, len(files))
	for _, f := range files {
		results = append(results, e.extractOne(ctx, f))
	}
	return results, nil
}

func (e *SubprocessExtractor) extractOne(ctx context.Context, f File) Result {
	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return Result{SourceFile: f.Name, Error: "failed to stage temp file: " + err.Error()}
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.Write(f.Data); err != nil {
		return Result{SourceFile: f.Name, Error: "failed to write temp file: " + err.Error()}
	}
	if err := tmp.Close(); err != nil {
		return Result{SourceFile: f.Name, Error: "failed to finalize temp file: " + err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, perFileTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.BinaryPath, tmp.Name())
	output, runErr := cmd.Output()
	if runErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Result{SourceFile: f.Name, Error: "extractor timed out after " + perFileTimeout.String()}
		}
		if len(output) == 0 {
			return Result{SourceFile: f.Name, Error: "extractor exited with error: " + runErr.Error()}
		}
		// Non-zero exit with output: still attempt to recover a JSON block
		// (some extractors signal partial failure this way).
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
