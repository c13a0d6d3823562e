// Package pdfextractor adapts the external PDF-to-transactions extractor,
// invoked either as a local subprocess or a sidecar HTTP service.
package pdfextractor

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// File is one uploaded PDF payload handed to the extractor.
type File struct {
	Name string
	Data []byte
}

// ExcelArtifact is the optional converted-statement spreadsheet the
// extractor may return alongside a file's transactions.
type ExcelArtifact struct {
	Name string
	Size int64
	Mime string
	Data []byte
}

// Result is one file's extraction outcome: either Transactions (possibly
// empty) or Error is set, never both.
type Result struct {
	SourceFile   string
	Metadata     map[string]any
	Transactions []map[string]any
	Excel        *ExcelArtifact
	Error        string
}

// noCreditRowsMarker is a documented success-with-zero-rows sentinel,
// distinguished from a genuine extraction failure.
const noCreditRowsMarker = "no credit rows found"

// wireResult mirrors the extractor's JSON element shape exactly.
type wireResult struct {
	SourceFile   string           `json:"source_file"`
	Metadata     map[string]any   `json:"metadata,omitempty"`
	Transactions []map[string]any `json:"transactions,omitempty"`
	ExcelFile    *wireExcel       `json:"excel_file,omitempty"`
	Error        string           `json:"error,omitempty"`
}

type wireExcel struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Mime string `json:"mime"`
	Data string `json:"data"` // base64
}

// recoverJSONBlock locates the trailing JSON block within output that may be
// preceded and followed by unstructured log lines: the last closing `]` or
// `}` marks the end, and the opening bracket that balances it marks the
// start. Brackets inside JSON string values are counted like any other.
func recoverJSONBlock(output []byte) ([]byte, error) {
	end := bytes.LastIndexAny(output, "]}")
	if end < 0 {
		return nil, fmt.Errorf("no JSON block found in extractor output")
	}

	depth := 0
	for i := end; i >= 0; i-- {
		switch output[i] {
		case ']', '}':
			depth++
		case '[', '{':
			depth--
			if depth == 0 {
				return output[i : end+1], nil
			}
		}
	}

	return nil, fmt.Errorf("unterminated JSON block in extractor output")
}

// parseOutput recovers and decodes the extractor's stdout into per-file
// results, treating the "no credit rows found" marker as a success.
func parseOutput(output []byte) ([]Result, error) {
	block, err := recoverJSONBlock(output)
	if err != nil {
		return nil, err
	}

	var results []Result
	if bytes.HasPrefix(bytes.TrimSpace(block), []byte("[")) {
		var wireResults []wireResult
		if err := json.Unmarshal(block, &wireResults); err != nil {
			return nil, fmt.Errorf("unparseable extractor output: %w", err)
		}
		for _, w := range wireResults {
			results = append(results, fromWire(w))
		}
	} else {
		var w wireResult
		if err := json.Unmarshal(block, &w); err != nil {
			return nil, fmt.Errorf("unparseable extractor output: %w", err)
		}
		results = append(results, fromWire(w))
	}

	return results, nil
}

func fromWire(w wireResult) Result {
	r := Result{
		SourceFile:   w.SourceFile,
		Metadata:     w.Metadata,
		Transactions: w.Transactions,
		Error:        w.Error,
	}
	if isNoCreditRowsMarker(w.Error) {
		r.Error = ""
		r.Transactions = nil
	}
	if w.ExcelFile != nil {
		r.Excel = &ExcelArtifact{
			Name: w.ExcelFile.Name,
			Size: w.ExcelFile.Size,
			Mime: w.ExcelFile.Mime,
		}
		if data, err := decodeBase64(w.ExcelFile.Data); err == nil {
			r.Excel.Data = data
		}
	}
	return r
}

func isNoCreditRowsMarker(s string) bool {
	return containsFold(s, noCreditRowsMarker)
}
