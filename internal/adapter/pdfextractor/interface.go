package pdfextractor

import (
	"context"
	"encoding/base64"
	"strings"
)

// PDFExtractor extracts transactions from a batch of PDF files. A per-file
// error is reported inside that file's Result, never by the returned error;
// the returned error is reserved for whole-batch setup failures (e.g. the
// extractor binary/endpoint is unreachable for every file).
type PDFExtractor interface {
	Extract(ctx context.Context, files []File) ([]Result, error)
}

func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
