package pdfextractor

import "testing"

func TestRecoverJSONBlock_ArrayWithSurroundingLogs(t *testing.T) {
	input := []byte("INFO starting up\nINFO loading model\n" +
		`[{"source_file":"a.pdf","transactions":[]}]` +
		"\nINFO done\n")
	block, err := recoverJSONBlock(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	results, err := parseOutput(block)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(results) != 1 || results[0].SourceFile != "a.pdf" {
		t.Errorf("got %+v", results)
	}
}

func TestRecoverJSONBlock_ObjectSingleResult(t *testing.T) {
	input := []byte("log line\n" + `{"source_file":"b.pdf","error":"boom"}` + "\n")
	results, err := parseOutput(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Error != "boom" {
		t.Errorf("got %+v", results)
	}
}

func TestParseOutput_NoCreditRowsMarkerIsSuccess(t *testing.T) {
	input := []byte(`[{"source_file":"c.pdf","error":"No credit rows found"}]`)
	results, err := parseOutput(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Error != "" {
		t.Errorf("expected no-credit-rows to clear the error, got %q", results[0].Error)
	}
	if len(results[0].Transactions) != 0 {
		t.Errorf("expected zero transactions, got %d", len(results[0].Transactions))
	}
}

func TestParseOutput_Unparseable(t *testing.T) {
	if _, err := parseOutput([]byte("no json here at all")); err == nil {
		t.Error("expected error")
	}
}

func TestParseOutput_ExcelArtifactDecoded(t *testing.T) {
	// base64 of "hi"
	input := []byte(`[{"source_file":"d.pdf","excel_file":{"name":"d.xlsx","size":2,"mime":"application/vnd.ms-excel","data":"aGk="}}]`)
	results, err := parseOutput(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Excel == nil || string(results[0].Excel.Data) != "hi" {
		t.Errorf("got %+v", results[0].Excel)
	}
}
