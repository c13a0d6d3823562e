package llmclassifier

import "testing"

func TestParseDecisions_LegacyKeySpellings(t *testing.T) {
	reply := `Here is the result: [
		{"id":"s_1","is_revenue":true,"reason":"a"},
		{"id":"s_2","isRevenue":false,"reason":"b"},
		{"id":"s_3","revenue":true,"reason":"c"},
		{"id":"s_4","label":"revenue","reason":"d"},
		{"id":"s_5","label":"non-revenue","reason":"e"}
	] -- end of response`

	decisions, err := parseDecisions(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decisions) != 5 {
		t.Fatalf("expected 5 decisions, got %d", len(decisions))
	}

	want := map[string]bool{"s_1": true, "s_2": false, "s_3": true, "s_4": true, "s_5": false}
	for _, d := range decisions {
		if d.IsRevenue != want[d.ID] {
			t.Errorf("%s: got isRevenue=%v, want %v", d.ID, d.IsRevenue, want[d.ID])
		}
	}
}

func TestParseDecisions_SkipsMissingID(t *testing.T) {
	reply := `[{"is_revenue":true,"reason":"no id here"}]`
	decisions, err := parseDecisions(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decisions) != 0 {
		t.Errorf("expected decisions with no id to be skipped, got %d", len(decisions))
	}
}

func TestParseDecisions_Unparseable(t *testing.T) {
	if _, err := parseDecisions("no json array here"); err == nil {
		t.Error("expected error")
	}
}

func TestClassify_EmptyItemsShortCircuits(t *testing.T) {
	c := &Classifier{}
	decisions, err := c.Classify(nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decisions != nil {
		t.Errorf("expected nil decisions for empty input, got %v", decisions)
	}
}
