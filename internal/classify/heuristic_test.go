package classify

import "testing"

func TestClassify_EmptyText(t *testing.T) {
	d := Classify("", "")
	if !d.Ambiguous || d.Reason != "no text" {
		t.Errorf("got %+v", d)
	}
}

func TestClassify_TerminalDepositDominatesTopUp(t *testing.T) {
	d := Classify("Cash In Терминал ID 42", "")
	if d.Ambiguous || d.IsRevenue {
		t.Errorf("expected non-revenue, got %+v", d)
	}
	if d.Reason != "terminal self-deposit" {
		t.Errorf("got reason %q", d.Reason)
	}
}

func TestClassify_NonRevenueMarker(t *testing.T) {
	d := Classify("Возврат займа по договору", "")
	if d.Ambiguous || d.IsRevenue {
		t.Errorf("expected non-revenue, got %+v", d)
	}
}

func TestClassify_RevenueMarker(t *testing.T) {
	d := Classify("Оплата по СФ №12", "ИП Иванов")
	if d.Ambiguous || !d.IsRevenue {
		t.Errorf("expected revenue, got %+v", d)
	}
	if d.Source != SourceHeuristic {
		t.Errorf("expected heuristic source, got %q", d.Source)
	}
}

func TestClassify_TopUpNeedsContext(t *testing.T) {
	d := Classify("Пополнение счета от ИП Ахметов", "")
	if !d.Ambiguous || d.Reason != "needs context" {
		t.Errorf("got %+v", d)
	}
	if d.Source != SourceAgentRequired {
		t.Errorf("expected agent-required source, got %q", d.Source)
	}
}

func TestClassify_NoExplicitMarkers(t *testing.T) {
	d := Classify("Прочее", "Иван Иванов")
	if !d.Ambiguous || d.Reason != "no explicit markers" {
		t.Errorf("got %+v", d)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	d := Classify("CASH IN ТЕРМИНАЛ ID 99", "")
	if d.Ambiguous || d.IsRevenue {
		t.Errorf("expected non-revenue regardless of case, got %+v", d)
	}
}

func TestClassify_EndToEndScenarioOne(t *testing.T) {
	cases := []struct {
		purpose   string
		wantOK    bool
		wantRev   bool
	}{
		{"Оплата по СФ №12", true, true},
		{"Оплата за услуги", true, true},
		{"Cash In Терминал ID 42", true, false},
		{"Оплата по договору", true, true},
	}
	for _, c := range cases {
		d := Classify(c.purpose, "")
		if d.Ambiguous == c.wantOK {
			t.Errorf("Classify(%q): ambiguous=%v", c.purpose, d.Ambiguous)
		}
		if d.IsRevenue != c.wantRev {
			t.Errorf("Classify(%q): isRevenue=%v, want %v", c.purpose, d.IsRevenue, c.wantRev)
		}
	}
}
