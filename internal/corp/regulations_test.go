package corp

import "testing"

func TestSearchRegulationsDirect(t *testing.T) {
	results := SearchRegulations("vacation")
	if len(results) == 0 {
		t.Fatal("expected at least one result for vacation")
	}
	if results[0].Topic != "vacation_policy" {
		t.Errorf("expected vacation_policy first, got %q", results[0].Topic)
	}
}

func TestSearchRegulationsSynonym(t *testing.T) {
	// "clothing" never appears in the dress code entry itself; only the
	// synonym expansion can surface it
	results := SearchRegulations("clothing")
	found := false
	for _, r := range results {
		if r.Topic == "dress_code" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected dress_code for clothing query, got %v", topics(results))
	}

	results = SearchRegulations("remote")
	found = false
	for _, r := range results {
		if r.Topic == "remote_work" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected remote_work for remote query, got %v", topics(results))
	}
}

func TestSearchRegulationsCaseAndDashes(t *testing.T) {
	lower := SearchRegulations("sick leave")
	mixed := SearchRegulations("Sick-Leave")
	if len(lower) == 0 || len(lower) != len(mixed) {
		t.Errorf("normalization mismatch: %v vs %v", topics(lower), topics(mixed))
	}
}

func TestSearchRegulationsEmpty(t *testing.T) {
	if got := SearchRegulations(""); got != nil {
		t.Errorf("expected nil for empty query, got %v", topics(got))
	}
	if got := SearchRegulations("   "); got != nil {
		t.Errorf("expected nil for blank query, got %v", topics(got))
	}
}

func TestSearchRegulationsNoMatch(t *testing.T) {
	if got := SearchRegulations("zzzzqqqq"); len(got) != 0 {
		t.Errorf("expected no results, got %v", topics(got))
	}
}

func TestSearchRegulationsStableOrderNoDuplicates(t *testing.T) {
	// A broad multi-word query matches several topics; each topic must
	// appear at most once, in catalog order
	results := SearchRegulations("manager approval")
	seen := map[string]bool{}
	lastIndex := -1
	for _, r := range results {
		if seen[r.Topic] {
			t.Errorf("duplicate topic %q", r.Topic)
		}
		seen[r.Topic] = true

		idx := topicIndex(r.Topic)
		if idx <= lastIndex {
			t.Errorf("topic %q out of catalog order", r.Topic)
		}
		lastIndex = idx
	}
}

func TestAllRegulations(t *testing.T) {
	all := AllRegulations()
	if len(all) != len(regulationOrder) {
		t.Fatalf("expected %d entries, got %d", len(regulationOrder), len(all))
	}
	for i, r := range all {
		if r.Topic != regulationOrder[i] {
			t.Errorf("position %d: expected %q, got %q", i, regulationOrder[i], r.Topic)
		}
		if r.Answer == "" {
			t.Errorf("topic %q has empty answer", r.Topic)
		}
	}
}

func topics(regs []Regulation) []string {
	out := make([]string, len(regs))
	for i, r := range regs {
		out[i] = r.Topic
	}
	return out
}

func topicIndex(topic string) int {
	for i, t := range regulationOrder {
		if t == topic {
			return i
		}
	}
	return -1
}
