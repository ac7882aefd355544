package keyword

import "testing"

func TestMatchCount(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     int
	}{
		{"all match", "need a CRM for sales", []string{"crm", "sales"}, 2},
		{"case insensitive both ways", "BestCRM Tool", []string{"CRM", "tool"}, 2},
		{"substring not token", "bestcrm", []string{"crm"}, 1},
		{"partial match", "looking for software", []string{"crm", "software"}, 1},
		{"no match", "hello world", []string{"crm"}, 0},
		{"empty keywords", "hello", nil, 0},
		{"empty text", "", []string{"crm"}, 0},
		{"duplicate keywords count twice", "crm", []string{"crm", "crm"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchCount(tt.text, tt.keywords)
			if got != tt.want {
				t.Errorf("MatchCount(%q, %v) = %d, want %d", tt.text, tt.keywords, got, tt.want)
			}
			if got > len(tt.keywords) {
				t.Errorf("MatchCount exceeds keyword count: %d > %d", got, len(tt.keywords))
			}
		})
	}
}

func TestMatchPercentage(t *testing.T) {
	if got := MatchPercentage("need a crm", []string{"crm", "sales"}); got != 50 {
		t.Errorf("expected 50, got %v", got)
	}
	if got := MatchPercentage("need a crm for sales", []string{"crm", "sales"}); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
	if got := MatchPercentage("anything", nil); got != 0 {
		t.Errorf("empty keyword set must yield 0, got %v", got)
	}
	if got := MatchPercentage("", []string{"a", "b", "c"}); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestMatchPercentageBounds(t *testing.T) {
	texts := []string{"", "crm", "crm sales tool", "CRM SALES TOOL EXTRA"}
	keywords := []string{"crm", "sales", "tool"}
	for _, text := range texts {
		got := MatchPercentage(text, keywords)
		if got < 0 || got > 100 {
			t.Errorf("MatchPercentage(%q) = %v out of [0,100]", text, got)
		}
	}
}

func TestMatched(t *testing.T) {
	got := Matched("need a CRM for my sales team", []string{"crm", "billing", "sales"})
	if len(got) != 2 || got[0] != "crm" || got[1] != "sales" {
		t.Errorf("Matched = %v, want [crm sales]", got)
	}
	if got := Matched("nothing here", []string{"crm"}); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
