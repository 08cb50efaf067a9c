package util

import "testing"

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "France", want: "France"},
		{name: "empty", input: "", want: ""},
		{name: "strips tags", input: "Côte d'Ivoire<wbr><span></span>", want: "Côte d'Ivoire"},
		{name: "escaped closing tag", input: `<b>Peru<\/b>`, want: "Peru"},
		{name: "entities", input: "Trinidad &amp; Tobago", want: "Trinidad & Tobago"},
		{name: "collapses whitespace", input: "  South\n  Georgia \t", want: "South Georgia"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanLabel(tt.input); got != tt.want {
				t.Errorf("CleanLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNeedsCleanup(t *testing.T) {
	if NeedsCleanup("Europe") {
		t.Errorf("clean label flagged")
	}
	if !NeedsCleanup("<i>Europe</i>") {
		t.Errorf("markup not flagged")
	}
	if !NeedsCleanup(" Europe") {
		t.Errorf("leading space not flagged")
	}
}

func TestNormalizeQuery(t *testing.T) {
	if got := NormalizeQuery("  United   States "); got != "united states" {
		t.Errorf("NormalizeQuery = %q", got)
	}
}

func TestQueryKey(t *testing.T) {
	a := QueryKey("France", " spain")
	b := QueryKey("SPAIN", "france", "France")
	if a != b {
		t.Errorf("expected order/case independent keys, got %s vs %s", a, b)
	}
	if QueryKey() != QueryKey("", "  ") {
		t.Errorf("blank terms should map to the all-countries key")
	}
	if QueryKey("france") == QueryKey() {
		t.Errorf("name query collides with all-countries key")
	}
	if len(a) != 32 {
		t.Errorf("expected md5 hex, got %q", a)
	}
}
