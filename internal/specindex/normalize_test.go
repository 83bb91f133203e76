package specindex

import "testing"

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Power Delivery", "power delivery"},
		{"Power-Delivery  (PD)", "power delivery pd"},
		{"  Source_Capabilities: Message ", "source capabilities message"},
		{"ＵＳＢ Type‑C", "usb type c"},
		{"Straße", "strasse"},
		{"...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeTitle(tt.input); got != tt.expected {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTitleSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Power Delivery", "Power Delivery", 1},
		{"case and punctuation", "Power Delivery", "power-delivery", 1},
		{"half overlap", "Power Delivery Contract Negotiation", "Contract Negotiation", 0.5},
		{"word order", "Sink Requests", "Requests Sink", 1},
		{"disjoint", "Cable Rules", "Sink Requests", 0},
		{"both empty", "", "", 1},
		{"one empty", "Scope", "", 0},
		{"repeated tokens", "Power Power Rules", "Power Rules", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleSimilarity(tt.a, tt.b); got != tt.want {
				t.Errorf("TitleSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		n, total int
		want     float64
	}{
		{92, 94, 97.87},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{0, 0, 0},
		{5, 5, 100},
	}

	for _, tt := range tests {
		if got := percent(tt.n, tt.total); got != tt.want {
			t.Errorf("percent(%d, %d) = %v, want %v", tt.n, tt.total, got, tt.want)
		}
	}
}
