package types

import "testing"

func TestStringToMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"classic", Classic, true},
		{"SUPER", Super, true},
		{"Super", Super, true},
		{"xo", Classic, false},
		{"", Classic, false},
	}
	for _, tt := range tests {
		got, ok := StringToMode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("StringToMode(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMode_String(t *testing.T) {
	if Classic.String() != "classic" || Super.String() != "super" {
		t.Errorf("unexpected mode names %q %q", Classic, Super)
	}
	if Mode(7).String() != "unknown" {
		t.Errorf("expected unknown for out of range mode, got %q", Mode(7))
	}
}
