package match

import (
	"reflect"
	"testing"
)

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "BRACKET", "bracket"},
		{"keeps digits and dot", "3.2", "3.2"},
		{"keeps plus and minus", "L+2-1", "l+2-1"},
		{"strips punctuation", "(5)", "5"},
		{"strips trailing comma", "PLATE,", "plate"},
		{"fullwidth digits fold", "２５０", "250"},
		{"nothing survives", "()!", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeToken(tt.in); got != tt.want {
				t.Errorf("NormalizeToken(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("  5 TANK (BRACKET)  !! ")
	want := []string{"5", "tank", "bracket"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}

	if got := Tokenize("(!) ()"); got != nil {
		t.Errorf("Tokenize of pure punctuation = %v, want nil", got)
	}
}
