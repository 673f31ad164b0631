package textutil

import "testing"

func TestDecodeUTF8(t *testing.T) {
	got, fallback, err := Decode([]byte("perché è così"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if fallback {
		t.Fatal("valid UTF-8 must not use the fallback")
	}
	if got != "perché è così" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeStripsBOM(t *testing.T) {
	got, _, err := Decode([]byte("\xEF\xBB\xBFciao"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "ciao" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeWindows1252Fallback(t *testing.T) {
	// "perché" with é encoded as a single Windows-1252 byte.
	got, fallback, err := Decode([]byte("perch\xe9 \x80"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !fallback {
		t.Fatal("expected fallback")
	}
	if got != "perché €" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Mercati: cosa fare?  ", "Mercati- cosa fare"},
		{"ETF/ETC \"guida\"", "ETF-ETC guida"},
		{"a\tb\n c", "a b c"},
		{"fine...", "fine"},
		{"Risparmio <3|4>", "Risparmio 34"},
	}
	for _, tc := range tests {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
