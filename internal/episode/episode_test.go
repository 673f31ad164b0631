package episode

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		wantTitle string
		wantDate  string
		hasDate   bool
	}{
		{"dated", "[20240105] Ep A.txt", "Ep A", "2024-01-05", true},
		{"dated with dir", "/tmp/podcasts/[20231231] Fine anno.txt", "Fine anno", "2023-12-31", true},
		{"undated", "Intro.txt", "Intro", "", false},
		{"bracket without digits", "[bonus] Extra.txt", "[bonus] Extra", "", false},
		{"invalid calendar date", "[20241341] Strano.txt", "Strano", "", false},
		{"unicode title", "[20240301] Perché investire.txt", "Perché investire", "2024-03-01", true},
		{"tag only", "[20240301].txt", "", "2024-03-01", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ep := Parse(tc.file, DefaultPrefixLen)
			if ep.Title != tc.wantTitle {
				t.Fatalf("title = %q, want %q", ep.Title, tc.wantTitle)
			}
			if ep.HasDate != tc.hasDate {
				t.Fatalf("hasDate = %v, want %v", ep.HasDate, tc.hasDate)
			}
			if tc.hasDate && ep.Date.Format("2006-01-02") != tc.wantDate {
				t.Fatalf("date = %s, want %s", ep.Date.Format("2006-01-02"), tc.wantDate)
			}
		})
	}
}

func TestParseCustomPrefixLen(t *testing.T) {
	ep := Parse("[20240105]_-_Ep A.txt", 13)
	if ep.Title != "Ep A" {
		t.Fatalf("title = %q", ep.Title)
	}
}

func TestSection(t *testing.T) {
	dated := Parse("[20240105] Ep A.txt", DefaultPrefixLen)
	if got, want := Section(dated, "Body A"), "## Ep A\n_Published on 2024-01-05_  \nBody A\n\n\n"; got != want {
		t.Fatalf("dated section = %q, want %q", got, want)
	}

	undated := Parse("Intro.txt", DefaultPrefixLen)
	if got, want := Section(undated, "Hello"), "## Intro\nHello\n\n\n"; got != want {
		t.Fatalf("undated section = %q, want %q", got, want)
	}
}

func TestAudioName(t *testing.T) {
	date := time.Date(2024, 1, 5, 7, 30, 0, 0, time.UTC)
	if got, want := AudioName(date, "Ep A: mercati?", "mp3"), "[20240105] Ep A- mercati.mp3"; got != want {
		t.Fatalf("AudioName = %q, want %q", got, want)
	}
	if got, want := AudioName(date, "  ", ".mp3"), "[20240105] episode.mp3"; got != want {
		t.Fatalf("AudioName = %q, want %q", got, want)
	}

	roundTrip := Parse(AudioName(date, "Ep A", ".mp3"), DefaultPrefixLen)
	if roundTrip.Title != "Ep A" || !roundTrip.HasDate {
		t.Fatalf("round trip = %+v", roundTrip)
	}
}
