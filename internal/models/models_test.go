package models

import "testing"

func TestCatalogEntryMatches(t *testing.T) {
	entry := CatalogEntry{ID: "1", Title: "Naruto", Description: "Ninja Village Adventures"}

	tc := []struct {
		name  string
		query string
		want  bool
	}{
		{name: "empty query matches", query: "", want: true},
		{name: "description substring", query: "village", want: true},
		{name: "case insensitive", query: "NINJA", want: true},
		{name: "title substring", query: "naru", want: true},
		{name: "whitespace trimmed", query: "  ninja ", want: true},
		{name: "no match", query: "pirate", want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := entry.Matches(tt.query); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseListKind(t *testing.T) {
	tc := []struct {
		input string
		want  ListKind
		ok    bool
	}{
		{input: "favourites", want: Favourites, ok: true},
		{input: "Favorites", want: Favourites, ok: true},
		{input: "watch-later", want: WatchLater, ok: true},
		{input: "watch_later", want: WatchLater, ok: true},
		{input: "history", ok: false},
	}

	for _, tt := range tc {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseListKind(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseListKind(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseListKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if ok && got.String() == "" {
				t.Errorf("expected non-empty name for %v", got)
			}
		})
	}
}

func TestThemeFor(t *testing.T) {
	if ThemeFor(true) != ThemeDark {
		t.Error("expected dark theme for dark flag")
	}
	if ThemeFor(false) != ThemeLight {
		t.Error("expected light theme for light flag")
	}
}

func TestProfileIsGoogleUser(t *testing.T) {
	if (Profile{Name: "a"}).IsGoogleUser() {
		t.Error("expected password account")
	}
	if !(Profile{GoogleID: "g-1"}).IsGoogleUser() {
		t.Error("expected google account")
	}
}
