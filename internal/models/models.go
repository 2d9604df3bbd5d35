// package models defines the data model shared by the hokage client packages
package models

import "strings"

// CatalogEntry is one embedded video entry of the remote catalog. Immutable from the client's perspective.
type CatalogEntry struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EmbedURL    string `json:"youtubeEmbedUrl"`
}

// Matches reports whether query is a case-insensitive substring of the entry's description or title.
func (e CatalogEntry) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Description), q) || strings.Contains(strings.ToLower(e.Title), q)
}

// Identity is the user reference derived from the stored credential. Never persisted.
type Identity struct {
	UserID string
}

// Profile is the account profile returned by the remote service.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	GoogleID string `json:"googleId,omitempty"`
}

// IsGoogleUser reports whether the account signed up through Google sign-in.
func (p Profile) IsGoogleUser() bool {
	return p.GoogleID != ""
}

// ListKind names one of the two per-user saved lists.
type ListKind int

const (
	Favourites ListKind = iota
	WatchLater
)

// ListKinds enumerates every [ListKind].
var ListKinds = []ListKind{Favourites, WatchLater}

func (k ListKind) String() string {
	switch k {
	case Favourites:
		return "favourites"
	case WatchLater:
		return "watch-later"
	default:
		return ""
	}
}

// Label returns the human-readable list name.
func (k ListKind) Label() string {
	switch k {
	case Favourites:
		return "Favourite Anime"
	case WatchLater:
		return "Watch Later"
	default:
		return ""
	}
}

// ParseListKind parses "favourites" or "watch-later" (and a few aliases).
func ParseListKind(s string) (ListKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "favourites", "favourite", "favorites", "favorite", "fav":
		return Favourites, true
	case "watch-later", "watch_later", "watchlater", "later", "wl":
		return WatchLater, true
	default:
		return 0, false
	}
}

// Theme is the persisted light/dark preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ThemeFor returns the [Theme] value for a dark flag.
func ThemeFor(dark bool) Theme {
	if dark {
		return ThemeDark
	}
	return ThemeLight
}

// Preferences holds local playback settings.
type Preferences struct {
	Autoplay      bool   `json:"autoplay"`
	Notifications bool   `json:"notifications"`
	Subtitles     string `json:"subtitles"`
	Quality       string `json:"quality"`
}

var (
	SubtitleOptions = []string{"English", "Japanese", "Spanish", "French", "None"}
	QualityOptions  = []string{"Auto", "1080p", "720p", "480p", "360p"}
)

// DefaultPreferences returns the settings a fresh install starts with.
func DefaultPreferences() Preferences {
	return Preferences{Autoplay: true, Notifications: true, Subtitles: "English", Quality: "Auto"}
}
