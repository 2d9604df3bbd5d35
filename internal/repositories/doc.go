// Package repositories implements local SQLite persistence for the hokage client.
//
// Only two kinds of state survive a restart:
//   - [SettingsRepository] : the key/value settings table holding the bearer credential ("token") and the
//     light/dark preference ("theme"). It is the credential store every other package reads from.
//   - [PreferencesRepository] : playback preferences (autoplay, notifications, subtitles, quality).
//
// [MemoryStore] satisfies the same credential operations without a database; the session, theme and TUI
// tests run against it.
//
// Catalog data and saved lists are never stored locally; they are always fetched from the remote service.
package repositories
