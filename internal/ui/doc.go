// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has four views, switched with tab or 1-4:
//  1. [CatalogView] : Browse and search the catalog, mark favourites (f) and watch-later (w), watch (enter)
//  2. [FavouritesView] : Saved favourites, remove with x
//  3. [WatchLaterView] : Saved watch-later entries, remove with x
//  4. [SettingsView] : Theme and playback preferences
//
// Entering a view asks the session gate for a verdict. Views that need an identity render a blocking message
// instead of their content when there is none, and issue no identity-scoped requests.
//
// Remote calls run as tea commands and report back through messages. List changes go through the shared
// synchronizers, so a failed change is reverted in every view. The (view) [Model] subscribes to the theme
// broadcaster and swaps its [Palette] when the theme flips.
package ui
