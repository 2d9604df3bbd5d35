// Package models defines the domain types of the hokage client.
//
// The package contains two categories of types:
//
// 1. Remote data: values sourced wholesale from the catalog/account service
//   - [CatalogEntry] : one catalog video entry, identified by its id
//   - [Profile] : account profile returned by GET /user
//
// 2. Client state: values derived or persisted locally
//   - [Identity] : user reference decoded from the stored credential, never persisted
//   - [ListKind] : favourites or watch-later
//   - [Theme] : persisted light/dark flag
//   - [Preferences] : local playback settings
package models
