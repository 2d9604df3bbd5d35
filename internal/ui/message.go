package ui

import (
	"github.com/desertthunder/hokage/internal/catalog"
	"github.com/desertthunder/hokage/internal/lists"
	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/session"
)

// sessionMsg carries the gate's verdict for a freshly entered view.
type sessionMsg struct {
	view     ViewState
	state    session.State
	identity *models.Identity
	err      error
}

type catalogLoadedMsg struct {
	snapshot catalog.Snapshot
}

type savedLoadedMsg struct {
	kind models.ListKind
	err  error
}

type toggledMsg struct {
	kind    models.ListKind
	id      string
	outcome lists.Outcome
	err     error
}

// toggleStartedMsg carries a toggle already applied to the cache, to be rendered before it is committed.
type toggleStartedMsg struct {
	kind    models.ListKind
	id      string
	pending *lists.Pending
}

type removedMsg struct {
	kind    models.ListKind
	id      string
	outcome lists.Outcome
	err     error
}

// themeChangedMsg signals that the broadcaster's theme may have changed since the last one was applied.
type themeChangedMsg struct{}

type themeToggledMsg struct {
	err error
}

type prefsMsg struct {
	prefs models.Preferences
	err   error
}

type openedMsg struct {
	err error
}
