package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hokage/internal/lists"
	"github.com/desertthunder/hokage/internal/models"
)

// enter switches to view and asks the session gate about it. Every mount re-resolves the identity.
func (m *Model) enter(view ViewState) tea.Cmd {
	m.view = view
	m.loading = true
	m.status = ""
	if view == FavouritesView || view == WatchLaterView {
		m.savedList.Title = view.listKind().Label()
		m.savedList.SetItems(nil)
	}

	return func() tea.Msg {
		state, identity, err := m.deps.Gate.Enter(m.ctx, view.capability())
		return sessionMsg{view: view, state: state, identity: identity, err: err}
	}
}

func (m *Model) loadCatalog() tea.Cmd {
	identity := m.identity
	return func() tea.Msg {
		return catalogLoadedMsg{snapshot: m.deps.Cache.Load(m.ctx, identity)}
	}
}

func (m *Model) loadSaved(kind models.ListKind) tea.Cmd {
	removal := m.removals[kind]
	return func() tea.Msg {
		return savedLoadedMsg{kind: kind, err: removal.Load(m.ctx)}
	}
}

// toggle applies the change locally first; the remote call is made by commit once the change is rendered.
func (m *Model) toggle(kind models.ListKind, id string) tea.Cmd {
	s := m.syncs[kind]
	return func() tea.Msg {
		pending, err := s.Begin(m.ctx, id)
		if pending == nil {
			return toggledMsg{kind: kind, id: id, outcome: lists.OutcomeDropped, err: err}
		}
		return toggleStartedMsg{kind: kind, id: id, pending: pending}
	}
}

func (m *Model) commit(msg toggleStartedMsg) tea.Cmd {
	return func() tea.Msg {
		outcome, err := msg.pending.Commit(m.ctx)
		return toggledMsg{kind: msg.kind, id: msg.id, outcome: outcome, err: err}
	}
}

func (m *Model) remove(kind models.ListKind, id string) tea.Cmd {
	removal := m.removals[kind]
	return func() tea.Msg {
		outcome, err := removal.Remove(m.ctx, id)
		return removedMsg{kind: kind, id: id, outcome: outcome, err: err}
	}
}

func (m *Model) open(url string) tea.Cmd {
	if url == "" {
		return nil
	}
	open := m.deps.Open
	return func() tea.Msg {
		return openedMsg{err: open(url)}
	}
}

func (m *Model) toggleTheme() tea.Cmd {
	return func() tea.Msg {
		return themeToggledMsg{err: m.deps.Theme.Toggle(m.ctx)}
	}
}

// waitForTheme wakes the model after the broadcaster publishes a theme change.
func (m *Model) waitForTheme() tea.Cmd {
	ch := m.themeCh
	return func() tea.Msg {
		<-ch
		return themeChangedMsg{}
	}
}

func (m *Model) loadPrefs() tea.Cmd {
	if m.deps.Prefs == nil {
		return nil
	}
	return func() tea.Msg {
		prefs, err := m.deps.Prefs.Get(m.ctx)
		return prefsMsg{prefs: prefs, err: err}
	}
}

func (m *Model) savePrefs(next models.Preferences) tea.Cmd {
	if m.deps.Prefs == nil {
		m.prefs = next
		return nil
	}
	return func() tea.Msg {
		if err := m.deps.Prefs.Save(m.ctx, next); err != nil {
			return prefsMsg{err: err}
		}
		return prefsMsg{prefs: next}
	}
}
