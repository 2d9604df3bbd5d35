package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/hokage/internal/catalog"
	"github.com/desertthunder/hokage/internal/session"
)

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case CatalogView:
		body = m.renderCatalog()
	case FavouritesView, WatchLaterView:
		body = m.renderSaved()
	case SettingsView:
		body = m.renderSettings()
	}

	parts := []string{m.renderTabs(), body}
	if m.status != "" {
		style := m.palette.ok
		if m.statusErr {
			style = m.palette.err
		}
		parts = append(parts, style.Render(m.status))
	}
	parts = append(parts, m.renderHelp())
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(views))
	for _, v := range views {
		if v == m.view {
			tabs = append(tabs, m.palette.active.Render(v.String()))
		} else {
			tabs = append(tabs, m.palette.tab.Render(v.String()))
		}
	}

	who := "Guest"
	if m.identity != nil {
		who = "Signed in"
	}
	return strings.Join(tabs, " ") + "  " + m.palette.help.Render(who)
}

func (m *Model) renderCatalog() string {
	if m.loading && len(m.catalogList.Items()) == 0 {
		return m.palette.help.Render("Loading catalog...")
	}

	var notes []string
	for _, section := range []catalog.Section{catalog.SectionFavourites, catalog.SectionWatchLater} {
		if err := m.sectionErrs[section]; err != nil {
			notes = append(notes, m.palette.warn.Render(fmt.Sprintf("Could not load %s; markers may be missing.", section)))
		}
	}
	if m.state == session.Unauthenticated {
		notes = append(notes, m.palette.help.Render("Browsing as guest. Run `hokage auth login` to save favourites."))
	}

	view := m.catalogList.View()
	if len(notes) > 0 {
		view = strings.Join(notes, "\n") + "\n\n" + view
	}
	return view
}

func (m *Model) renderSaved() string {
	if m.state == session.Degraded {
		return m.palette.warn.Render(session.DegradedMessage)
	}
	if m.loading {
		return m.palette.help.Render("Loading...")
	}
	if len(m.savedList.Items()) == 0 {
		return m.palette.title.Render(m.view.listKind().Label()) + "\n" +
			m.palette.text.Render("Nothing saved yet. Press 1 to browse the catalog.")
	}
	return m.savedList.View()
}

func (m *Model) renderSettings() string {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	rows := []string{
		m.palette.title.Render("Settings"),
		fmt.Sprintf("Theme          %s", m.deps.Theme.Current()),
		fmt.Sprintf("Autoplay       %s", onOff(m.prefs.Autoplay)),
		fmt.Sprintf("Notifications  %s", onOff(m.prefs.Notifications)),
		fmt.Sprintf("Subtitles      %s", m.prefs.Subtitles),
		fmt.Sprintf("Quality        %s", m.prefs.Quality),
	}
	return m.palette.text.Render(strings.Join(rows, "\n"))
}

func (m *Model) renderHelp() string {
	var keys []key.Binding
	switch m.view {
	case CatalogView:
		keys = []key.Binding{m.keys.favourite, m.keys.later, m.keys.open}
	case FavouritesView, WatchLaterView:
		if m.state != session.Degraded {
			keys = []key.Binding{m.keys.remove, m.keys.open}
		}
	case SettingsView:
		keys = []key.Binding{m.keys.autoplay, m.keys.notify, m.keys.subtitles, m.keys.quality}
	}
	keys = append(keys, m.keys.next, m.keys.reload, m.keys.theme, m.keys.quit)
	return m.help.ShortHelpView(keys)
}
