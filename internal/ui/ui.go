package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/hokage/internal/catalog"
	"github.com/desertthunder/hokage/internal/lists"
	"github.com/desertthunder/hokage/internal/models"
	"github.com/desertthunder/hokage/internal/session"
	"github.com/desertthunder/hokage/internal/shared"
	"github.com/desertthunder/hokage/internal/theme"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CatalogView ViewState = iota
	FavouritesView
	WatchLaterView
	SettingsView
)

var views = []ViewState{CatalogView, FavouritesView, WatchLaterView, SettingsView}

func (v ViewState) String() string {
	switch v {
	case FavouritesView:
		return "Favourites"
	case WatchLaterView:
		return "Watch Later"
	case SettingsView:
		return "Settings"
	default:
		return "Catalog"
	}
}

// capability is what the view needs from the session.
func (v ViewState) capability() session.Capability {
	if v == FavouritesView || v == WatchLaterView {
		return session.IdentityRequired
	}
	return session.AnonymousOK
}

func (v ViewState) listKind() models.ListKind {
	if v == WatchLaterView {
		return models.WatchLater
	}
	return models.Favourites
}

// PreferencesStore persists playback preferences.
type PreferencesStore interface {
	Get(ctx context.Context) (models.Preferences, error)
	Save(ctx context.Context, p models.Preferences) error
}

// Deps are the shared session components the TUI drives.
type Deps struct {
	Gate   *session.Gate
	Cache  *catalog.Cache
	Remote lists.Remote
	Token  func(ctx context.Context) (string, error)
	Theme  *theme.Broadcaster
	Prefs  PreferencesStore
	Open   func(url string) error
	Logger *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	deps   Deps
	logger *log.Logger

	view     ViewState
	state    session.State
	identity *models.Identity
	syncs    map[models.ListKind]*lists.Synchronizer
	removals map[models.ListKind]*lists.RemovalView

	width       int
	height      int
	catalogList list.Model
	savedList   list.Model
	prefs       models.Preferences
	loading     bool
	status      string
	statusErr   bool
	sectionErrs map[catalog.Section]error

	palette     *Palette
	themeCh     chan struct{}
	unsubscribe func()
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model with the provided dependencies and subscribes it to theme changes.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = shared.NewLogger(io.Discard)
	}
	if deps.Open == nil {
		deps.Open = shared.OpenBrowser
	}

	m := &Model{
		ctx:     ctx,
		deps:    deps,
		logger:  shared.WithLogger(deps.Logger, "component", "tui"),
		view:    CatalogView,
		prefs:   models.DefaultPreferences(),
		palette: PaletteFor(deps.Theme.Current()),
		themeCh: make(chan struct{}, 1),
		help:    help.New(),
		keys:    newKeyMap(),
	}
	// Pending wake-ups coalesce; the handler always reads the current theme.
	m.unsubscribe = deps.Theme.Subscribe(func(models.Theme) {
		select {
		case m.themeCh <- struct{}{}:
		default:
		}
	})

	m.catalogList = m.newList("Anime Catalog", nil)
	m.catalogList.Filter = substringFilter
	m.savedList = m.newList("", nil)
	m.buildSyncs(nil)
	return m
}

func (m *Model) newList(title string, items []list.Item) list.Model {
	l := list.New(items, m.palette.Delegate(), max(m.width-4, 0), max(m.height-8, 0))
	l.Title = title
	l.Styles.Title = l.Styles.Title.Background(m.palette.accent)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

// Close detaches the model from the theme broadcaster.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// buildSyncs creates the synchronizers for identity; a nil identity yields synchronizers that refuse writes.
func (m *Model) buildSyncs(identity *models.Identity) {
	m.syncs = map[models.ListKind]*lists.Synchronizer{}
	m.removals = map[models.ListKind]*lists.RemovalView{}
	for _, kind := range models.ListKinds {
		s := lists.New(kind, identity, m.deps.Cache, m.deps.Remote, m.deps.Token, m.deps.Logger)
		m.syncs[kind] = s
		m.removals[kind] = lists.NewRemovalView(s)
	}
}

// Init enters the catalog view and starts listening for theme changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.enter(CatalogView), m.loadPrefs(), m.waitForTheme())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.catalogList.SetSize(msg.Width-4, msg.Height-8)
		m.savedList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case sessionMsg:
		if msg.view != m.view {
			return m, nil
		}
		return m.handleSession(msg)

	case catalogLoadedMsg:
		m.loading = false
		m.sectionErrs = msg.snapshot.Errors
		if err := msg.snapshot.Err(catalog.SectionCatalog); err != nil {
			m.setStatus(fmt.Sprintf("Could not load the catalog: %v", err), true)
		}
		return m, m.refreshCatalog()

	case savedLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Failed to load %s. Please try again later.", msg.kind.Label()), true)
			m.logger.Warn("failed to load list", "list", msg.kind, "error", msg.err)
			return m, nil
		}
		return m, m.refreshSaved()

	case toggleStartedMsg:
		return m, tea.Batch(m.refreshCatalog(), m.commit(msg))

	case toggledMsg:
		m.reportChange(msg.kind, msg.outcome, msg.err)
		return m, m.refreshCatalog()

	case removedMsg:
		m.reportChange(msg.kind, msg.outcome, msg.err)
		return m, tea.Batch(m.refreshSaved(), m.refreshCatalog())

	case themeChangedMsg:
		m.applyTheme(m.deps.Theme.Current())
		return m, m.waitForTheme()

	case themeToggledMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Could not save theme: %v", msg.err), true)
		}
		return m, nil

	case prefsMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Could not save settings: %v", msg.err), true)
			return m, nil
		}
		m.prefs = msg.prefs
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleSession(msg sessionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.loading = false
		m.setStatus(fmt.Sprintf("Could not read session: %v", msg.err), true)
		return m, nil
	}

	if !sameIdentity(m.identity, msg.identity) {
		m.identity = msg.identity
		m.buildSyncs(msg.identity)
	}
	m.state = msg.state

	switch {
	case msg.view == CatalogView:
		return m, m.loadCatalog()
	case msg.view == SettingsView:
		m.loading = false
		return m, nil
	case msg.state == session.Degraded:
		m.loading = false
		m.savedList.SetItems(nil)
		return m, nil
	default:
		return m, m.loadSaved(msg.view.listKind())
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.activeListFiltering() {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		return m, m.enter(views[(slices.Index(views, m.view)+1)%len(views)])
	case key.Matches(msg, m.keys.catalog):
		return m, m.enter(CatalogView)
	case key.Matches(msg, m.keys.favourites):
		return m, m.enter(FavouritesView)
	case key.Matches(msg, m.keys.watchLater):
		return m, m.enter(WatchLaterView)
	case key.Matches(msg, m.keys.settings):
		return m, m.enter(SettingsView)
	case key.Matches(msg, m.keys.theme):
		return m, m.toggleTheme()
	case key.Matches(msg, m.keys.reload):
		return m, m.enter(m.view)
	}

	switch m.view {
	case CatalogView:
		return m.handleCatalogKeys(msg)
	case FavouritesView, WatchLaterView:
		return m.handleSavedKeys(msg)
	case SettingsView:
		return m.handleSettingsKeys(msg)
	}
	return m, nil
}

func (m *Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item, ok := m.catalogList.SelectedItem().(entryItem)

	switch {
	case ok && key.Matches(msg, m.keys.favourite):
		return m, m.toggle(models.Favourites, item.entry.ID)
	case ok && key.Matches(msg, m.keys.later):
		return m, m.toggle(models.WatchLater, item.entry.ID)
	case ok && key.Matches(msg, m.keys.open):
		return m, m.open(item.entry.EmbedURL)
	}

	var cmd tea.Cmd
	m.catalogList, cmd = m.catalogList.Update(msg)
	return m, cmd
}

func (m *Model) handleSavedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == session.Degraded {
		return m, nil
	}

	item, ok := m.savedList.SelectedItem().(savedItem)
	switch {
	case ok && key.Matches(msg, m.keys.remove):
		return m, m.remove(m.view.listKind(), item.saved.EntryID())
	case ok && key.Matches(msg, m.keys.open):
		return m, m.open(item.saved.EmbedURL)
	}

	var cmd tea.Cmd
	m.savedList, cmd = m.savedList.Update(msg)
	return m, cmd
}

func (m *Model) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next := m.prefs
	switch {
	case key.Matches(msg, m.keys.autoplay):
		next.Autoplay = !next.Autoplay
	case key.Matches(msg, m.keys.notify):
		next.Notifications = !next.Notifications
	case key.Matches(msg, m.keys.subtitles):
		next.Subtitles = cycle(models.SubtitleOptions, next.Subtitles)
	case key.Matches(msg, m.keys.quality):
		next.Quality = cycle(models.QualityOptions, next.Quality)
	default:
		return m, nil
	}
	return m, m.savePrefs(next)
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CatalogView:
		m.catalogList, cmd = m.catalogList.Update(msg)
	case FavouritesView, WatchLaterView:
		m.savedList, cmd = m.savedList.Update(msg)
	}
	return m, cmd
}

func (m *Model) activeListFiltering() bool {
	switch m.view {
	case CatalogView:
		return m.catalogList.FilterState() == list.Filtering
	case FavouritesView, WatchLaterView:
		return m.savedList.FilterState() == list.Filtering
	}
	return false
}

func (m *Model) reportChange(kind models.ListKind, outcome lists.Outcome, err error) {
	switch {
	case errors.Is(err, shared.ErrUnauthorized):
		m.setStatus(fmt.Sprintf("Please log in to save %s.", kind.Label()), true)
	case err != nil:
		m.setStatus(err.Error(), true)
		m.logger.Warn("list change failed", "list", kind, "error", err)
	case outcome == lists.OutcomeAdded:
		m.setStatus(fmt.Sprintf("Added to %s", kind.Label()), false)
	case outcome == lists.OutcomeRemoved:
		m.setStatus(fmt.Sprintf("Removed from %s", kind.Label()), false)
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) applyTheme(t models.Theme) {
	m.palette = PaletteFor(t)
	for _, l := range []*list.Model{&m.catalogList, &m.savedList} {
		l.SetDelegate(m.palette.Delegate())
		l.Styles.Title = l.Styles.Title.Background(m.palette.accent)
	}
}

// refreshCatalog rebuilds catalog items from the shared cache.
func (m *Model) refreshCatalog() tea.Cmd {
	entries := m.deps.Cache.Entries()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{
			entry:      e,
			favourite:  m.deps.Cache.IsMember(models.Favourites, e.ID),
			watchLater: m.deps.Cache.IsMember(models.WatchLater, e.ID),
			busy:       m.syncs[models.Favourites].InFlight(e.ID) || m.syncs[models.WatchLater].InFlight(e.ID),
		}
	}
	return m.catalogList.SetItems(items)
}

// refreshSaved rebuilds the saved list items for the current view.
func (m *Model) refreshSaved() tea.Cmd {
	if m.view != FavouritesView && m.view != WatchLaterView {
		return nil
	}
	kind := m.view.listKind()
	m.savedList.Title = kind.Label()

	saved := m.removals[kind].Items()
	items := make([]list.Item, len(saved))
	for i, s := range saved {
		items[i] = savedItem{saved: s, busy: m.syncs[kind].InFlight(s.EntryID())}
	}
	return m.savedList.SetItems(items)
}

func sameIdentity(a, b *models.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.UserID == b.UserID
}

func cycle(options []string, current string) string {
	i := slices.Index(options, current)
	return options[(i+1)%len(options)]
}
