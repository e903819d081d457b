package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/movieplex/internal/formatter"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/services"
	"github.com/desertthunder/movieplex/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HomeView ViewState = iota
	MoviesView
	SearchView
	DetailView
)

// Lists toggles movies on the personal lists.
type Lists interface {
	Toggle(ctx context.Context, list models.ListName, m models.Movie) (bool, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	back         ViewState
	movies       services.Movies
	engine       *tasks.Engine
	lists        Lists
	debouncer    *tasks.Debouncer
	width        int
	height       int
	loading      bool
	searching    bool
	progressChan chan tasks.ProgressUpdate
	homeDone     chan Msg
	progress     tasks.ProgressUpdate
	sections     list.Model
	movieList    list.Model
	query        textinput.Model
	detail       *models.Movie
	viewport     viewport.Model
	demo         bool
	flash        string
	err          error
	spinner      spinner.Model
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies. lists may be nil, which disables the
// favorite and watchlist keys.
func NewModel(ctx context.Context, movies services.Movies, engine *tasks.Engine, lists Lists) *Model {
	query := textinput.New()
	query.Placeholder = "Search movies"
	query.CharLimit = 100
	query.Prompt = "/ "

	m := &Model{
		ctx:       ctx,
		view:      HomeView,
		movies:    movies,
		engine:    engine,
		lists:     lists,
		debouncer: tasks.NewDebouncer(tasks.DefaultDebounce),
		sections:  newList("movieplex"),
		movieList: newList(""),
		query:     query,
		viewport:  viewport.New(0, 0),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:      help.New(),
		keys:      newKeyMap(),
	}
	return m
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

// Init starts loading the homepage sections.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadHome())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.searching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case HomeView:
			return m.handleHomeKeys(msg)
		case MoviesView:
			return m.handleMoviesKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress(m.progressChan, m.homeDone)

	case MsgHomeLoaded:
		data := msg.data.(homeLoaded)
		m.loading = false
		m.progressChan, m.homeDone = nil, nil
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		return m, m.showHome(data.result)

	case MsgPageLoaded:
		data := msg.data.(pageLoaded)
		m.loading = false
		return m, m.showPage(data.title, data.page)

	case MsgSearchTick:
		q, ok := m.debouncer.Fire(msg.data.(uint64))
		if !ok {
			return m, nil
		}
		m.searching = true
		return m, tea.Batch(m.spinner.Tick, m.runSearch(msg.data.(uint64), q))

	case MsgSearchResults:
		data := msg.data.(searchResults)
		if !m.debouncer.Arrive(data.seq) {
			return m, nil
		}
		m.searching = false
		m.demo = data.page.Fallback()
		m.movieList.Title = fmt.Sprintf("Results for %q", data.query)
		m.movieList.ResetSelected()
		return m, m.movieList.SetItems(movieItems(data.page.Results))

	case MsgDetailLoaded:
		data := msg.data.(detailLoaded)
		m.loading = false
		if data.err != nil {
			m.flash = styles.err.Render(data.err.Error())
			return m, nil
		}
		m.showDetail(data.movie)
		return m, nil

	case MsgListToggled:
		data := msg.data.(listToggled)
		switch {
		case data.err != nil:
			m.flash = styles.err.Render(data.err.Error())
		case data.on:
			m.flash = styles.ok.Render(fmt.Sprintf("✓ Added %s to %s", data.title, data.list))
		default:
			m.flash = styles.warn.Render(fmt.Sprintf("Removed %s from %s", data.title, data.list))
		}
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	var body string
	switch m.view {
	case HomeView:
		body = m.renderHome()
	case MoviesView:
		body = m.renderMovies()
	case SearchView:
		body = m.renderSearch()
	case DetailView:
		body = m.renderDetail()
	}

	var b strings.Builder
	if m.demo {
		b.WriteString(styles.warn.Render(formatter.DemoNotice) + "\n\n")
	}
	b.WriteString(body)
	if m.flash != "" {
		b.WriteString("\n" + m.flash)
	}
	return b.String()
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.sections.SetSize(width-4, height-8)
	m.movieList.SetSize(width-4, height-10)
	m.viewport.Width = width - 4
	m.viewport.Height = height - 6
	m.query.Width = max(width-8, 10)
}

func (m *Model) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		return m, m.enterSearch()
	case key.Matches(msg, m.keys.reload):
		if m.loading {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, m.loadHome())
	case key.Matches(msg, m.keys.enter):
		switch item := m.sections.SelectedItem().(type) {
		case sectionItem:
			if item.err != nil {
				return m, nil
			}
			return m, m.showPage(item.name, item.page)
		case moodItem:
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchMood(item.mood))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.sections, cmd = m.sections.Update(msg)
	return m, cmd
}

func (m *Model) handleMoviesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = HomeView
		m.flash = ""
		return m, nil
	case key.Matches(msg, m.keys.search):
		return m, m.enterSearch()
	case key.Matches(msg, m.keys.enter):
		return m, m.openSelected()
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

// handleSearchKeys sends arrows and enter to the result list and everything else to the input, so letters
// like q and j can be typed.
func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.debouncer.Cancel()
		m.searching = false
		m.query.Blur()
		m.view = HomeView
		return m, nil
	case tea.KeyEnter:
		return m, m.openSelected()
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.movieList, cmd = m.movieList.Update(msg)
		return m, cmd
	}

	before := m.query.Value()
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	if m.query.Value() == before {
		return m, cmd
	}

	seq, delay := m.debouncer.Keystroke(m.query.Value())
	if delay == 0 {
		m.searching = false
		m.movieList.Title = ""
		return m, tea.Batch(cmd, m.movieList.SetItems(nil))
	}
	return m, tea.Batch(cmd, tea.Tick(delay, func(time.Time) tea.Msg { return searchTickMsg(seq) }))
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = m.back
		m.flash = ""
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		return m, m.toggle(models.Favorites)
	case key.Matches(msg, m.keys.watchlist):
		return m, m.toggle(models.Watchlist)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) enterSearch() tea.Cmd {
	m.view = SearchView
	m.flash = ""
	m.query.SetValue("")
	m.debouncer.Cancel()
	m.movieList.Title = ""
	return tea.Batch(m.query.Focus(), m.movieList.SetItems(nil))
}

func (m *Model) showHome(result *tasks.HomeResult) tea.Cmd {
	items := make([]list.Item, 0, len(result.Sections)+len(services.Moods()))
	m.demo = false
	for _, s := range result.Sections {
		items = append(items, sectionItem{name: s.Name, page: s.Page, err: s.Err})
		if s.Err == nil && s.Page.Fallback() {
			m.demo = true
		}
	}
	for _, mood := range services.Moods() {
		items = append(items, moodItem{mood: mood})
	}
	return m.sections.SetItems(items)
}

func (m *Model) showPage(title string, p models.Page) tea.Cmd {
	m.view = MoviesView
	m.flash = ""
	m.demo = p.Fallback()
	m.movieList.Title = title
	m.movieList.ResetSelected()
	return m.movieList.SetItems(movieItems(p.Results))
}

func (m *Model) showDetail(movie models.Movie) {
	m.detail = &movie
	m.back = m.view
	m.view = DetailView
	m.flash = ""
	m.demo = movie.Source == models.SourceFallback
	m.viewport.SetContent(formatter.MovieCard(movie))
	m.viewport.GotoTop()
}

func (m *Model) openSelected() tea.Cmd {
	item, ok := m.movieList.SelectedItem().(movieItem)
	if !ok {
		return nil
	}
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.fetchDetail(item.movie.ID))
}

func (m *Model) loadHome() tea.Cmd {
	m.loading = true
	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan Msg, 1)
	m.progressChan, m.homeDone = progress, done

	go func() {
		result, err := m.engine.LoadHome(m.ctx, progress)
		close(progress)
		done <- homeLoadedMsg(result, err)
	}()

	return m.waitForProgress(progress, done)
}

func (m *Model) waitForProgress(progress <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) fetchMood(mood string) tea.Cmd {
	return func() tea.Msg {
		return pageLoadedMsg("Mood: "+mood, m.movies.ByMood(m.ctx, mood, 1))
	}
}

func (m *Model) runSearch(seq uint64, query string) tea.Cmd {
	return func() tea.Msg {
		return searchResultsMsg(seq, query, m.movies.Search(m.ctx, query, 1, models.FilterSpec{}))
	}
}

func (m *Model) fetchDetail(id models.MovieID) tea.Cmd {
	return func() tea.Msg {
		movie, err := m.movies.Detail(m.ctx, id, true)
		return detailLoadedMsg(movie, err)
	}
}

func (m *Model) toggle(name models.ListName) tea.Cmd {
	if m.detail == nil {
		return nil
	}
	if m.lists == nil {
		m.flash = styles.warn.Render("lists are not available without a database")
		return nil
	}

	movie := *m.detail
	return func() tea.Msg {
		on, err := m.lists.Toggle(m.ctx, name, movie)
		return listToggledMsg(name, movie.Title, on, err)
	}
}

func (m *Model) renderHome() string {
	if m.loading && len(m.sections.Items()) == 0 {
		status := "Loading sections..."
		if m.progress.Total > 0 {
			status = fmt.Sprintf("Loading sections (%d/%d) %s", m.progress.Step, m.progress.Total, m.progress.Message)
		}
		return fmt.Sprintf("%s %s", m.spinner.View(), status)
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.reload, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.sections.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderMovies() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.back, m.keys.quit}
	view := m.movieList.View()
	if m.loading {
		view += "\n" + m.spinner.View() + " loading details..."
	}
	return fmt.Sprintf("%s\n\n%s", view, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(m.query.View() + "\n\n")

	switch {
	case m.searching:
		b.WriteString(m.spinner.View() + " searching...\n")
	case m.query.Value() != "" && len(m.movieList.Items()) == 0 && m.movieList.Title != "":
		b.WriteString(styles.help.Render("no matches") + "\n")
	case len(m.movieList.Items()) > 0:
		b.WriteString(m.movieList.View() + "\n")
	}

	enter := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details"))
	helpKeys := []key.Binding{enter, m.keys.back}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderDetail() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.up, m.keys.down, m.keys.quit}
	if m.lists != nil {
		helpKeys = append(helpKeys, m.keys.favorite, m.keys.watchlist)
	}
	return fmt.Sprintf("%s\n\n%s", m.viewport.View(), m.help.ShortHelpView(helpKeys))
}
