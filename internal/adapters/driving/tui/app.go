// Package tui provides the interactive search interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
	"github.com/quarrylabs/strata-cli/internal/core/ports/driving"
)

// ErrNoRetrievalService is returned when the app is created without a
// retrieval service.
var ErrNoRetrievalService = errors.New("retrieval service is required")

// searchModes is the mode cycle order for the Tab key.
var searchModes = []domain.SearchMode{
	domain.SearchModeHybrid,
	domain.SearchModeVector,
	domain.SearchModeGraph,
}

// state tracks what the status bar shows.
type state int

const (
	stateReady state = iota
	stateSearching
	stateResults
	stateError
)

// searchCompleted carries search results back into the update loop.
type searchCompleted struct {
	results []domain.SearchResult
	err     error
}

// App is the bubbletea model for the search interface.
type App struct {
	styles    *Styles
	input     textinput.Model
	retrieval driving.RetrievalService
	ctx       context.Context

	mode     domain.SearchMode
	results  []domain.SearchResult
	selected int
	state    state
	err      error

	width      int
	height     int
	ready      bool
	focusInput bool
}

// NewApp creates the search interface backed by the given service.
func NewApp(retrieval driving.RetrievalService) (*App, error) {
	if retrieval == nil {
		return nil, ErrNoRetrievalService
	}

	ti := textinput.New()
	ti.Placeholder = "Enter search query..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &App{
		styles:     DefaultStyles(),
		input:      ti,
		retrieval:  retrieval,
		ctx:        context.Background(),
		mode:       domain.SearchModeHybrid,
		width:      80,
		height:     24,
		focusInput: true,
	}, nil
}

// WithContext sets the context used for searches.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init initialises the app.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 12
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case searchCompleted:
		a.handleSearchCompleted(msg)
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Keys that apply in both modes.
	switch msg.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit

	case tea.KeyTab:
		a.cycleMode()
		return a, nil

	case tea.KeyEsc:
		if !a.focusInput {
			// Back to the query input.
			a.focusInput = true
			a.input.Focus()
			return a, nil
		}
		return a, tea.Quit

	case tea.KeyEnter:
		if !a.focusInput {
			return a, nil
		}
		query := strings.TrimSpace(a.input.Value())
		if query == "" {
			return a, nil
		}
		a.state = stateSearching
		a.err = nil
		return a, a.performSearch(query)
	}

	if a.focusInput {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	// Results mode navigation.
	switch msg.String() {
	case "up", "k":
		if a.selected > 0 {
			a.selected--
		}
	case "down", "j":
		if a.selected < len(a.results)-1 {
			a.selected++
		}
	case "n":
		a.focusInput = true
		a.input.Focus()
		a.input.SetValue("")
	case "q":
		return a, tea.Quit
	}

	return a, nil
}

// cycleMode advances to the next search mode.
func (a *App) cycleMode() {
	for i, m := range searchModes {
		if m == a.mode {
			a.mode = searchModes[(i+1)%len(searchModes)]
			return
		}
	}
	a.mode = searchModes[0]
}

func (a *App) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.retrieval.Search(a.ctx, query, domain.SearchOptions{Mode: a.mode})
		return searchCompleted{results: results, err: err}
	}
}

func (a *App) handleSearchCompleted(msg searchCompleted) {
	if msg.err != nil {
		a.err = msg.err
		a.state = stateError
		return
	}

	a.err = nil
	a.results = msg.results
	a.selected = 0
	a.state = stateResults
	a.focusInput = false
	a.input.Blur()
}

// View renders the interface.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	header := lipgloss.JoinHorizontal(
		lipgloss.Center,
		a.styles.Title.Render("Strata"),
		a.styles.Muted.Render("  mode: "),
		a.styles.Mode.Render(string(a.mode)),
	)
	sections = append(sections, header, "")

	sections = append(sections, a.styles.Normal.Render("Search: ")+a.input.View(), "")

	if a.err != nil {
		sections = append(sections, a.styles.Error.Render("Error: "+a.err.Error()), "")
	}

	sections = append(sections, a.renderResults())
	sections = append(sections, "", a.renderStatus())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderResults() string {
	if a.state != stateResults {
		return a.styles.Muted.Render("No results yet.")
	}
	if len(a.results) == 0 {
		return a.styles.Muted.Render("No results found.")
	}

	lines := make([]string, 0, len(a.results)*2)
	for i := range a.results {
		doc := &a.results[i].Document

		line := fmt.Sprintf("  %s (%.4f)", doc.ID, a.results[i].Score)
		if i == a.selected && !a.focusInput {
			line = a.styles.Selected.Render("> " + strings.TrimLeft(line, " "))
		} else {
			line = a.styles.Normal.Render(line)
		}
		lines = append(lines, line)

		preview := strings.ReplaceAll(doc.Preview(), "\n", " ")
		if a.width > 8 && len(preview) > a.width-8 {
			preview = preview[:a.width-8]
		}
		lines = append(lines, a.styles.Muted.Render("    "+preview))
	}

	return strings.Join(lines, "\n")
}

func (a *App) renderStatus() string {
	var left string
	switch a.state {
	case stateSearching:
		left = "Searching..."
	case stateResults:
		left = fmt.Sprintf("%d results", len(a.results))
	case stateError:
		left = "Error"
	default:
		left = "Ready"
	}

	hints := "enter search · tab mode · esc back · ctrl+c quit"
	if !a.focusInput {
		hints = "j/k navigate · n new search · q quit"
	}

	bar := left + "  " + hints
	return a.styles.Status.Width(a.width).Render(bar)
}

// Mode returns the current search mode.
func (a *App) Mode() domain.SearchMode {
	return a.mode
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.results
}

// Selected returns the index of the selected result.
func (a *App) Selected() int {
	return a.selected
}

// InputFocused reports whether the query input has focus.
func (a *App) InputFocused() bool {
	return a.focusInput
}

// Err returns the current error, if any.
func (a *App) Err() error {
	return a.err
}
