package sifter

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"sifter/builder"
	"sifter/config"
	"sifter/detail"
	nt "sifter/entity"
	"sifter/message"
	"sifter/piece"
	"sifter/search"
	"sifter/style"
	"sifter/table"
)

const (
	headerHeight      = 2
	footerHeight      = 2
	maxLocationLength = 2048
)

// Model is the bubbletea model for the dataset browser TUI.
type Model struct {
	source    Source
	searchCfg *search.Config

	location piece.TextInput
	criteria builder.CriteriaPanel
	results  table.ResultPanel
	detail   detail.DetailPanel
	focus    Focus

	showDetail bool

	pending     string // Location being loaded
	name        string // Location last loaded
	loading     bool
	errorString string

	result   nt.Result
	filtered []nt.Record

	width  int
	height int

	ctx    context.Context
	logger nt.Logger
}

// NewModel creates a new bt model, loading cfg.Source on Init when set.
func NewModel(ctx context.Context, source Source, cfg *config.Config, lgr nt.Logger) Model {

	m := Model{
		source:    source,
		searchCfg: &cfg.Search,
		location:  piece.NewTextInput(cfg.Source, maxLocationLength),
		criteria:  builder.NewCriteriaPanel(ctx, cfg.Group(), nil, lgr),
		results:   table.NewResultPanel(ctx, lgr),
		focus:     LocationFocus,
		ctx:       ctx,
		logger:    lgr,
	}

	if cfg.Source != "" {
		m.pending = cfg.Source
		m.loading = true
		m.focus = ResultsFocus
	}

	return m
}

func (m Model) Init() tea.Cmd {
	if m.pending == "" {
		return nil
	}
	return m.load(m.pending)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {

	m, cmd := m.update(msg)
	return m.layout(), cmd
}

func (m Model) View() tea.View {
	if m.width == 0 {
		return tea.NewView("Loading...")
	}

	locationContent := m.label("Location", LocationFocus) + m.location.Render(m.focus == LocationFocus)
	locationLayer := lipgloss.NewLayer("location", locationContent)

	criteriaContent := m.label("Criteria", CriteriaFocus) + "\n" + m.criteria.Render(m.focus == CriteriaFocus)
	criteriaLayer := lipgloss.NewLayer("criteria", criteriaContent).Y(headerHeight)

	resultsContent := m.results.Render(m.focus == ResultsFocus)
	if m.showDetail {
		resultsContent = m.detail.Render()
	}
	resultsLayer := lipgloss.NewLayer("results", resultsContent).Y(m.resultsTop())

	footerContent := RenderFooter(len(m.result.Data), len(m.filtered), m.loading, m.name, m.width)
	if m.errorString != "" {
		footerContent = style.WarnStyle.Render(m.errorString)
	}
	footerLayer := lipgloss.NewLayer("footer", footerContent).Y(m.height - footerHeight)

	// Compose layers on canvas
	canvas := lipgloss.NewCanvas(m.width, m.height)
	canvas.Compose(locationLayer)
	canvas.Compose(criteriaLayer)
	canvas.Compose(resultsLayer)
	canvas.Compose(footerLayer)

	view := tea.NewView(canvas)
	view.AltScreen = true
	return view
}

// Filtered returns the records matching the current criteria.
func (m Model) Filtered() []nt.Record {
	return m.filtered
}

// Loading reports whether a fetch is outstanding.
func (m Model) Loading() bool {
	return m.loading
}

// Focused returns the panel receiving key presses.
func (m Model) Focused() Focus {
	return m.focus
}

// unexported

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case message.LoadedMsg:
		if msg.Location != m.pending {
			return m, nil // superseded
		}
		m.loading = false
		m.name = msg.Location
		m.result = msg.Result
		m.criteria = m.criteria.SetColumns(msg.Result.Columns)
		m.showDetail = false
		return m.refilter(), nil

	case message.ErrorMsg:
		if msg.Location != "" && msg.Location != m.pending {
			m.logger.Error(m.ctx, "superseded load failed", msg.Err, "location", msg.Location)
			return m, nil
		}
		m.logger.Error(m.ctx, "error msg", msg.Err)
		m.errorString = msg.Err.Error()
		if msg.Location != "" {
			m.loading = false
		}
		return m, nil

	case message.CriteriaChangedMsg:
		return m.refilter(), nil

	case tea.KeyPressMsg:
		m.errorString = ""

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+o":
			m.focus = LocationFocus
			return m, nil

		case "ctrl+f":
			m.focus = CriteriaFocus
			return m, nil

		case "ctrl+t":
			m.focus = ResultsFocus
			return m, nil
		}

		return m.keyPress(msg)
	}

	return m, nil
}

func (m Model) keyPress(msg tea.KeyPressMsg) (Model, tea.Cmd) {

	var cmd tea.Cmd

	switch m.focus {
	case LocationFocus:
		if msg.String() == "enter" {
			location := m.location.Value()
			if location == "" {
				return m, nil
			}
			m.pending = location
			m.loading = true
			return m, m.load(location)
		}
		m.location, _ = m.location.Update(msg)

	case CriteriaFocus:
		m.criteria, cmd = m.criteria.Update(msg)

	case ResultsFocus:
		return m.resultsKeyPress(msg), nil
	}

	return m, cmd
}

func (m Model) resultsKeyPress(msg tea.KeyPressMsg) Model {

	if m.showDetail {
		if msg.String() == "esc" {
			m.showDetail = false
			return m
		}
		m.detail = m.detail.Update(msg)
		return m
	}

	if msg.String() == "enter" {
		rec, err := m.results.Selected()
		if err != nil {
			return m
		}
		m.detail = m.detail.SetRecord(rec)
		m.showDetail = true
		return m
	}

	m.results = m.results.Update(msg)
	return m
}

// layout sizes the panels to the window
func (m Model) layout() Model {

	criteriaHeight := m.criteria.Height() + 1
	m.criteria = m.criteria.SetSize(m.width, criteriaHeight)

	resultsHeight := m.height - m.resultsTop() - footerHeight
	m.results = m.results.SetSize(m.width, max(resultsHeight, 0))
	m.detail = m.detail.SetSize(m.width, max(resultsHeight, 0))

	return m
}

func (m Model) resultsTop() int {
	return headerHeight + m.criteria.Height() + 2
}

func (m Model) label(text string, fcs Focus) string {
	text += ": "
	if m.focus == fcs {
		return style.TitleStyle.Render(text)
	}
	return style.MutedStyle.Render(text)
}
