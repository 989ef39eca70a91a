// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Live pipeline board and sync panel fed by store change notifications
package tui

import (
	"context"
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/models"
	"github.com/harperreed/fieldsync/sync"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewPipeline ViewMode = iota
	ViewSync
)

// storeChangedMsg is sent whenever a watched table changes.
type storeChangedMsg struct{}

// Model is the main bubbletea model
type Model struct {
	database *sql.DB
	broker   *db.Broker
	engine   *sync.Engine

	viewMode ViewMode

	// Pipeline view state
	leads       []models.Lead
	selectedRow int

	// Sync view state
	status       *sync.EngineStatus
	syncInFlight bool
	syncMessages []string

	// Store change subscription
	changed <-chan struct{}
	cancel  func()

	// UI state
	width  int
	height int
}

// NewModel creates a new TUI model subscribed to store changes.
func NewModel(database *sql.DB, broker *db.Broker, engine *sync.Engine) Model {
	changed, cancel := broker.Subscribe("leads", "outbox", "media", "settings")

	m := Model{
		database: database,
		broker:   broker,
		engine:   engine,
		viewMode: ViewPipeline,
		changed:  changed,
		cancel:   cancel,
		width:    80,
		height:   24,
	}
	m.reload()
	return m
}

// Run starts the interactive program and blocks until it exits.
func Run(database *sql.DB, broker *db.Broker, engine *sync.Engine) error {
	m := NewModel(database, broker, engine)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks on the broker subscription and turns each signal into
// a message. Signals are coalesced by the broker, so one reload covers a
// burst of writes.
func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changed
		return storeChangedMsg{}
	}
}

// reload refreshes both views' snapshots from the store.
func (m *Model) reload() {
	if leads, err := db.ListLeads(m.database); err == nil {
		m.leads = leads
	}
	if m.selectedRow >= len(m.leads) && len(m.leads) > 0 {
		m.selectedRow = len(m.leads) - 1
	}
	if status, err := m.engine.Status(); err == nil {
		m.status = status
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case storeChangedMsg:
		m.reload()
		return m, m.waitForChange()

	case SyncCompleteMsg:
		cmd := m.handleSyncComplete(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewPipeline:
		return m.renderPipelineView()
	case ViewSync:
		return m.renderSyncView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.cancel()
		return m, tea.Quit
	case "tab":
		if m.viewMode == ViewPipeline {
			m.viewMode = ViewSync
		} else {
			m.viewMode = ViewPipeline
		}
		return m, nil
	case "s":
		return m.startSync()
	case "r":
		m.reload()
		return m, nil
	}

	switch m.viewMode {
	case ViewPipeline:
		return m.handlePipelineKeys(msg)
	case ViewSync:
		return m.handleSyncKeys(msg)
	}
	return m, nil
}

// startSync kicks off a background sync pass unless one is already running.
func (m Model) startSync() (tea.Model, tea.Cmd) {
	if m.syncInFlight {
		return m, nil
	}
	m.syncInFlight = true
	m.addSyncMessage("Starting sync pass...")
	return m, m.runSync()
}

func (m Model) runSync() tea.Cmd {
	return func() tea.Msg {
		err := m.engine.Trigger(context.Background())
		return SyncCompleteMsg{Error: err}
	}
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)

func (m Model) renderTabs() string {
	tabs := []string{"Pipeline", "Sync"}
	var rendered []string

	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
