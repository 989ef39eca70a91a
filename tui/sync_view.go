// ABOUTME: TUI view for sync status and controls
// ABOUTME: Shows engine state, queue depths, and a recent activity log
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/fieldsync/db"
)

var (
	syncHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	syncLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(16)

	syncIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	syncSyncingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)

	syncErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	syncMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)
)

// SyncCompleteMsg is sent when a sync pass finishes.
type SyncCompleteMsg struct {
	Error error
}

func (m Model) renderSyncView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Sync Status"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	s.WriteString(syncHeaderStyle.Render("Engine"))
	s.WriteString("\n\n")

	if m.status == nil {
		s.WriteString(syncMessageStyle.Render("No sync status available."))
		s.WriteString("\n")
	} else {
		s.WriteString(syncLabelStyle.Render("State"))
		s.WriteString(m.renderEngineState())
		s.WriteString("\n")

		s.WriteString(syncLabelStyle.Render("Last sync"))
		if m.status.LastSync != nil {
			s.WriteString(formatTimeSince(*m.status.LastSync))
		} else {
			s.WriteString(syncMessageStyle.Render("never"))
		}
		s.WriteString("\n")

		s.WriteString(syncLabelStyle.Render("Pending leads"))
		s.WriteString(fmt.Sprintf("%d", m.status.PendingLeads))
		s.WriteString("\n")

		s.WriteString(syncLabelStyle.Render("Queued ops"))
		s.WriteString(fmt.Sprintf("%d", m.status.PendingOutbox))
		s.WriteString("\n")

		s.WriteString(syncLabelStyle.Render("Failed ops"))
		if m.status.FailedOutbox > 0 {
			s.WriteString(syncErrorStyle.Render(fmt.Sprintf("%d", m.status.FailedOutbox)))
		} else {
			s.WriteString("0")
		}
		s.WriteString("\n")
	}

	if len(m.syncMessages) > 0 {
		s.WriteString("\n")
		s.WriteString(syncHeaderStyle.Render("Recent Activity"))
		s.WriteString("\n\n")
		start := 0
		if len(m.syncMessages) > 5 {
			start = len(m.syncMessages) - 5
		}
		for i := start; i < len(m.syncMessages); i++ {
			s.WriteString(syncMessageStyle.Render("  " + m.syncMessages[i]))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(m.renderSyncHelp())

	return s.String()
}

func (m Model) renderEngineState() string {
	if m.syncInFlight {
		return syncSyncingStyle.Render("⟳ Syncing...")
	}
	switch m.status.State {
	case db.SyncStateSyncing:
		return syncSyncingStyle.Render("⟳ Syncing...")
	case db.SyncStateError:
		return syncErrorStyle.Render("✗ Error")
	default:
		return syncIdleStyle.Render("✓ Idle")
	}
}

func (m Model) renderSyncHelp() string {
	help := []string{
		"s: Sync now",
		"Tab: Pipeline",
		"r: Refresh",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewPipeline
	}
	return m, nil
}

// handleSyncComplete records the pass outcome and refreshes the panel.
func (m *Model) handleSyncComplete(msg SyncCompleteMsg) tea.Cmd {
	m.syncInFlight = false

	if msg.Error != nil {
		m.addSyncMessage(fmt.Sprintf("✗ Sync failed: %v", msg.Error))
	} else {
		m.addSyncMessage("✓ Sync pass completed")
	}

	m.reload()
	return nil
}

// addSyncMessage adds a message to the sync activity log.
func (m *Model) addSyncMessage(msg string) {
	timestamp := time.Now().Format("15:04:05")
	m.syncMessages = append(m.syncMessages, fmt.Sprintf("[%s] %s", timestamp, msg))
}

// formatTimeSince formats a time duration in a human-readable way.
func formatTimeSince(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		minutes := int(duration.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	} else if duration < 24*time.Hour {
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	} else {
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}
