// ABOUTME: TUI pipeline board view
// ABOUTME: Lead table with stage, readiness, sync state, and overdue markers
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/fieldsync/models"
)

var (
	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	pendingBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11"))

	syncedBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("10"))
)

func (m Model) renderPipelineView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("FIELDSYNC"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	s.WriteString(m.renderStageSummary())
	s.WriteString("\n\n")

	s.WriteString(m.renderLeadTable())
	s.WriteString("\n\n")

	s.WriteString(m.renderPipelineHelp())

	return s.String()
}

func (m Model) renderStageSummary() string {
	counts := make(map[string]int)
	overdue := 0
	now := time.Now()
	for i := range m.leads {
		counts[m.leads[i].Status]++
		if m.leads[i].OverdueFollowUp(now) {
			overdue++
		}
	}

	var parts []string
	for _, stage := range models.Stages() {
		parts = append(parts, fmt.Sprintf("%s: %d", stage, counts[stage]))
	}
	summary := strings.Join(parts, "  •  ")
	if overdue > 0 {
		summary += "  •  " + overdueStyle.Render(fmt.Sprintf("%d overdue", overdue))
	}
	return summary
}

func (m Model) renderLeadTable() string {
	if len(m.leads) == 0 {
		return helpStyle.Render("No leads captured yet. Use 'fieldsync capture' to add one.")
	}

	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Stage", Width: 10},
		{Title: "Phone", Width: 14},
		{Title: "Readiness", Width: 9},
		{Title: "Sync", Width: 9},
		{Title: "Reminder", Width: 16},
	}

	now := time.Now()
	var rows []table.Row
	for i := range m.leads {
		lead := &m.leads[i]

		reminder := ""
		if lead.ReminderDate != nil {
			reminder = lead.ReminderDate.Local().Format("Jan 2 15:04")
			if lead.OverdueFollowUp(now) {
				reminder = "! " + reminder
			}
		}

		rows = append(rows, table.Row{
			lead.Name,
			lead.Status,
			lead.Phone,
			fmt.Sprintf("%d", lead.ReadinessScore),
			renderSyncBadge(lead.SyncStatus),
			reminder,
		})
	}

	height := m.height - 12
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func renderSyncBadge(status string) string {
	switch status {
	case models.SyncSynced:
		return syncedBadgeStyle.Render("synced")
	case models.SyncError:
		return overdueStyle.Render("error")
	default:
		return pendingBadgeStyle.Render("pending")
	}
}

func (m Model) handlePipelineKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.leads)-1 {
			m.selectedRow++
		}
	}
	return m, nil
}

func (m Model) renderPipelineHelp() string {
	help := []string{
		"↑/↓: Select lead",
		"Tab: Sync panel",
		"s: Sync now",
		"r: Refresh",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}
