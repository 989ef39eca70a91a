// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII overview of pipeline, wealth metrics, and sync health
package viz

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/models"
)

type DashboardStats struct {
	// Pipeline overview
	PipelineByStage map[string]PipelineStageStats

	// Overall stats
	TotalLeads      int
	TotalRecordings int
	TotalMeetings   int

	// Sync health
	PendingLeads  int
	PendingOutbox int
	FailedOutbox  int

	// Needs attention
	OverdueFollowUps []OverdueLead
	StaleLeads       []StaleLead
}

type PipelineStageStats struct {
	Stage        string
	Count        int
	PredictedAUA int64 // in rupees
}

type OverdueLead struct {
	Name        string
	DaysOverdue int
}

type StaleLead struct {
	Name      string
	DaysSince int
}

// GenerateDashboardStats builds a point-in-time overview from the local store.
func GenerateDashboardStats(database *sql.DB) (*DashboardStats, error) {
	stats := &DashboardStats{
		PipelineByStage: make(map[string]PipelineStageStats),
	}

	leads, err := db.ListLeads(database)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}
	stats.TotalLeads = len(leads)

	now := time.Now()
	for i := range leads {
		lead := &leads[i]

		pstats := stats.PipelineByStage[lead.Status]
		pstats.Stage = lead.Status
		pstats.Count++
		pstats.PredictedAUA += lead.PredictedAUA
		stats.PipelineByStage[lead.Status] = pstats

		if lead.OverdueFollowUp(now) {
			stats.OverdueFollowUps = append(stats.OverdueFollowUps, OverdueLead{
				Name:        lead.Name,
				DaysOverdue: int(now.Sub(*lead.ReminderDate).Hours() / 24),
			})
		}

		// Leads untouched for two weeks outside the terminal stage go cold.
		daysSince := int(now.Sub(lead.Timestamp).Hours() / 24)
		if daysSince > 14 && lead.Status != models.StageOutcome {
			stats.StaleLeads = append(stats.StaleLeads, StaleLead{
				Name:      lead.Name,
				DaysSince: daysSince,
			})
		}
	}

	recordings, err := db.ListMedia(database)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recordings: %w", err)
	}
	stats.TotalRecordings = len(recordings)

	meetings, err := db.ListReminders(database)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meetings: %w", err)
	}
	stats.TotalMeetings = len(meetings)

	leadCounts, err := db.CountLeadsBySyncStatus(database)
	if err != nil {
		return nil, fmt.Errorf("failed to count lead sync states: %w", err)
	}
	stats.PendingLeads = leadCounts[models.SyncPending]

	outboxCounts, err := db.CountOutboxByStatus(database)
	if err != nil {
		return nil, fmt.Errorf("failed to count outbox entries: %w", err)
	}
	stats.PendingOutbox = outboxCounts[models.OutboxPending]
	stats.FailedOutbox = outboxCounts[models.OutboxFailed]

	return stats, nil
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  FIELDSYNC DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	// Pipeline overview
	out.WriteString("PIPELINE OVERVIEW\n")
	renderPipeline(&out, stats.PipelineByStage)
	out.WriteString("\n")

	// Stats
	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📇 %d leads  🎙 %d recordings  📅 %d meetings\n\n",
		stats.TotalLeads, stats.TotalRecordings, stats.TotalMeetings))

	// Sync health
	out.WriteString("SYNC\n")
	out.WriteString(fmt.Sprintf("  ↑ %d leads pending  ⧗ %d queued ops", stats.PendingLeads, stats.PendingOutbox))
	if stats.FailedOutbox > 0 {
		out.WriteString(fmt.Sprintf("  ✗ %d failed", stats.FailedOutbox))
	}
	out.WriteString("\n")

	// Needs attention
	if len(stats.OverdueFollowUps) > 0 || len(stats.StaleLeads) > 0 {
		out.WriteString("\nNEEDS ATTENTION\n")

		if len(stats.OverdueFollowUps) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d overdue follow-ups\n", len(stats.OverdueFollowUps)))
		}

		if len(stats.StaleLeads) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d leads - no activity in 14+ days\n", len(stats.StaleLeads)))
		}
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, pipeline map[string]PipelineStageStats) {
	// Find max count for scaling
	maxCount := 0
	for _, pstats := range pipeline {
		if pstats.Count > maxCount {
			maxCount = pstats.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	// Render each stage in pipeline order
	for _, stage := range models.Stages() {
		pstats, exists := pipeline[stage]
		if !exists {
			continue
		}

		// Calculate bar length (0-10 blocks)
		barLength := (pstats.Count * 10) / maxCount

		// Build bar
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		// Format predicted AUA in lakhs
		aumL := pstats.PredictedAUA / 100_000

		out.WriteString(fmt.Sprintf("  %-10s %s  %2d (₹%dL predicted)\n",
			stage, bar, pstats.Count, aumL))
	}
}
