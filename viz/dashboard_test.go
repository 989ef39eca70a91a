// ABOUTME: Tests for dashboard statistics and rendering
// ABOUTME: Covers stage aggregation, attention lists, and ASCII output
package viz

import (
	"strings"
	"testing"
	"time"

	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/models"
	"github.com/harperreed/fieldsync/ops"
)

func TestGenerateDashboardStats(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	defer func() { _ = database.Close() }()
	broker := db.NewBroker()

	lead, err := ops.CaptureLead(database, broker, models.CaptureInput{
		Name:       "Asha Rao",
		Phone:      "9876543210",
		TicketSize: models.Ticket50Lto1Cr,
	})
	if err != nil {
		t.Fatalf("CaptureLead failed: %v", err)
	}
	if _, err := ops.CaptureLead(database, broker, models.CaptureInput{Name: "Rohan Mehta", Phone: "111"}); err != nil {
		t.Fatalf("CaptureLead failed: %v", err)
	}

	// Overdue follow-up
	past := time.Now().UTC().Add(-48 * time.Hour)
	if err := ops.MoveStage(database, broker, lead.ClientUUID, models.StageFollowUp, &past); err != nil {
		t.Fatalf("MoveStage failed: %v", err)
	}

	stats, err := GenerateDashboardStats(database)
	if err != nil {
		t.Fatalf("GenerateDashboardStats failed: %v", err)
	}

	if stats.TotalLeads != 2 {
		t.Errorf("expected 2 leads, got %d", stats.TotalLeads)
	}
	if stats.PipelineByStage[models.StageFollowUp].Count != 1 {
		t.Errorf("expected 1 Follow Up lead, got %d", stats.PipelineByStage[models.StageFollowUp].Count)
	}
	if stats.PipelineByStage[models.StageFollowUp].PredictedAUA != 7_500_000 {
		t.Errorf("expected aggregated AUA 7500000, got %d", stats.PipelineByStage[models.StageFollowUp].PredictedAUA)
	}
	if len(stats.OverdueFollowUps) != 1 || stats.OverdueFollowUps[0].Name != "Asha Rao" {
		t.Errorf("expected Asha Rao overdue, got %+v", stats.OverdueFollowUps)
	}
	if stats.PendingLeads != 2 {
		t.Errorf("expected 2 pending leads, got %d", stats.PendingLeads)
	}
	if stats.PendingOutbox == 0 {
		t.Error("expected queued outbox entries")
	}
}

func TestRenderDashboard(t *testing.T) {
	stats := &DashboardStats{
		PipelineByStage: map[string]PipelineStageStats{
			models.StageMetUp:    {Stage: models.StageMetUp, Count: 3, PredictedAUA: 1_500_000},
			models.StageFollowUp: {Stage: models.StageFollowUp, Count: 1, PredictedAUA: 7_500_000},
		},
		TotalLeads:      4,
		TotalRecordings: 2,
		TotalMeetings:   1,
		PendingLeads:    4,
		PendingOutbox:   6,
		FailedOutbox:    1,
		OverdueFollowUps: []OverdueLead{
			{Name: "Asha Rao", DaysOverdue: 2},
		},
	}

	output := RenderDashboard(stats)

	if !strings.Contains(output, "FIELDSYNC DASHBOARD") {
		t.Error("missing header")
	}
	if !strings.Contains(output, models.StageMetUp) || !strings.Contains(output, models.StageFollowUp) {
		t.Error("missing pipeline stages")
	}
	if !strings.Contains(output, "₹75L predicted") {
		t.Error("missing predicted AUA for Follow Up stage")
	}
	if !strings.Contains(output, "4 leads") {
		t.Error("missing lead count")
	}
	if !strings.Contains(output, "1 failed") {
		t.Error("missing failed op count")
	}
	if !strings.Contains(output, "1 overdue follow-ups") {
		t.Error("missing overdue warning")
	}
}

func TestRenderDashboardEmpty(t *testing.T) {
	output := RenderDashboard(&DashboardStats{PipelineByStage: map[string]PipelineStageStats{}})

	if !strings.Contains(output, "0 leads") {
		t.Error("empty dashboard should still render stats")
	}
	if strings.Contains(output, "NEEDS ATTENTION") {
		t.Error("empty dashboard should not warn")
	}
}
