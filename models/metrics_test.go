// ABOUTME: Tests for predicted AUA and readiness score calculations
// ABOUTME: Table-driven over ticket buckets and scoring inputs
package models

import "testing"

func TestPredictAUA(t *testing.T) {
	tests := []struct {
		ticket string
		want   int64
	}{
		{TicketUnder10L, 500_000},
		{Ticket10to50L, 3_000_000},
		{Ticket50Lto1Cr, 7_500_000},
		{TicketOver1Cr, 15_000_000},
		{"", 0},
		{"unknown", 0},
	}

	for _, tt := range tests {
		if got := PredictAUA(tt.ticket); got != tt.want {
			t.Errorf("PredictAUA(%q) = %d, want %d", tt.ticket, got, tt.want)
		}
	}
}

func TestComputeReadinessScore(t *testing.T) {
	tests := []struct {
		name string
		lead Lead
		want int
	}{
		{
			name: "minimal lead",
			lead: Lead{Intent: IntentInterested, Phone: "9876543210"},
			want: 25, // 15 intent + 0 engagement + 10 profile
		},
		{
			name: "hot lead full profile",
			lead: Lead{Intent: IntentHotLead, Phone: "9876543210", Email: "a@b.c", EngagementScore: 3},
			want: 84, // 30 + 24 + 30
		},
		{
			name: "engagement capped at 40",
			lead: Lead{Intent: IntentInterested, Phone: "9876543210", EngagementScore: 10},
			want: 65, // 15 + 40 + 10
		},
		{
			name: "score capped at 100",
			lead: Lead{Intent: IntentHotLead, Phone: "9876543210", Email: "a@b.c", EngagementScore: 10},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeReadinessScore(&tt.lead); got != tt.want {
				t.Errorf("ComputeReadinessScore = %d, want %d", got, tt.want)
			}
		})
	}
}
