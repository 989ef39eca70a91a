// ABOUTME: Derived wealth metrics computed at capture time
// ABOUTME: Predicts AUA from ticket size and scores investor readiness
package models

// Ticket size buckets offered on the capture form.
const (
	TicketUnder10L = "< 10L"
	Ticket10to50L  = "10L - 50L"
	Ticket50Lto1Cr = "50L - 1Cr"
	TicketOver1Cr  = "> 1Cr"
)

// PredictAUA maps a ticket size bucket to a predicted assets-under-advisory
// value in rupees. Unknown buckets predict zero.
func PredictAUA(ticketSize string) int64 {
	switch ticketSize {
	case TicketUnder10L:
		return 500_000
	case Ticket10to50L:
		return 3_000_000
	case Ticket50Lto1Cr:
		return 7_500_000
	case TicketOver1Cr:
		return 15_000_000
	}
	return 0
}

// ComputeReadinessScore scores investor readiness 0-100, weighting intent,
// engagement, and profile completeness.
func ComputeReadinessScore(l *Lead) int {
	intentWeight := 15
	if l.Intent == IntentHotLead {
		intentWeight = 30
	}

	engagementWeight := l.EngagementScore * 8
	if engagementWeight > 40 {
		engagementWeight = 40
	}

	profileWeight := 10
	if l.Email != "" && l.Phone != "" {
		profileWeight = 30
	}

	score := intentWeight + engagementWeight + profileWeight
	if score > 100 {
		score = 100
	}
	return score
}
