// ABOUTME: Tests for business-card text extraction heuristics
// ABOUTME: Table-driven over realistic scanned card layouts
package extract

import "testing"

func TestFromCardText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Patch
	}{
		{
			name: "full card",
			raw:  "Asha Rao\nChief Financial Officer\nAcme Wealth Advisors\nasha@acme.com\n+91 98765 43210",
			want: Patch{
				Name:    "Asha Rao",
				Role:    "Chief Financial Officer",
				Company: "Acme Wealth Advisors",
				Email:   "asha@acme.com",
				Phone:   "+91 98765 43210",
			},
		},
		{
			name: "company with legal suffix",
			raw:  "Rohan Mehta\nMehta Securities Pvt Ltd\nrohan@mehtasec.in",
			want: Patch{
				Name:    "Rohan Mehta",
				Company: "Mehta Securities Pvt Ltd",
				Email:   "rohan@mehtasec.in",
			},
		},
		{
			name: "name only",
			raw:  "Priya Sharma",
			want: Patch{Name: "Priya Sharma"},
		},
		{
			name: "blank lines and spacing",
			raw:  "\n\n  Vikram Singh  \n\n  9876543210  \n",
			want: Patch{Name: "Vikram Singh", Phone: "9876543210"},
		},
		{
			name: "role before name",
			raw:  "Managing Director\nKiran Desai",
			want: Patch{Role: "Managing Director", Name: "Kiran Desai"},
		},
		{
			name: "empty input",
			raw:  "",
			want: Patch{},
		},
		{
			name: "email embedded in sentence",
			raw:  "Reach me at sales@firm.co.in anytime",
			want: Patch{Email: "sales@firm.co.in"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromCardText(tt.raw)
			if got != tt.want {
				t.Errorf("FromCardText()\n got: %+v\nwant: %+v", got, tt.want)
			}
		})
	}
}

func TestFromCardTextFirstMatchWins(t *testing.T) {
	raw := "Acme Capital\nBeta Group\nfirst@a.com\nsecond@b.com"
	got := FromCardText(raw)
	if got.Company != "Acme Capital" {
		t.Errorf("expected first company line, got %q", got.Company)
	}
	if got.Email != "first@a.com" {
		t.Errorf("expected first email, got %q", got.Email)
	}
}
