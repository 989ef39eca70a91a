// ABOUTME: Business-card text field extraction heuristics
// ABOUTME: Pluggable strategy turning raw OCR text into a partial lead patch
package extract

import (
	"regexp"
	"strings"
)

// Patch is a partial lead record extracted from raw text. Empty fields were
// not found.
type Patch struct {
	Name    string
	Company string
	Role    string
	Email   string
	Phone   string
}

// Extractor turns raw scanned text into a Patch. It is a replaceable
// strategy: swapping it never touches persistence or queue semantics.
type Extractor func(raw string) Patch

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?[0-9][0-9 \-()]{7,}[0-9]`)
)

// Role keywords checked against each line, lowercased.
var roleKeywords = []string{
	"director", "manager", "officer", "president", "founder", "partner",
	"head", "lead", "analyst", "consultant", "advisor", "ceo", "cto", "cfo",
}

// Company suffixes checked against each line, lowercased.
var companySuffixes = []string{
	"ltd", "llp", "llc", "inc", "pvt", "corp", "co.", "company", "group",
	"capital", "advisors", "securities", "wealth",
}

// FromCardText is the default extraction heuristic. It scans line by line:
// email and phone by pattern, role by title keyword, company by legal suffix,
// and name as the first line that is none of those.
func FromCardText(raw string) Patch {
	var patch Patch

	patch.Email = emailRe.FindString(raw)
	patch.Phone = strings.TrimSpace(phoneRe.FindString(raw))

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || emailRe.MatchString(line) || phoneRe.MatchString(line) {
			continue
		}
		lower := strings.ToLower(line)

		if patch.Role == "" && containsAny(lower, roleKeywords) {
			patch.Role = line
			continue
		}
		if patch.Company == "" && containsAny(lower, companySuffixes) {
			patch.Company = line
			continue
		}
		if patch.Name == "" {
			patch.Name = line
		}
	}

	return patch
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
