package nodes

import (
	"regexp"
	"strconv"
)

// Recognized customer-id phrasings, most specific first.
var customerIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bcustomer\s+id\s*[:#]?\s*(\d{1,10})\b`),
	regexp.MustCompile(`(?i)\bcustomer\s*[:#]?\s*(\d{1,10})\b`),
	regexp.MustCompile(`(?i)\bid\s*[:#]?\s*(\d{1,10})\b`),
}

var (
	bareNumberPattern    = regexp.MustCompile(`\b(\d{1,10})\b`)
	disambiguatorPattern = regexp.MustCompile(`(?i)\b(customer|id)\b`)
	emailPattern         = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
)

// ExtractCustomerID searches the query for a numeric customer identifier. A
// bare standalone number counts only when the text also contains a
// disambiguating word, so unrelated digits are not captured.
func ExtractCustomerID(query string) *int {
	for _, pattern := range customerIDPatterns {
		if m := pattern.FindStringSubmatch(query); m != nil {
			return parseID(m[1])
		}
	}
	if disambiguatorPattern.MatchString(query) {
		if m := bareNumberPattern.FindStringSubmatch(query); m != nil {
			return parseID(m[1])
		}
	}
	return nil
}

// ExtractEmail returns the first email-shaped token, or empty.
func ExtractEmail(query string) string {
	return emailPattern.FindString(query)
}

func parseID(raw string) *int {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &id
}
