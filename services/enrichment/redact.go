package enrichment

import (
	"regexp"
	"sort"
	"strings"
)

// PIIType names a kind of personal data removed before text leaves the platform
type PIIType string

const (
	PIITypeEmail      PIIType = "email"
	PIITypePhone      PIIType = "phone"
	PIITypeSSN        PIIType = "ssn"
	PIITypeCreditCard PIIType = "credit_card"
)

// PIIMatch is one detected span of personal data
type PIIMatch struct {
	Type  PIIType
	Start int
	End   int
}

type detector struct {
	piiType PIIType
	pattern *regexp.Regexp
	accept  func(string) bool
}

// Redactor replaces personal data in free text with typed placeholders
type Redactor struct {
	detectors []detector
}

// NewRedactor creates a Redactor for emails, SSNs, card numbers and phone numbers
func NewRedactor() *Redactor {
	return &Redactor{
		detectors: []detector{
			{piiType: PIITypeEmail, pattern: regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)},
			{piiType: PIITypeSSN, pattern: regexp.MustCompile(`\b[0-9]{3}-[0-9]{2}-[0-9]{4}\b`)},
			{piiType: PIITypeSSN, pattern: regexp.MustCompile(`\b[0-9]{9}\b`), accept: looksLikeSSN},
			{piiType: PIITypeCreditCard, pattern: regexp.MustCompile(`\b(?:[0-9][ -]?){12,18}[0-9]\b`), accept: luhnValid},
			{piiType: PIITypePhone, pattern: regexp.MustCompile(`(?:\+?1[-. ]?)?\(?\b[0-9]{3}\)?[-. ]?[0-9]{3}[-. ][0-9]{4}\b`)},
			{piiType: PIITypePhone, pattern: regexp.MustCompile(`\+[0-9]{1,3}[-. ]?[0-9]{2,4}[-. ]?[0-9]{3,4}[-. ]?[0-9]{3,4}\b`)},
		},
	}
}

// Detect returns the non-overlapping PII spans of text in order of position.
// Overlapping detections are merged into one span labelled by the earliest, longest match.
func (r *Redactor) Detect(text string) []PIIMatch {
	var found []PIIMatch
	for _, d := range r.detectors {
		for _, loc := range d.pattern.FindAllStringIndex(text, -1) {
			if d.accept != nil && !d.accept(text[loc[0]:loc[1]]) {
				continue
			}
			found = append(found, PIIMatch{Type: d.piiType, Start: loc[0], End: loc[1]})
		}
	}
	if len(found) == 0 {
		return nil
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Start != found[j].Start {
			return found[i].Start < found[j].Start
		}
		return found[i].End > found[j].End
	})

	merged := []PIIMatch{found[0]}
	for _, m := range found[1:] {
		last := &merged[len(merged)-1]
		if m.Start < last.End {
			if m.End > last.End {
				last.End = m.End
			}
			continue
		}
		merged = append(merged, m)
	}
	return merged
}

// Redact replaces every detected span with a placeholder such as [EMAIL_REDACTED]
func (r *Redactor) Redact(text string) string {
	matches := r.Detect(text)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, m := range matches {
		b.WriteString(text[pos:m.Start])
		b.WriteString(placeholder(m.Type))
		pos = m.End
	}
	b.WriteString(text[pos:])
	return b.String()
}

func placeholder(t PIIType) string {
	switch t {
	case PIITypeEmail:
		return "[EMAIL_REDACTED]"
	case PIITypePhone:
		return "[PHONE_REDACTED]"
	case PIITypeSSN:
		return "[SSN_REDACTED]"
	case PIITypeCreditCard:
		return "[CC_REDACTED]"
	default:
		return "[REDACTED]"
	}
}

// looksLikeSSN rejects 9-digit numbers that cannot be valid SSNs
func looksLikeSSN(s string) bool {
	if len(s) != 9 {
		return false
	}
	if s[:3] == "000" || s[3:5] == "00" || s[5:] == "0000" {
		return false
	}
	return !strings.HasPrefix(s, "666") && !strings.HasPrefix(s, "9")
}

// luhnValid validates a card number, ignoring spaces and dashes
func luhnValid(s string) bool {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(s)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	second := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if second {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		second = !second
	}
	return sum%10 == 0
}
