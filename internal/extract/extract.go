// Package extract derives best-effort candidate contact details from an
// application email and its resume text. Every field degrades to a default
// rather than failing, so downstream storage never blocks on extraction
// quality.
package extract

import (
	"regexp"
	"strings"
)

// Defaults used when no field can be extracted.
const (
	UnknownName     = "Unknown"
	UnknownPosition = "Unknown Position"
)

var (
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?(\d{3})\)?[-.\s]?(\d{3})[-.\s]?(\d{4})`)
	applyingFor  = regexp.MustCompile(`(?i)applying for\s+(.+)`)
)

// Email is the subset of a parsed inbound message the extractor inspects.
type Email struct {
	From    string
	Subject string
	Body    string
}

// CandidateInfo is the heuristic extraction result. Callers must tolerate
// the Unknown placeholders.
type CandidateInfo struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Position  string
}

// FromEmail extracts candidate details from the email and resume text.
func FromEmail(msg Email, resumeText string) CandidateInfo {
	info := CandidateInfo{
		FirstName: UnknownName,
		LastName:  UnknownName,
		Email:     msg.From,
		Position:  UnknownPosition,
	}

	info.FirstName, info.LastName = extractName(resumeText)
	info.Email = extractEmail(msg, resumeText)
	info.Phone = extractPhone(msg, resumeText)
	info.Position = extractPosition(msg)

	return info
}

// extractName scans the first five non-empty resume lines for something that
// looks like a person's name: at least two space-separated tokens and no "@".
func extractName(resumeText string) (first, last string) {
	first, last = UnknownName, UnknownName

	var lines []string
	for _, line := range strings.Split(resumeText, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
		if len(lines) == 5 {
			break
		}
	}

	for _, line := range lines {
		if len(line) <= 2 || strings.Contains(line, "@") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 2 {
			return parts[0], strings.Join(parts[1:], " ")
		}
	}
	return first, last
}

// extractEmail prefers an address found in the resume, then the email body,
// then the message sender.
func extractEmail(msg Email, resumeText string) string {
	if m := emailPattern.FindString(resumeText); m != "" {
		return m
	}
	if m := emailPattern.FindString(msg.Body); m != "" {
		return m
	}
	return msg.From
}

func extractPhone(msg Email, resumeText string) string {
	if m := phonePattern.FindString(resumeText); m != "" {
		return m
	}
	return phonePattern.FindString(msg.Body)
}

// extractPosition reads the applied-for position from "application for ..."
// in the subject, then "applying for ..." in the body.
func extractPosition(msg Email) string {
	lowerSubject := strings.ToLower(msg.Subject)
	if idx := strings.Index(lowerSubject, "application for"); idx >= 0 {
		rest := msg.Subject[idx+len("application for"):]
		if trimmed := strings.TrimSpace(rest); trimmed != "" {
			return trimmed
		}
	}

	if m := applyingFor.FindStringSubmatch(msg.Body); m != nil {
		if trimmed := strings.TrimSpace(firstLine(m[1])); trimmed != "" {
			return trimmed
		}
	}

	return UnknownPosition
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
