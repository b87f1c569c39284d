package notify

import (
	"fmt"
	"strings"
)

// BatchSummary describes one screening cycle's outcome for the HR team.
type BatchSummary struct {
	Processed int
	Created   int
	Updated   int
	Failed    int
}

// Total returns how many applications the cycle attempted.
func (s BatchSummary) Total() int {
	return s.Processed + s.Failed
}

// SummarySubject builds the subject line for a cycle summary email.
func SummarySubject(s BatchSummary) string {
	return fmt.Sprintf("Resume Screening: %d application(s) processed", s.Processed)
}

// SummaryHTML renders the cycle summary email body.
func SummaryHTML(s BatchSummary) string {
	var sb strings.Builder

	sb.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">`)
	sb.WriteString(`<div style="background: #3B82F6; color: white; padding: 20px; border-radius: 8px 8px 0 0;">`)
	sb.WriteString(`<h2 style="margin: 0;">HR360 - Resume Screening Summary</h2>`)
	sb.WriteString(`</div>`)
	sb.WriteString(`<div style="background: #f8f9fa; padding: 20px; border-radius: 0 0 8px 8px;">`)
	sb.WriteString(`<p>The automatic resume screening run has finished.</p>`)
	sb.WriteString(`<div style="background: white; padding: 15px; border-radius: 6px; margin: 15px 0;">`)
	sb.WriteString(`<h4 style="margin-top: 0;">Results:</h4>`)
	fmt.Fprintf(&sb, `<p><strong>Applications processed:</strong> %d</p>`, s.Processed)
	fmt.Fprintf(&sb, `<p><strong>New candidates:</strong> %d</p>`, s.Created)
	fmt.Fprintf(&sb, `<p><strong>Updated candidates:</strong> %d</p>`, s.Updated)
	if s.Failed > 0 {
		fmt.Fprintf(&sb, `<p style="color: #EF4444;"><strong>Failed:</strong> %d</p>`, s.Failed)
	}
	sb.WriteString(`</div>`)
	sb.WriteString(`<p>Review the new candidates in your HR360 dashboard.</p>`)
	sb.WriteString(`<hr style="margin: 20px 0; border: none; border-top: 1px solid #e5e7eb;">`)
	sb.WriteString(`<p style="color: #6b7280; font-size: 12px; text-align: center;">`)
	sb.WriteString(`This is an automated message from HR360 System. Please do not reply to this email.`)
	sb.WriteString(`</p></div></div>`)

	return sb.String()
}
