// Package monitor runs the inbox polling loop that drives automatic resume
// screening. Each cycle connects to the mailbox, walks the unseen
// applications through parse/analyze/upload, upserts the candidates in one
// batch and records an audit row per message.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/hr360/screening-agent/internal/analysis"
	"github.com/hr360/screening-agent/internal/db"
	"github.com/hr360/screening-agent/internal/extract"
	"github.com/hr360/screening-agent/internal/mailbox"
	"github.com/hr360/screening-agent/internal/notify"
	"github.com/hr360/screening-agent/internal/resume"
	"github.com/hr360/screening-agent/internal/screening"
	"github.com/hr360/screening-agent/internal/storage"
)

// Monitor states.
const (
	stateIdle int32 = iota
	stateRunning
)

// callTimeout bounds each external call inside a cycle so one hung
// dependency cannot wedge the loop.
const callTimeout = 60 * time.Second

// ErrCycleRunning is returned when a cycle is requested while another one
// is still in flight.
var ErrCycleRunning = errors.New("screening cycle already running")

// Session is one open mailbox connection.
type Session interface {
	FetchUnseen(ctx context.Context) ([]mailbox.Message, error)
	Close() error
}

// Connector opens a fresh mailbox session. The monitor dials per cycle
// instead of holding a long-lived IMAP connection.
type Connector func(ctx context.Context) (Session, error)

// Deduper filters already-processed message IDs. dedup.Filter satisfies
// this; a nil filter passes everything through.
type Deduper interface {
	IsNew(ctx context.Context, messageID string) (bool, error)
}

// Analyzer scores resume text.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) *analysis.ResumeAnalysis
}

// Uploader stores resume files.
type Uploader interface {
	Upload(ctx context.Context, file storage.File, folder string) storage.UploadResult
}

// Batcher upserts a batch of candidates.
type Batcher interface {
	ProcessBatch(ctx context.Context, payloads []db.CandidateData) (*screening.BatchResult, error)
}

// AuditStore records processing metadata.
type AuditStore interface {
	RecordProcessedEmail(ctx context.Context, rec db.ProcessedEmail) error
	TouchEmailConfig(ctx context.Context) error
}

// Mailer sends the cycle summary email.
type Mailer interface {
	Enabled() bool
	Send(ctx context.Context, to, subject, html string) error
}

// Deps wires the monitor to its collaborators.
type Deps struct {
	Connect  Connector
	Dedup    Deduper
	Analyzer Analyzer
	Uploader Uploader
	Batcher  Batcher
	Store    AuditStore
	Mailer   Mailer

	Interval time.Duration
	Folder   string // storage folder for uploads
	HREmail  string // summary recipient; empty disables the email
}

// CycleResult reports one polling cycle.
type CycleResult struct {
	Messages  int          `json:"messages"`
	Processed int          `json:"processed"`
	Created   int          `json:"created"`
	Updated   int          `json:"updated"`
	Failed    int          `json:"failed"`
	Skipped   []string     `json:"skipped,omitempty"` // message IDs filtered by dedup
	Errors    []CycleError `json:"errors,omitempty"`
}

// CycleError records a per-message or per-attachment failure.
type CycleError struct {
	MessageID string `json:"message_id,omitempty"`
	Email     string `json:"email,omitempty"`
	Error     string `json:"error"`
}

// Monitor polls the mailbox on an interval.
type Monitor struct {
	deps  Deps
	state atomic.Int32
}

// New creates a Monitor.
func New(deps Deps) *Monitor {
	if deps.Interval <= 0 {
		deps.Interval = 5 * time.Minute
	}
	if deps.Folder == "" {
		deps.Folder = "hr360/resumes"
	}
	return &Monitor{deps: deps}
}

// State reports "idle" or "running".
func (m *Monitor) State() string {
	if m.state.Load() == stateRunning {
		return "running"
	}
	return "idle"
}

// Run starts the polling loop. The first cycle runs immediately, then on
// every tick. It blocks until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	log.Printf("email monitor starting, interval=%s", m.deps.Interval)

	m.runCycleLogged(ctx)

	ticker := time.NewTicker(m.deps.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("email monitor stopping")
			return
		case <-ticker.C:
			m.runCycleLogged(ctx)
		}
	}
}

func (m *Monitor) runCycleLogged(ctx context.Context) {
	result, err := m.RunCycle(ctx)
	switch {
	case errors.Is(err, ErrCycleRunning):
		log.Printf("previous screening cycle still running, skipping tick")
	case err != nil:
		log.Printf("screening cycle failed: %v", err)
	default:
		log.Printf("screening cycle done: %d message(s), %d processed, %d created, %d updated, %d failed",
			result.Messages, result.Processed, result.Created, result.Updated, result.Failed)
	}
}

// RunCycle executes one screening cycle. A cycle already in flight makes it
// return ErrCycleRunning without touching the mailbox; the transition is a
// single compare-and-swap so concurrent triggers cannot interleave.
func (m *Monitor) RunCycle(ctx context.Context) (*CycleResult, error) {
	if !m.state.CompareAndSwap(stateIdle, stateRunning) {
		return nil, ErrCycleRunning
	}
	defer m.state.Store(stateIdle)

	return m.cycle(ctx)
}

func (m *Monitor) cycle(ctx context.Context) (*CycleResult, error) {
	connectCtx, cancel := context.WithTimeout(ctx, callTimeout)
	session, err := m.deps.Connect(connectCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to open mailbox: %w", err)
	}
	defer session.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, callTimeout)
	messages, err := session.FetchUnseen(fetchCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	result := &CycleResult{}
	var payloads []db.CandidateData
	perMessage := make(map[string][]string) // message ID -> candidate emails

	for _, msg := range messages {
		isNew, err := m.checkDedup(ctx, msg.MessageID)
		if err != nil {
			// Fail open: a broken dedup store must not stall screening,
			// upserts are idempotent anyway.
			log.Printf("dedup check for %s failed, treating as new: %v", msg.MessageID, err)
			isNew = true
		}
		if !isNew {
			result.Skipped = append(result.Skipped, msg.MessageID)
			continue
		}

		result.Messages++
		msgPayloads, msgErrors := m.processMessage(ctx, msg)
		result.Errors = append(result.Errors, msgErrors...)
		payloads = append(payloads, msgPayloads...)
		for _, p := range msgPayloads {
			perMessage[msg.MessageID] = append(perMessage[msg.MessageID], p.Email)
		}
	}

	batchCtx, cancel := context.WithTimeout(ctx, callTimeout)
	batch, err := m.deps.Batcher.ProcessBatch(batchCtx, payloads)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to process candidate batch: %w", err)
	}

	result.Processed = batch.Processed
	result.Created = batch.Created
	result.Updated = batch.Updated
	for _, e := range batch.Errors {
		result.Errors = append(result.Errors, CycleError{Email: e.Email, Error: e.Error})
	}
	result.Failed = len(result.Errors)

	m.recordAudit(ctx, messages, perMessage, batch, result)
	m.touchConfig(ctx)
	m.sendSummary(ctx, result)

	return result, nil
}

// processMessage turns one inbox message into candidate payloads, one per
// parseable resume attachment.
func (m *Monitor) processMessage(ctx context.Context, msg mailbox.Message) ([]db.CandidateData, []CycleError) {
	var payloads []db.CandidateData
	var errs []CycleError

	for _, att := range msg.Attachments {
		text, err := resume.Parse(att.Filename, att.ContentType, att.Content)
		if err != nil {
			errs = append(errs, CycleError{
				MessageID: msg.MessageID,
				Error:     fmt.Sprintf("attachment %s: %v", att.Filename, err),
			})
			continue
		}

		info := extract.FromEmail(extract.Email{
			From:    msg.From,
			Subject: msg.Subject,
			Body:    msg.Body,
		}, text)

		analyzeCtx, cancel := context.WithTimeout(ctx, callTimeout)
		assessment := m.deps.Analyzer.Analyze(analyzeCtx, text, "")
		cancel()

		uploadCtx, cancel := context.WithTimeout(ctx, callTimeout)
		upload := m.deps.Uploader.Upload(uploadCtx, storage.File{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Content:     att.Content,
		}, m.deps.Folder)
		cancel()
		if !upload.Success {
			log.Printf("resume upload for %s failed: %s", info.Email, upload.Error)
		}

		score := assessment.AIScore
		payloads = append(payloads, db.CandidateData{
			FirstName:      info.FirstName,
			LastName:       info.LastName,
			Email:          info.Email,
			Phone:          info.Phone,
			Position:       info.Position,
			ResumeURL:      upload.URL,
			CoverLetter:    msg.Body,
			AIScore:        &score,
			Skills:         assessment.Skills,
			Experience:     assessment.Experience,
			Education:      assessment.Education,
			Strengths:      assessment.Strengths,
			Weaknesses:     assessment.Weaknesses,
			Recommendation: assessment.Recommendation,
			Summary:        assessment.Summary,
		})
	}

	return payloads, errs
}

func (m *Monitor) checkDedup(ctx context.Context, messageID string) (bool, error) {
	if m.deps.Dedup == nil {
		return true, nil
	}
	dedupCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	return m.deps.Dedup.IsNew(dedupCtx, messageID)
}

// recordAudit writes one processed_emails row per handled message.
func (m *Monitor) recordAudit(ctx context.Context, messages []mailbox.Message, perMessage map[string][]string, batch *screening.BatchResult, result *CycleResult) {
	failedEmails := make(map[string]bool, len(batch.Errors))
	for _, e := range batch.Errors {
		failedEmails[e.Email] = true
	}
	parseFailures := make(map[string]int)
	for _, e := range result.Errors {
		if e.MessageID != "" {
			parseFailures[e.MessageID]++
		}
	}

	for _, msg := range messages {
		emails, handled := perMessage[msg.MessageID]
		if !handled && parseFailures[msg.MessageID] == 0 {
			continue // filtered by dedup
		}

		created, failed := 0, parseFailures[msg.MessageID]
		for _, email := range emails {
			if failedEmails[email] {
				failed++
			} else if batch.Actions[email] == "created" {
				created++
			}
		}

		status := db.StatusFromCounts(len(emails)+parseFailures[msg.MessageID], failed)
		rec := db.ProcessedEmail{
			MessageID:            msg.MessageID,
			Subject:              msg.Subject,
			Sender:               msg.From,
			AttachmentsProcessed: len(msg.Attachments),
			CandidatesCreated:    created,
			Status:               status,
		}
		if failed > 0 {
			rec.Error = fmt.Sprintf("%d of %d attachment(s) failed", failed, len(msg.Attachments))
		}

		auditCtx, cancel := context.WithTimeout(ctx, callTimeout)
		if err := m.deps.Store.RecordProcessedEmail(auditCtx, rec); err != nil {
			log.Printf("failed to record audit row for %s: %v", msg.MessageID, err)
		}
		cancel()
	}
}

func (m *Monitor) touchConfig(ctx context.Context) {
	touchCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	if err := m.deps.Store.TouchEmailConfig(touchCtx); err != nil {
		log.Printf("failed to record last mailbox check: %v", err)
	}
}

// sendSummary emails the cycle outcome to HR. Failures only log; the cycle
// already succeeded.
func (m *Monitor) sendSummary(ctx context.Context, result *CycleResult) {
	if m.deps.Mailer == nil || !m.deps.Mailer.Enabled() || m.deps.HREmail == "" {
		return
	}
	if result.Processed == 0 && result.Failed == 0 {
		return
	}

	summary := notify.BatchSummary{
		Processed: result.Processed,
		Created:   result.Created,
		Updated:   result.Updated,
		Failed:    result.Failed,
	}

	sendCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	if err := m.deps.Mailer.Send(sendCtx, m.deps.HREmail, notify.SummarySubject(summary), notify.SummaryHTML(summary)); err != nil {
		log.Printf("failed to send screening summary email: %v", err)
	}
}
