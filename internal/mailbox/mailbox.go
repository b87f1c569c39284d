// Package mailbox reads job applications from an IMAP inbox. It fetches
// unseen messages, parses their MIME structure and returns the plain-text
// body together with any resume attachments. Messages are never marked
// seen; downstream deduplication and idempotent upserts make repeated
// fetches harmless.
package mailbox

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"github.com/hr360/screening-agent/internal/resume"
)

// Attachment is a file carried by an inbox message.
type Attachment struct {
	Filename    string
	ContentType string
	Size        int
	Content     []byte
}

// Message is a parsed inbox message with its resume attachments.
type Message struct {
	MessageID   string
	From        string
	Subject     string
	Date        time.Time
	Body        string
	Attachments []Attachment
}

// Config holds the connection settings for one mailbox.
type Config struct {
	Addr     string // host:port
	Username string
	Password string
	Mailbox  string // usually INBOX
}

// Session is one open IMAP connection. Sessions are not safe for
// concurrent use; the monitor opens a fresh one per cycle.
type Session struct {
	client *imapclient.Client
}

// Connect dials the server over TLS and logs in. Failures of either step
// are reported as *ConnectionError.
func Connect(ctx context.Context, cfg Config) (*Session, error) {
	host, _, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		return nil, &ConnectionError{Addr: cfg.Addr, Cause: err}
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Addr)
	if err != nil {
		return nil, &ConnectionError{Addr: cfg.Addr, Cause: err}
	}

	tlsConn := tls.Client(conn, &tls.Config{ServerName: host})
	client := imapclient.New(tlsConn, nil)

	if err := client.Login(cfg.Username, cfg.Password).Wait(); err != nil {
		client.Close()
		return nil, &ConnectionError{Addr: cfg.Addr, Cause: fmt.Errorf("login failed: %w", err)}
	}

	mbox := cfg.Mailbox
	if mbox == "" {
		mbox = "INBOX"
	}
	if _, err := client.Select(mbox, nil).Wait(); err != nil {
		client.Close()
		return nil, &ConnectionError{Addr: cfg.Addr, Cause: fmt.Errorf("select %s failed: %w", mbox, err)}
	}

	return &Session{client: client}, nil
}

// Close logs out and drops the connection.
func (s *Session) Close() error {
	if err := s.client.Logout().Wait(); err != nil {
		return s.client.Close()
	}
	return nil
}

// FetchUnseen returns the unseen messages that carry at least one resume
// attachment (.pdf, .doc or .docx). Messages that fail to parse are
// skipped with a log line rather than failing the fetch.
func (s *Session) FetchUnseen(ctx context.Context) ([]Message, error) {
	searchData, err := s.client.Search(&imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to search unseen messages: %w", err)
	}

	seqNums := searchData.AllSeqNums()
	if len(seqNums) == 0 {
		return nil, nil
	}

	bodySection := &imap.FetchItemBodySection{}
	fetched, err := s.client.Fetch(imap.SeqSetNum(seqNums...), &imap.FetchOptions{
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}).Collect()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []Message
	for _, buf := range fetched {
		msg, err := parseMessage(buf, bodySection)
		if err != nil {
			log.Printf("skipping unparseable message %d: %v", buf.SeqNum, err)
			continue
		}
		if len(msg.Attachments) == 0 {
			continue
		}
		messages = append(messages, *msg)
	}
	return messages, nil
}

func parseMessage(buf *imapclient.FetchMessageBuffer, section *imap.FetchItemBodySection) (*Message, error) {
	raw := buf.FindBodySection(section)
	if raw == nil {
		return nil, fmt.Errorf("message body missing from fetch response")
	}

	msg := &Message{}
	if env := buf.Envelope; env != nil {
		msg.Subject = env.Subject
		msg.Date = env.Date
		msg.MessageID = env.MessageID
		if len(env.From) > 0 {
			msg.From = env.From[0].Addr()
		}
	}
	if msg.MessageID == "" {
		msg.MessageID = syntheticMessageID(msg.From, msg.Subject, msg.Date)
	}

	body, attachments, err := parseMIME(raw)
	if err != nil {
		return nil, err
	}
	msg.Body = body
	msg.Attachments = attachments
	return msg, nil
}

// parseMIME walks the MIME parts, collecting the first text body and every
// resume attachment.
func parseMIME(raw []byte) (string, []Attachment, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read message: %w", err)
	}

	var body strings.Builder
	var attachments []Attachment

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("failed to read message part: %w", err)
		}

		switch header := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := header.ContentType()
			if body.Len() == 0 && strings.HasPrefix(contentType, "text/plain") {
				content, err := io.ReadAll(part.Body)
				if err != nil {
					return "", nil, fmt.Errorf("failed to read message body: %w", err)
				}
				body.Write(content)
			}
		case *mail.AttachmentHeader:
			filename, _ := header.Filename()
			if !resume.IsResumeFilename(filename) {
				continue
			}
			contentType, _, _ := header.ContentType()
			content, err := io.ReadAll(part.Body)
			if err != nil {
				return "", nil, fmt.Errorf("failed to read attachment %s: %w", filename, err)
			}
			attachments = append(attachments, Attachment{
				Filename:    filename,
				ContentType: contentType,
				Size:        len(content),
				Content:     content,
			})
		}
	}

	return body.String(), attachments, nil
}

// syntheticMessageID gives messages without a Message-ID header a stable
// identity so deduplication still works.
func syntheticMessageID(from, subject string, date time.Time) string {
	sum := sha256.Sum256([]byte(from + "\x00" + subject + "\x00" + date.UTC().Format(time.RFC3339)))
	return fmt.Sprintf("<synthetic-%x@screening>", sum[:12])
}
