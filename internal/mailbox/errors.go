package mailbox

import "fmt"

// ConnectionError indicates the IMAP server could not be reached or the
// login was rejected. The monitor aborts the cycle and retries on the next
// tick instead of backing off.
type ConnectionError struct {
	Addr  string
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mailbox connection to %s failed: %v", e.Addr, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}
