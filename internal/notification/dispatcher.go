package notification

import (
	"fmt"
	"regexp"

	"gopkg.in/gomail.v2"

	"realty-auctions/internal/auctionerrors"
	"realty-auctions/utils"
)

// local-part@domain.tld shape; checked before any network dial
var addressPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9\-]+(\.[a-zA-Z0-9\-]+)*\.[a-zA-Z]{2,}$`)

// ValidAddress reports whether the recipient address is syntactically usable
func ValidAddress(address string) bool {
	return addressPattern.MatchString(address)
}

// Dispatcher delivers a notification event to its recipient. Implementations
// report failure through the returned error; callers decide whether the
// failure matters (auction operations treat it as log-and-continue).
type Dispatcher interface {
	Send(ev Event) error
}

// SMTPDispatcher delivers notification emails over SMTP
type SMTPDispatcher struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPDispatcher creates a dispatcher backed by the given SMTP server
func NewSMTPDispatcher(host string, port int, username, password, from string) *SMTPDispatcher {
	return &SMTPDispatcher{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send formats and delivers the event. A malformed recipient address fails
// immediately without touching the network.
func (d *SMTPDispatcher) Send(ev Event) error {
	if !ValidAddress(ev.Recipient) {
		return fmt.Errorf("send %s notification to %q: %w", ev.Type, ev.Recipient, auctionerrors.ErrInvalidAddress)
	}

	subject, body := Format(ev)

	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", ev.Recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := d.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send %s notification to %s: %v: %w", ev.Type, ev.Recipient, err, auctionerrors.ErrTransport)
	}
	return nil
}

// LogDispatcher logs notifications instead of sending them. Used when no
// SMTP server is configured (local development).
type LogDispatcher struct{}

// Send validates the recipient and logs the formatted notification
func (LogDispatcher) Send(ev Event) error {
	if !ValidAddress(ev.Recipient) {
		return fmt.Errorf("send %s notification to %q: %w", ev.Type, ev.Recipient, auctionerrors.ErrInvalidAddress)
	}
	subject, _ := Format(ev)
	utils.Info("notification (email disabled)", map[string]any{
		"type":      string(ev.Type),
		"recipient": ev.Recipient,
		"subject":   subject,
	})
	return nil
}
