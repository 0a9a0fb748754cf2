// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers outbound transactional email.

Two backends exist:

  - FileSender writes every message as an RFC 5322 file into a directory,
    which is what development and test environments use.
  - SMTPSender relays through an SMTP server.

Both build the message with go-mail. Callers depend on the [Sender]
interface only; [New] picks the backend from configuration.
*/
package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// DefaultTimeout bounds dialing and each SMTP exchange when Settings.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// ErrIncomplete is returned for a message without a sender or recipient.
var ErrIncomplete = errors.New("mail: message needs a sender and at least one recipient")

// Message is a plain-text email.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Sender delivers a [Message].
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// Settings selects and configures a backend.
type Settings struct {
	Backend  string
	FilePath string
	SMTPAddr string
	Username string
	Password string
	Timeout  time.Duration
}

// New builds the backend named by settings.Backend ("file" or "smtp").
func New(settings Settings) (Sender, error) {
	switch settings.Backend {
	case "file":
		return NewFileSender(settings.FilePath)
	case "smtp":
		return NewSMTPSender(settings)
	default:
		return nil, fmt.Errorf("mail: unknown backend %q", settings.Backend)
	}
}

// compose turns a Message into a go-mail message dated sentAt.
func compose(message Message, sentAt time.Time) (*gomail.Msg, error) {
	if message.From == "" || len(message.To) == 0 {
		return nil, ErrIncomplete
	}

	msg := gomail.NewMsg()
	if err := msg.From(message.From); err != nil {
		return nil, fmt.Errorf("mail: invalid sender: %w", err)
	}
	if err := msg.To(message.To...); err != nil {
		return nil, fmt.Errorf("mail: invalid recipient: %w", err)
	}
	msg.Subject(message.Subject)
	msg.SetDateWithValue(sentAt)
	msg.SetBodyString(gomail.TypeTextPlain, message.Body)
	return msg, nil
}
