// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender relays messages through an SMTP server with optional PLAIN auth.
//
// STARTTLS is used when the server offers it.
type SMTPSender struct {
	client *gomail.Client
}

// NewSMTPSender returns a sender for settings.SMTPAddr ("host:port").
// Credentials may be empty; a zero Timeout falls back to [DefaultTimeout].
func NewSMTPSender(settings Settings) (*SMTPSender, error) {
	host, portText, err := net.SplitHostPort(settings.SMTPAddr)
	if err != nil {
		return nil, fmt.Errorf("mail: invalid smtp address %q: %w", settings.SMTPAddr, err)
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		return nil, fmt.Errorf("mail: invalid smtp port %q: %w", portText, err)
	}

	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	options := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTimeout(timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if settings.Username != "" {
		options = append(options,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(settings.Username),
			gomail.WithPassword(settings.Password),
		)
	}

	client, err := gomail.NewClient(host, options...)
	if err != nil {
		return nil, fmt.Errorf("mail: failed to configure smtp client: %w", err)
	}
	return &SMTPSender{client: client}, nil
}

// Send dials, delivers and disconnects. ctx cancels the whole exchange.
func (sender *SMTPSender) Send(ctx context.Context, message Message) error {
	msg, err := compose(message, time.Now())
	if err != nil {
		return err
	}

	if err := sender.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: smtp delivery to %v failed: %w", message.To, err)
	}
	return nil
}
