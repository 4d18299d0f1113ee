package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/wneessen/go-mail"
)

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

type Mail struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Mailer delivers a single mail. Implementations block until the mail was
// handed off, failed or ctx ended.
type Mailer interface {
	Send(ctx context.Context, m *Mail) error
}

// SMTPMailer sends mails through an SMTP relay. STARTTLS is used when the
// relay offers it.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (s *SMTPMailer) Send(ctx context.Context, m *Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if m.To == "" {
		return errors.New("no recipient provided")
	}

	msg := mail.NewMsg()
	if err := msg.From(s.From); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}

	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)

	for _, a := range m.Attachments {
		err := msg.AttachReader(a.Name, bytes.NewReader(a.Data),
			mail.WithFileContentType(mail.ContentType(a.ContentType)))
		if err != nil {
			return fmt.Errorf("attaching %s: %w", a.Name, err)
		}
	}

	opts := []mail.Option{
		mail.WithPort(s.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithDialContextFunc(dialWithDeadline(ctx)),
	}

	if s.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.Username),
			mail.WithPassword(s.Password),
		)
	}

	client, err := mail.NewClient(s.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("sending email: %w", ctxErr)
		}

		// The connection deadline can fire just before ctx's own timer
		if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
			return fmt.Errorf("sending email: %w", context.DeadlineExceeded)
		}

		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

// dialWithDeadline binds the whole SMTP conversation to sendCtx. The
// connection gets sendCtx's deadline and is cut off once sendCtx ends, a
// relay that stops answering can't hold a worker.
func dialWithDeadline(sendCtx context.Context) mail.DialContextFunc {
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		var d net.Dialer

		conn, err := d.DialContext(ctx, network, address)
		if err != nil {
			return nil, err
		}

		if deadline, ok := sendCtx.Deadline(); ok {
			if err := conn.SetDeadline(deadline); err != nil {
				conn.Close()
				return nil, err
			}
		}

		context.AfterFunc(sendCtx, func() {
			_ = conn.SetDeadline(time.Now())
		})

		return conn, nil
	}
}
