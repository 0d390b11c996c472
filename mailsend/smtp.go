package mailsend

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/masa23/crmmail/model"
)

// Result describes a message handed to the SMTP server.
type Result struct {
	MessageID string
	Raw       []byte
}

type Sender interface {
	Send(ctx context.Context, account model.EmailAccount, msg Message) (Result, error)
}

// SMTPSender submits messages with the account's SMTP settings: implicit
// TLS when Secure is set, STARTTLS otherwise.
type SMTPSender struct{}

func (SMTPSender) Send(ctx context.Context, account model.EmailAccount, msg Message) (Result, error) {
	raw, messageID, err := Build(msg)
	if err != nil {
		return Result{}, err
	}
	to, err := msg.Recipients()
	if err != nil {
		return Result{}, err
	}

	settings := account.SMTP
	host := settings.Host
	addr := net.JoinHostPort(host, strconv.Itoa(settings.Port))
	tlsConfig := &tls.Config{ServerName: host}

	var conn net.Conn
	if settings.Secure {
		d := tls.Dialer{Config: tlsConfig}
		conn, err = d.DialContext(ctx, "tcp", addr)
	} else {
		var d net.Dialer
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return Result{}, fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return Result{}, fmt.Errorf("smtp new client: %w", err)
	}
	defer client.Close()

	if !settings.Secure {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return Result{}, fmt.Errorf("smtp server %s does not support STARTTLS", addr)
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return Result{}, fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if err := client.Auth(smtp.PlainAuth("", settings.User, settings.Password, host)); err != nil {
		return Result{}, fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(msg.From); err != nil {
		return Result{}, fmt.Errorf("smtp mail: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt.Address); err != nil {
			return Result{}, fmt.Errorf("smtp rcpt %s: %w", rcpt.Address, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return Result{}, fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return Result{}, fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return Result{}, fmt.Errorf("smtp data close: %w", err)
	}
	if err := client.Quit(); err != nil {
		return Result{}, fmt.Errorf("smtp quit: %w", err)
	}

	return Result{MessageID: messageID, Raw: raw}, nil
}
