// Package mailsend composes and delivers outbound messages.
package mailsend

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
	"github.com/masa23/crmmail/model"
	"golang.org/x/net/html"
)

var ErrNoRecipient = errors.New("no recipient")

type Message struct {
	From     string
	FromName string
	To       string
	ReplyTo  string
	Subject  string
	HTML     string
	Text     string
	Date     time.Time
}

// FromAccount fills the sender fields from the account's SMTP settings and
// appends its signature.
func FromAccount(account model.EmailAccount, to, subject, htmlBody, textBody string) Message {
	msg := Message{
		From:     account.SMTP.FromEmail,
		FromName: account.SMTP.FromName,
		To:       to,
		ReplyTo:  account.SMTP.ReplyTo,
		Subject:  subject,
		HTML:     htmlBody,
		Text:     textBody,
	}
	return AppendSignature(msg, account.SMTP.Signature)
}

// AppendSignature adds sig below both bodies. Empty bodies stay empty.
func AppendSignature(msg Message, sig string) Message {
	sig = strings.TrimSpace(sig)
	if sig == "" {
		return msg
	}
	if msg.Text != "" {
		msg.Text = strings.TrimRight(msg.Text, "\n") + "\n\n-- \n" + sig
	}
	if msg.HTML != "" {
		lines := strings.Split(html.EscapeString(sig), "\n")
		msg.HTML += "<p class='signature'>--<br>" + strings.Join(lines, "<br>") + "</p>"
	}
	return msg
}

// Recipients parses the comma separated To field.
func (m Message) Recipients() ([]*mail.Address, error) {
	if strings.TrimSpace(m.To) == "" {
		return nil, ErrNoRecipient
	}
	addrs, err := mail.ParseAddressList(m.To)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", m.To, err)
	}
	if len(addrs) == 0 {
		return nil, ErrNoRecipient
	}
	return addrs, nil
}

func messageIDDomain(from string) string {
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		return from[i+1:]
	}
	return "localhost"
}

// Build renders msg as an RFC 5322 message. Both bodies produce a
// multipart/alternative message; a single body is sent on its own.
func Build(msg Message) (raw []byte, messageID string, err error) {
	to, err := msg.Recipients()
	if err != nil {
		return nil, "", err
	}

	date := msg.Date
	if date.IsZero() {
		date = time.Now()
	}
	messageID = uuid.New().String() + "@" + messageIDDomain(msg.From)

	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{{Name: msg.FromName, Address: msg.From}})
	h.SetAddressList("To", to)
	if msg.ReplyTo != "" {
		h.SetAddressList("Reply-To", []*mail.Address{{Address: msg.ReplyTo}})
	}
	h.SetSubject(msg.Subject)
	h.SetMessageID(messageID)

	var buf bytes.Buffer
	switch {
	case msg.HTML != "" && msg.Text != "":
		err = writeAlternative(&buf, h, msg)
	case msg.HTML != "":
		err = writeSingle(&buf, h, "text/html", msg.HTML)
	default:
		err = writeSingle(&buf, h, "text/plain", msg.Text)
	}
	if err != nil {
		return nil, "", fmt.Errorf("error building message: %w", err)
	}
	return buf.Bytes(), messageID, nil
}

func partHeader(contentType string) mail.InlineHeader {
	var h mail.InlineHeader
	h.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")
	return h
}

func writeSingle(w io.Writer, h mail.Header, contentType, body string) error {
	h.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")
	bw, err := mail.CreateSingleInlineWriter(w, h)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(bw, body); err != nil {
		bw.Close()
		return err
	}
	return bw.Close()
}

func writeAlternative(w io.Writer, h mail.Header, msg Message) error {
	mw, err := mail.CreateInlineWriter(w, h)
	if err != nil {
		return err
	}
	for _, p := range []struct{ contentType, body string }{
		{"text/plain", msg.Text},
		{"text/html", msg.HTML},
	} {
		pw, err := mw.CreatePart(partHeader(p.contentType))
		if err != nil {
			return err
		}
		if _, err := io.WriteString(pw, p.body); err != nil {
			pw.Close()
			return err
		}
		if err := pw.Close(); err != nil {
			return err
		}
	}
	return mw.Close()
}
