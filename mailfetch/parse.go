package mailfetch

import (
	"bytes"
	"io"
	"strings"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/masa23/crmmail/mailparser"
)

// parseBody fills the text and HTML parts of m from the RFC 822 message.
// Transfer encodings and charsets are decoded by go-message; when the
// structure cannot be read the raw message is kept as text.
func parseBody(m *RawMessage, raw []byte) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		m.TextBody = string(raw)
		return
	}
	defer mr.Close()

	if m.Subject == "" {
		if s, err := mr.Header.Subject(); err == nil {
			m.Subject = s
		}
	}
	if m.FromAddr == "" {
		m.FromName, m.FromAddr = headerAddress(mr.Header, "From")
	}
	if m.ToAddr == "" {
		m.ToName, m.ToAddr = headerAddress(mr.Header, "To")
	}
	if m.Date.IsZero() {
		if d, err := mr.Header.Date(); err == nil {
			m.Date = d
		}
	}

	m.Decoded = true
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if m.TextBody == "" && m.HTMLBody == "" {
				m.TextBody = string(raw)
				m.Decoded = false
			}
			return
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/html"):
			if m.HTMLBody == "" {
				m.HTMLBody = string(body)
			}
		case strings.HasPrefix(contentType, "text/plain"), contentType == "":
			if m.TextBody == "" {
				m.TextBody = string(body)
			}
		}
	}
}

// headerAddress returns the first address of a From/To header. Values the
// RFC 5322 parser rejects are split by hand.
func headerAddress(h mail.Header, key string) (name, addr string) {
	if list, err := h.AddressList(key); err == nil {
		if len(list) == 0 {
			return "", ""
		}
		return list[0].Name, list[0].Address
	}

	parts, err := mailparser.ParseAddressList(h.Get(key))
	if err != nil {
		return "", ""
	}
	return mailparser.SplitAddress(parts[0])
}
