package mailsend

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/masa23/crmmail/model"
)

func readParts(t *testing.T, raw []byte) (*mail.Reader, map[string]string) {
	t.Helper()
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("CreateReader() = %v", err)
	}
	parts := map[string]string{}
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart() = %v", err)
		}
		ct, _, _ := p.Header.(*mail.InlineHeader).ContentType()
		body, _ := io.ReadAll(p.Body)
		parts[ct] = string(body)
	}
	return mr, parts
}

func TestBuildAlternative(t *testing.T) {
	msg := Message{
		From:     "commercial@example.fr",
		FromName: "Équipe Commerciale",
		To:       "Jean Dupont <jean@example.fr>, marie@example.fr",
		ReplyTo:  "ventes@example.fr",
		Subject:  "Dernière chance - Offre Free Freebox Ultra expire bientôt",
		HTML:     "<p>Économisez 45€</p>",
		Text:     "Économisez 45€",
		Date:     time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	}

	raw, id, err := Build(msg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(id, "@example.fr") || len(id) != 36+len("@example.fr") {
		t.Errorf("messageID = %q", id)
	}
	if !bytes.Contains(raw, []byte("multipart/alternative")) {
		t.Errorf("message is not multipart/alternative:\n%s", raw)
	}

	mr, parts := readParts(t, raw)
	if subject, _ := mr.Header.Subject(); subject != msg.Subject {
		t.Errorf("Subject = %q", subject)
	}
	if got, _ := mr.Header.MessageID(); got != id {
		t.Errorf("Message-Id = %q; want %q", got, id)
	}
	to, _ := mr.Header.AddressList("To")
	if len(to) != 2 || to[0].Address != "jean@example.fr" || to[1].Address != "marie@example.fr" {
		t.Errorf("To = %v", to)
	}
	from, _ := mr.Header.AddressList("From")
	if len(from) != 1 || from[0].Name != "Équipe Commerciale" {
		t.Errorf("From = %v", from)
	}
	if parts["text/plain"] != msg.Text || parts["text/html"] != msg.HTML {
		t.Errorf("parts = %q", parts)
	}
}

func TestBuildSinglePart(t *testing.T) {
	raw, _, err := Build(Message{From: "a@example.fr", To: "b@example.fr", Subject: "s", Text: "texte seul"})
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte("multipart")) {
		t.Errorf("single body built as multipart:\n%s", raw)
	}
	_, parts := readParts(t, raw)
	if parts["text/plain"] != "texte seul" {
		t.Errorf("parts = %q", parts)
	}
}

func TestBuildRejectsRecipients(t *testing.T) {
	if _, _, err := Build(Message{From: "a@example.fr", To: ""}); !errors.Is(err, ErrNoRecipient) {
		t.Errorf("Build() = %v; want ErrNoRecipient", err)
	}
	if _, _, err := Build(Message{From: "a@example.fr", To: "pas une adresse"}); err == nil {
		t.Errorf("Build() accepted an invalid recipient")
	}
}

func TestFromAccount(t *testing.T) {
	account := model.EmailAccount{
		SMTP: model.SMTPSettings{
			FromEmail: "support@example.fr",
			FromName:  "Support",
			ReplyTo:   "noreply@example.fr",
			Signature: "Service client\n01 23 45 67 89 <standard>",
		},
	}

	msg := FromAccount(account, "client@example.fr", "Ticket", "<p>Bonjour</p>", "Bonjour\n")
	if msg.From != "support@example.fr" || msg.FromName != "Support" || msg.ReplyTo != "noreply@example.fr" {
		t.Errorf("sender = %+v", msg)
	}
	if msg.Text != "Bonjour\n\n-- \nService client\n01 23 45 67 89 <standard>" {
		t.Errorf("Text = %q", msg.Text)
	}
	if !strings.HasSuffix(msg.HTML, "--<br>Service client<br>01 23 45 67 89 &lt;standard&gt;</p>") {
		t.Errorf("HTML = %q", msg.HTML)
	}

	bare := AppendSignature(Message{Text: "x"}, "  ")
	if bare.Text != "x" {
		t.Errorf("empty signature changed text: %q", bare.Text)
	}
}
