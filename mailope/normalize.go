package mailope

import (
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/masa23/crmmail/classifier"
	"github.com/masa23/crmmail/mailfetch"
	"github.com/masa23/crmmail/mailparser"
	"github.com/masa23/crmmail/model"
)

const (
	PlaceholderSubject = "Synchronisation en cours"
	PlaceholderText    = "Vos emails sont en cours de synchronisation. Ils apparaîtront dans quelques instants."
	placeholderFrom    = "system@crm.local"
)

// Normalize turns a fetched message into an EmailRecord. index is the
// 1-based position of raw in its fetch batch and only used when the server
// did not report a UID.
func Normalize(raw mailfetch.RawMessage, accountEmail string, cls *classifier.Classifier, now time.Time, index int) model.EmailRecord {
	content := raw.HTMLBody
	if content == "" {
		content = raw.TextBody
	}
	// go-message has already removed the transfer encoding of parsed parts.
	if !raw.Decoded {
		content = mailparser.DecodeQuotedPrintable(content)
	}

	subject := mailparser.DecodeHeaderOrRaw(raw.Subject)
	sanitized := mailparser.Sanitize(content)

	html := sanitized.HTML
	if rule, ok := cls.Classify(subject + "\n" + content); ok {
		html = rule.Fragment
	}

	id := raw.UID
	if id == 0 {
		id = uint32(index)
	}

	created := raw.Date
	if created.IsZero() {
		created = now
	}

	fromEmail := strings.ToLower(raw.FromAddr)
	direction := model.DirectionInbound
	if fromEmail != "" && strings.EqualFold(fromEmail, accountEmail) {
		direction = model.DirectionOutbound
	}

	return model.EmailRecord{
		ID:          id,
		Subject:     subject,
		FromEmail:   fromEmail,
		FromName:    mailparser.DecodeHeaderOrRaw(raw.FromName),
		ToEmail:     strings.ToLower(raw.ToAddr),
		ToName:      mailparser.DecodeHeaderOrRaw(raw.ToName),
		Direction:   direction,
		Status:      model.StatusDelivered,
		IsRead:      raw.HasFlag(imap.FlagSeen),
		IsStarred:   raw.HasFlag(imap.FlagFlagged),
		IsImportant: raw.HasFlag(mailfetch.FlagImportant),
		CreatedAt:   created.UTC().Format(time.RFC3339),
		HTMLContent: html,
		TextContent: mailparser.Summary(sanitized.Text),
		Images:      sanitized.Images,
	}
}

// NormalizeAll normalizes a fetch batch in order.
func NormalizeAll(raws []mailfetch.RawMessage, accountEmail string, cls *classifier.Classifier, now time.Time) []model.EmailRecord {
	records := make([]model.EmailRecord, 0, len(raws))
	for i, raw := range raws {
		records = append(records, Normalize(raw, accountEmail, cls, now, i+1))
	}
	return records
}

// Placeholder is the record shown while the mailbox cannot be read.
func Placeholder(now time.Time) model.EmailRecord {
	return model.EmailRecord{
		ID:          1,
		Subject:     PlaceholderSubject,
		FromEmail:   placeholderFrom,
		FromName:    "CRM",
		Direction:   model.DirectionInbound,
		Status:      model.StatusDelivered,
		IsRead:      true,
		CreatedAt:   now.UTC().Format(time.RFC3339),
		HTMLContent: mailparser.WrapHTML(PlaceholderText),
		TextContent: PlaceholderText,
		Images:      []string{},
	}
}
