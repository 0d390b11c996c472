package mailparser

import (
	"errors"
	"strings"
)

var (
	ErrInvalidEmailFormat = errors.New("invalid email address format")
)

// ParseAddressList splits a To/Cc style header on commas that are outside
// quotes and comments.
func ParseAddressList(s string) ([]string, error) {
	var addresses []string
	var quoted bool
	var escape bool
	var comment bool
	var depth int
	var buf strings.Builder

	for _, r := range s {
		switch {
		case escape:
			buf.WriteRune(r)
			escape = false
		case r == '\\':
			escape = true
		case r == '"':
			if !comment {
				quoted = !quoted
			}
			buf.WriteRune(r)
		case r == '(' && !quoted:
			comment = true
			depth++
		case r == ')' && comment:
			depth--
			if depth == 0 {
				comment = false
			}
		case comment:
			continue
		case r == ',' && !quoted:
			part := strings.TrimSpace(buf.String())
			if part != "" {
				addresses = append(addresses, part)
			}
			buf.Reset()
		default:
			buf.WriteRune(r)
		}
	}

	if trimmed := strings.TrimSpace(buf.String()); trimmed != "" {
		addresses = append(addresses, trimmed)
	}

	if len(addresses) == 0 {
		return nil, ErrInvalidEmailFormat
	}

	return addresses, nil
}

// ParseAddress extracts the display name and the mailbox/host parts from a
// single From/To header value.
func ParseAddress(s string) (name, mbox, host string) {
	var address string
	var quoted bool
	var escape bool
	var inAngle bool
	var comment bool
	var depth int
	start, end := -1, -1

	var buf strings.Builder

	for _, r := range s {
		switch {
		case escape:
			escape = false
		case r == '\\':
			escape = true
		case r == '"' && !inAngle && !comment:
			quoted = !quoted
		case r == '(' && !quoted:
			comment = true
			depth++
			continue
		case r == ')' && comment:
			depth--
			if depth == 0 {
				comment = false
			}
			continue
		case comment:
			continue
		case r == '<' && !quoted:
			inAngle = true
			start = buf.Len()
		case r == '>' && !quoted:
			inAngle = false
			end = buf.Len()
		}
		buf.WriteRune(r)
	}

	clean := buf.String()

	if start >= 0 && start < end {
		address = clean[start+1 : end]
		name = strings.TrimSpace(clean[:start])
	} else {
		address = clean
	}
	name = strings.Trim(name, `"' `)
	mbox, host = parseHostDomain(strings.TrimSpace(address))

	return name, mbox, host
}

// SplitAddress returns the decoded display name and the lower-cased address.
func SplitAddress(s string) (name, email string) {
	name, mbox, host := ParseAddress(s)
	email = mbox
	if host != "" {
		email = mbox + "@" + host
	}
	return DecodeHeaderOrRaw(name), strings.ToLower(email)
}

func parseHostDomain(address string) (mbox, host string) {
	at := strings.LastIndex(address, "@")
	if at < 0 {
		return strings.TrimSpace(address), ""
	}

	mbox = strings.TrimSpace(address[:at])
	host = strings.TrimSpace(address[at+1:])

	return mbox, host
}
