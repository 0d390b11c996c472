package mailparser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	FallbackGeneric   = "Email reçu - Contenu disponible"
	FallbackHostinger = "Email de configuration Hostinger reçu"

	// SummaryLength is the rune limit of the short text summary.
	SummaryLength = 300

	minContentLength = 10
)

// Sanitized is the display form of a message body.
type Sanitized struct {
	HTML     string
	Text     string
	Images   []string
	Fallback bool
}

// Sanitize runs the full cleaning pipeline over a decoded body part. Image
// URLs are collected first, from the untouched input, so that images living
// in blocks or attributes removed later are still reported.
func Sanitize(raw string) Sanitized {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	images := ExtractImages(raw)

	s := StripBlocks(raw)
	s = StripInlineStyles(s)
	s = BlockBreaks(s)
	s = StripTags(s)
	s = StripMIMEArtifacts(s)
	s = DecodeEntities(s)
	s = StripControl(s)
	s = CollapseWhitespace(s)

	text, fallback := Fallback(s, raw)
	return Sanitized{
		HTML:     WrapHTML(text),
		Text:     text,
		Images:   images,
		Fallback: fallback,
	}
}

var (
	styleBlock  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?(?:</style\s*>|$)`)
	scriptBlock = regexp.MustCompile(`(?is)<script\b[^>]*>.*?(?:</script\s*>|$)`)
	headBlock   = regexp.MustCompile(`(?is)<head\b[^>]*>.*?</head\s*>`)
	linkMetaTag = regexp.MustCompile(`(?is)<(?:link|meta)\b[^>]*>`)
)

// StripBlocks removes style, script and head blocks and link/meta tags.
// Unterminated style and script blocks run to the end of the input.
func StripBlocks(s string) string {
	s = headBlock.ReplaceAllString(s, "")
	s = styleBlock.ReplaceAllString(s, "")
	s = scriptBlock.ReplaceAllString(s, "")
	return linkMetaTag.ReplaceAllString(s, "")
}

var (
	styleAttrDouble = regexp.MustCompile(`(?is)\s*\bstyle\s*=\s*"[^"]*"`)
	styleAttrSingle = regexp.MustCompile(`(?is)\s*\bstyle\s*=\s*'[^']*'`)
)

// StripInlineStyles drops style="..." and style='...' attributes.
func StripInlineStyles(s string) string {
	s = styleAttrDouble.ReplaceAllString(s, "")
	return styleAttrSingle.ReplaceAllString(s, "")
}

var (
	brTag       = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockClose  = regexp.MustCompile(`(?i)</(?:p|div|tr|li|h[1-6])\s*>`)
	cellClose   = regexp.MustCompile(`(?i)</td\s*>`)
	anchorTag   = regexp.MustCompile(`(?i)</?a\b[^>]*>`)
	anyTag      = regexp.MustCompile(`(?s)<(?:/?[A-Za-z][^>]*|!--.*?--|![^>]*)>`)
	boundary    = regexp.MustCompile(`(?m)^[ \t]*--[-=_.+A-Za-z0-9]{6,}[ \t]*$`)
	mimeHeader  = regexp.MustCompile(`(?mi)^[ \t]*(?:content-[a-z-]+|mime-version)[ \t]*:.*$`)
	mimeParam   = regexp.MustCompile(`(?mi)^[ \t]+(?:boundary|charset|name|filename)=.*$`)
	spaceRun    = regexp.MustCompile(`[ \t]+`)
	bareHexText = regexp.MustCompile(`^[-=_]*[0-9A-Fa-f]{16,}[-=_]*$`)
)

// BlockBreaks turns block boundaries into newlines and table cells into
// spaces. Anchor tags are dropped, their text is kept.
func BlockBreaks(s string) string {
	s = brTag.ReplaceAllString(s, "\n")
	s = blockClose.ReplaceAllString(s, "\n")
	s = cellClose.ReplaceAllString(s, " ")
	return anchorTag.ReplaceAllString(s, "")
}

// StripTags removes anything that still looks like a tag or a comment.
func StripTags(s string) string {
	return anyTag.ReplaceAllString(s, "")
}

// StripMIMEArtifacts removes boundary lines and part headers left over when
// a whole multipart body was passed in.
func StripMIMEArtifacts(s string) string {
	s = boundary.ReplaceAllString(s, "")
	s = mimeHeader.ReplaceAllString(s, "")
	return mimeParam.ReplaceAllString(s, "")
}

// DecodeEntities resolves named and numeric HTML entities. Non-breaking
// spaces become plain spaces.
func DecodeEntities(s string) string {
	s = html.UnescapeString(s)
	return strings.ReplaceAll(s, "\u00a0", " ")
}

// StripControl removes control characters other than newline and tab,
// zero-width characters, box-drawing symbols and pipes.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == '|':
			return -1
		case r >= 0x2500 && r <= 0x257F:
			return -1
		case r >= 0x200B && r <= 0x200D, r == 0xFEFF:
			return -1
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// CollapseWhitespace squeezes runs of blanks, trims every line and keeps at
// most one empty line between paragraphs.
func CollapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Fallback replaces unusable text with a fixed message. raw is the original
// input and only decides which message is used.
func Fallback(text, raw string) (string, bool) {
	compact := strings.Join(strings.Fields(text), "")
	if utf8.RuneCountInString(strings.TrimSpace(text)) >= minContentLength && !bareHexText.MatchString(compact) {
		return text, false
	}
	if strings.Contains(strings.ToLower(raw), "hostinger") {
		return FallbackHostinger, true
	}
	return FallbackGeneric, true
}

// Summary truncates text to SummaryLength runes followed by an ellipsis.
func Summary(text string) string {
	if utf8.RuneCountInString(text) <= SummaryLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:SummaryLength])) + "..."
}

const wrapperTemplate = `<div class='email-content' style='max-width:100%;font-family:Arial,Helvetica,sans-serif;font-size:14px;line-height:1.5;color:#1f2937;word-wrap:break-word;'>` +
	`<div class='email-header' style='background:#2563eb;color:#ffffff;padding:10px 12px;border-radius:6px 6px 0 0;font-weight:bold;'>Message reçu</div>` +
	`<div class='email-body' style='white-space:pre-line;padding:12px;background:#ffffff;border:1px solid #e5e7eb;border-top:none;border-radius:0 0 6px 6px;'>%s</div>` +
	`</div>`

// WrapHTML escapes text and places it in the fixed display template.
func WrapHTML(text string) string {
	return strings.Replace(wrapperTemplate, "%s", html.EscapeString(text), 1)
}
