package mailparser

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var backgroundURL = regexp.MustCompile(`(?i)background(?:-image)?\s*:[^;{}]*?url\(\s*['"]?([^'")\s]+)['"]?\s*\)`)

// ExtractImages returns the unique image URLs referenced by <img src> and
// CSS background images, in document order. Only http(s) URLs and
// data:image/ URIs are kept.
func ExtractImages(s string) []string {
	images := []string{}
	seen := map[string]bool{}
	add := func(src string) {
		src = strings.TrimSpace(src)
		if !isImageSource(src) || seen[src] {
			return
		}
		seen[src] = true
		images = append(images, src)
	}
	addCSS := func(css string) {
		for _, m := range backgroundURL.FindAllStringSubmatch(css, -1) {
			add(m[1])
		}
	}

	z := html.NewTokenizer(strings.NewReader(s))
	inStyle := false
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed document, both end the scan
			return images
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data == "style" && tt == html.StartTagToken {
				inStyle = true
			}
			for _, attr := range tok.Attr {
				switch {
				case tok.Data == "img" && attr.Key == "src":
					add(attr.Val)
				case attr.Key == "style":
					addCSS(attr.Val)
				case attr.Key == "background":
					add(attr.Val)
				}
			}
		case html.EndTagToken:
			if tok := z.Token(); tok.Data == "style" {
				inStyle = false
			}
		case html.TextToken:
			if inStyle {
				addCSS(string(z.Text()))
			}
		}
	}
}

func isImageSource(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:image/")
}
