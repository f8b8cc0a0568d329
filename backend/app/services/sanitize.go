package services

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Markup accepted in story bodies. Anything not listed is stripped.
var (
	allowedContentElements = []string{
		"p", "br", "b", "strong", "i", "em", "u", "s", "strike",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "blockquote", "pre", "code",
		"a", "img", "span", "div", "hr",
	}
	classValue = regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)
	blankOnly  = regexp.MustCompile(`^_blank$`)
)

// ContentSanitizer applies the allow-list to submitted stories.
type ContentSanitizer struct {
	body  *bluemonday.Policy
	plain *bluemonday.Policy
}

func NewContentSanitizer() *ContentSanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements(allowedContentElements...)

	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(blankOnly).OnElements("a")
	p.AllowAttrs("src", "alt", "title").OnElements("img")
	p.AllowAttrs("width", "height").Matching(bluemonday.Integer).OnElements("img")
	p.AllowAttrs("class").Matching(classValue).OnElements("span", "div", "p", "code", "pre")

	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(false)
	p.RequireNoFollowOnLinks(true)
	p.RequireNoReferrerOnLinks(true)

	return &ContentSanitizer{body: p, plain: bluemonday.StrictPolicy()}
}

// Content returns the allow-listed markup.
func (s *ContentSanitizer) Content(raw string) string {
	return strings.TrimSpace(s.body.Sanitize(raw))
}

// maxTitlePasses bounds how many layers of entity encoding Title unwraps.
const maxTitlePasses = 8

// Title strips all markup and returns plain text. Unescaping can expose
// markup that was entity-encoded, so strip and unescape repeat until the
// text stops changing. Titles still changing after maxTitlePasses are
// dropped entirely.
func (s *ContentSanitizer) Title(raw string) string {
	cur := raw
	for i := 0; i < maxTitlePasses; i++ {
		next := html.UnescapeString(s.plain.Sanitize(cur))
		if next == cur {
			return strings.TrimSpace(cur)
		}
		cur = next
	}
	return ""
}
