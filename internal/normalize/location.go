package normalize

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxLocationLen keeps a runaway match from swallowing a whole paragraph.
const maxLocationLen = 120

var (
	locationLabelRe = regexp.MustCompile(`(?i)^(?:location|where|venue|room)\s*[:\-–]\s*(.+)$`)
	atClauseRe      = regexp.MustCompile(`(?:^|\s)@\s*([^@]+)$`)
)

// extractLocation pulls a best-effort venue string out of the raw description
// HTML. It looks for a labelled line ("Location: Student Centre") first, then
// for a trailing "@ place" clause. Returns false when neither convention is
// present.
func extractLocation(rawHTML string) (string, bool) {
	lines := descriptionLines(rawHTML)

	for _, line := range lines {
		if m := locationLabelRe.FindStringSubmatch(line); m != nil {
			if loc := cleanLocation(m[1]); loc != "" {
				return loc, true
			}
		}
	}

	for _, line := range lines {
		if m := atClauseRe.FindStringSubmatch(line); m != nil {
			if loc := cleanLocation(m[1]); loc != "" {
				return loc, true
			}
		}
	}

	return "", false
}

// descriptionLines renders description HTML into visual lines so that
// line-oriented scanning sees what a reader sees. <br> and block elements
// become line breaks; a plain-text description passes through untouched.
// Scanning rendered lines instead of running regexes over raw markup keeps
// the label patterns independent of how the feed nests its tags.
func descriptionLines(rawHTML string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return splitLines(html.UnescapeString(rawHTML))
	}

	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})
	doc.Find("p, div, li, h1, h2, h3, h4, tr").Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml("\n")
	})

	return splitLines(doc.Text())
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = collapseWhitespace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// cleanLocation trims a matched venue string down to something displayable.
func cleanLocation(s string) string {
	s = collapseWhitespace(s)
	s = strings.TrimRight(s, ".,;:!")
	if len(s) > maxLocationLen {
		s = s[:maxLocationLen]
		if i := strings.LastIndex(s, " "); i > 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
