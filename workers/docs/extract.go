package docs

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

const extractMaxChars = 50000

// blockElements end with a line break so text from separate blocks never
// runs together
var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var titleSuffix = regexp.MustCompile(`(?i)\s*-\s*Computation Layer.*$`)

// ExtractText pulls readable text out of a forum page: scripts and styles
// are dropped, block boundaries become paragraph breaks. Long pages are
// clamped around the first "Computation Layer" mention so the on-topic part
// survives.
func ExtractText(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			b.WriteString("\n")
		}
	}
	walk(doc)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	text := strings.Join(lines, "\n\n")

	if len(text) > extractMaxChars {
		start := 0
		if idx := strings.Index(text, "Computation Layer"); idx >= 0 {
			start = idx - 500
			if start < 0 {
				start = 0
			}
		}
		end := start + extractMaxChars
		if end > len(text) {
			end = len(text)
		}
		text = text[start:end]
	}

	return strings.TrimSpace(text)
}

// ExtractTitle returns the page title with the forum's boilerplate suffix
// removed
func ExtractTitle(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = n.FirstChild.Data
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return strings.TrimSpace(titleSuffix.ReplaceAllString(title, ""))
}
