// Package render turns computation layer source into display-ready HTML.
// All functions are pure; animation state lives with the typing scheduler
// and deck, so re-rendering any frame is always safe.
package render

import (
	"regexp"
	"strings"
)

// entityPattern matches HTML entities that are already escaped. Escaping is
// idempotent: running EscapeHTML over its own output changes nothing, so a
// frame can be re-rendered without double-escaping.
var entityPattern = regexp.MustCompile(`&(?:amp|lt|gt|quot|#39|#[0-9]+);`)

// EscapeHTML escapes &, <, > and " for safe embedding, leaving existing
// entities untouched
func EscapeHTML(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/8)

	last := 0
	for _, loc := range entityPattern.FindAllStringIndex(s, -1) {
		b.WriteString(escapeRaw(s[last:loc[0]]))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(escapeRaw(s[last:]))
	return b.String()
}

var rawEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeRaw(s string) string {
	return rawEscaper.Replace(s)
}

// Placement labels are instruction lines that tell the author where a block
// of code belongs. They render as labels, not as code.
var placementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*Slide\s+\d+(?:\s*-\s*[A-Za-z][A-Za-z ]*)?\s+CL\s*:?\s*$`),
	regexp.MustCompile(`(?i)^\s*In the .{0,80}Computation Layer\b.*$`),
	regexp.MustCompile(`(?i)^\s*Add .{0,120}\bto (?:its|the) .{0,40}Computation Layer\b.*$`),
}

// IsPlacementLabel reports whether a line is a placement instruction rather
// than code
func IsPlacementLabel(line string) bool {
	for _, p := range placementPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// Highlighting patterns, applied to escaped text. Strings match their
// escaped form since quotes become &quot; before this runs.
var (
	commentPattern = regexp.MustCompile(`#.*$`)
	stringPattern  = regexp.MustCompile(`&quot;.*?&quot;`)
	backtickCode   = regexp.MustCompile("`([^`]+)`")
	numberPattern  = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	keywordPattern = regexp.MustCompile(`\b(when|otherwise|and|or|not|true|false)\b`)
	builtinPattern = regexp.MustCompile(`\b(numericValue|simpleFunction|evaluateAt|timeSincePress|lastValue|capture|firstDefinedValue|randomGenerator|countNumberUsage|parseOrderedPair|content|button|note|graph|table|input|hidden|disableEvaluation|correct|initialLatex|cellContent|cellSuffix|script|pressCount)\b`)
)

// HighlightLine converts one escaped line of code to highlighted HTML
func HighlightLine(escaped string) string {
	// Comments swallow the rest of the line and skip further passes
	if idx := strings.Index(escaped, "#"); idx >= 0 {
		head := highlightCode(escaped[:idx])
		tail := commentPattern.FindString(escaped[idx:])
		return head + `<span class="tok-comment">` + tail + `</span>`
	}
	return highlightCode(escaped)
}

func highlightCode(escaped string) string {
	out := stringPattern.ReplaceAllString(escaped, `<span class="tok-string">$0</span>`)
	out = replaceOutsideSpans(out, keywordPattern, `<span class="tok-keyword">$1</span>`)
	out = replaceOutsideSpans(out, builtinPattern, `<span class="tok-builtin">$1</span>`)
	out = replaceOutsideSpans(out, numberPattern, `<span class="tok-number">$0</span>`)
	return out
}

// replaceOutsideSpans applies a replacement only to text not already wrapped
// in a highlight span, so passes never nest inside each other
func replaceOutsideSpans(s string, re *regexp.Regexp, repl string) string {
	var b strings.Builder
	for len(s) > 0 {
		open := strings.Index(s, "<span")
		if open < 0 {
			b.WriteString(re.ReplaceAllString(s, repl))
			break
		}
		b.WriteString(re.ReplaceAllString(s[:open], repl))
		closeIdx := strings.Index(s[open:], "</span>")
		if closeIdx < 0 {
			b.WriteString(s[open:])
			break
		}
		end := open + closeIdx + len("</span>")
		b.WriteString(s[open:end])
		s = s[end:]
	}
	return b.String()
}

// Highlight renders a full block of code as HTML. Each line becomes either a
// placement label or a highlighted code line; line breaks are preserved.
func Highlight(code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		if IsPlacementLabel(line) {
			out[i] = `<span class="cl-label">` + EscapeHTML(line) + `</span>`
			continue
		}
		out[i] = HighlightLine(EscapeHTML(line))
	}
	return strings.Join(out, "\n")
}

// RichText renders a chat message: backtick spans become inline code, the
// rest is escaped text
func RichText(text string) string {
	escaped := EscapeHTML(text)
	return backtickCode.ReplaceAllString(escaped, `<code>$1</code>`)
}
