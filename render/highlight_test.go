package render

import (
	"strings"
	"testing"
)

func TestEscapeHTMLBasics(t *testing.T) {
	got := EscapeHTML(`a < b & c > "d"`)
	want := `a &lt; b &amp; c &gt; &quot;d&quot;`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEscapeHTMLIsIdempotent(t *testing.T) {
	inputs := []string{
		`x < 3 & y > 1`,
		`say &quot;hi&quot; to a &amp; b`,
		`mixed "raw" and &lt;escaped&gt;`,
		``,
	}
	for _, in := range inputs {
		once := EscapeHTML(in)
		twice := EscapeHTML(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestEscapeHTMLPreservesExistingEntities(t *testing.T) {
	got := EscapeHTML(`a &amp; b < c`)
	want := `a &amp; b &lt; c`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIsPlacementLabel(t *testing.T) {
	labels := []string{
		"Slide 3 CL",
		"Slide 2 - Note CL",
		"Slide 12 CL:",
		"In the graph's Computation Layer",
		"Add this to its Computation Layer",
		"Add the following to the note's Computation Layer:",
	}
	for _, l := range labels {
		if !IsPlacementLabel(l) {
			t.Errorf("expected label: %q", l)
		}
	}

	code := []string{
		"total = slide3.score",
		`content: "Slide 3 CL"`,
		"when a > 1 2 otherwise 3",
		"",
		"# Slide notes",
	}
	for _, l := range code {
		if IsPlacementLabel(l) {
			t.Errorf("false positive label: %q", l)
		}
	}
}

func TestHighlightWrapsTokens(t *testing.T) {
	got := Highlight(`total = when correct 10 otherwise 0`)

	for _, want := range []string{
		`<span class="tok-keyword">when</span>`,
		`<span class="tok-keyword">otherwise</span>`,
		`<span class="tok-builtin">correct</span>`,
		`<span class="tok-number">10</span>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}

func TestHighlightStringsWinOverKeywords(t *testing.T) {
	got := Highlight(`content: "when you are ready"`)

	if !strings.Contains(got, `<span class="tok-string">&quot;when you are ready&quot;</span>`) {
		t.Errorf("string not wrapped whole: %q", got)
	}
	if strings.Contains(got, `<span class="tok-string">&quot;<span`) {
		t.Errorf("keyword pass leaked inside a string: %q", got)
	}
}

func TestHighlightComments(t *testing.T) {
	got := Highlight(`x = 1 # set up the counter`)

	if !strings.Contains(got, `<span class="tok-comment"># set up the counter</span>`) {
		t.Errorf("comment not wrapped: %q", got)
	}
	if !strings.Contains(got, `<span class="tok-number">1</span>`) {
		t.Errorf("code before the comment lost highlighting: %q", got)
	}
}

func TestHighlightPlacementLabelLine(t *testing.T) {
	got := Highlight("Slide 2 CL\nscore = 4")

	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("line breaks not preserved: %q", got)
	}
	if !strings.HasPrefix(lines[0], `<span class="cl-label">`) {
		t.Errorf("first line should be a label: %q", lines[0])
	}
	if strings.Contains(lines[1], "cl-label") {
		t.Errorf("code line marked as label: %q", lines[1])
	}
}

func TestHighlightEscapesMarkup(t *testing.T) {
	got := Highlight(`note: "<script>alert(1)</script>"`)

	if strings.Contains(got, "<script>") {
		t.Errorf("raw markup leaked through: %q", got)
	}
}

func TestRichTextInlineCode(t *testing.T) {
	got := RichText("Use `numericValue` for that. It's < 10.")

	if !strings.Contains(got, "<code>numericValue</code>") {
		t.Errorf("backtick span not converted: %q", got)
	}
	if !strings.Contains(got, "&lt; 10") {
		t.Errorf("surrounding text not escaped: %q", got)
	}
}
