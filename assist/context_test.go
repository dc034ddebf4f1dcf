package assist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func testAssembler(t *testing.T) (*Assembler, string) {
	t.Helper()
	dir := t.TempDir()
	docsDir := filepath.Join(dir, "Docs")
	if err := os.MkdirAll(docsDir, 0755); err != nil {
		t.Fatal(err)
	}
	a := newAssemblerForTest(
		"You are the assistant.",
		filepath.Join(dir, "cl-docs.md"),
		filepath.Join(dir, "dezzy-docs.md"),
		docsDir,
	)
	return a, dir
}

func TestCLDocsClampedToBudget(t *testing.T) {
	a, dir := testAssembler(t)
	writeFile(t, filepath.Join(dir, "cl-docs.md"), strings.Repeat("x", clDocsMaxChars+5000))

	got := a.CLDocs()
	if len(got) != clDocsMaxChars {
		t.Errorf("cl docs length = %d, want %d", len(got), clDocsMaxChars)
	}
}

func TestMissingSourcesAreEmpty(t *testing.T) {
	a, _ := testAssembler(t)

	if a.CLDocs() != "" || a.DezzyExtra() != "" {
		t.Error("missing files should yield empty context")
	}
	if a.DocsFolderContext() != "" {
		t.Error("empty Docs folder should yield empty context")
	}
}

func TestDocsFolderHeadersAndOrder(t *testing.T) {
	a, dir := testAssembler(t)
	docs := filepath.Join(dir, "Docs")
	writeFile(t, filepath.Join(docs, "b-style.md"), "style guide")
	writeFile(t, filepath.Join(docs, "a-philosophy.txt"), "philosophy notes")
	writeFile(t, filepath.Join(docs, "image.png"), "binarybinary")

	got := a.DocsFolderContext()

	aIdx := strings.Index(got, "--- a-philosophy.txt ---\nphilosophy notes")
	bIdx := strings.Index(got, "--- b-style.md ---\nstyle guide")
	if aIdx < 0 || bIdx < 0 {
		t.Fatalf("missing file headers in %q", got)
	}
	if aIdx > bIdx {
		t.Error("files not in name order")
	}
	if strings.Contains(got, "image.png") {
		t.Error("non-text file included in context")
	}
}

func TestInvalidateRefreshesCache(t *testing.T) {
	a, dir := testAssembler(t)
	path := filepath.Join(dir, "cl-docs.md")
	writeFile(t, path, "first version")

	if got := a.CLDocs(); got != "first version" {
		t.Fatalf("got %q", got)
	}

	writeFile(t, path, "second version")
	if got := a.CLDocs(); got != "first version" {
		t.Fatalf("cache should serve stale content until invalidated, got %q", got)
	}

	a.Invalidate()
	if got := a.CLDocs(); got != "second version" {
		t.Errorf("after invalidate got %q", got)
	}
}

func TestSystemTextSections(t *testing.T) {
	a, dir := testAssembler(t)
	writeFile(t, filepath.Join(dir, "cl-docs.md"), "CL REFERENCE")
	writeFile(t, filepath.Join(dir, "dezzy-docs.md"), "EXTRA NOTES")

	got := a.SystemText(map[string]string{"slide-1": "x = 1"})

	if !strings.HasPrefix(got, "You are the assistant.") {
		t.Errorf("system text must start with the instructions: %q", got)
	}
	for _, want := range []string{"CL REFERENCE", "EXTRA NOTES", "slide-1", "x = 1"} {
		if !strings.Contains(got, want) {
			t.Errorf("system text missing %q", want)
		}
	}
}

func TestSystemTextOmitsEmptySections(t *testing.T) {
	a, _ := testAssembler(t)

	got := a.SystemText(nil)
	if got != "You are the assistant." {
		t.Errorf("empty sources should add nothing: %q", got)
	}
}

func TestSlideCodeContextClamped(t *testing.T) {
	a, _ := testAssembler(t)

	big := map[string]string{"slide-1": strings.Repeat("y", slideCodeMaxChars*2)}
	got := a.SystemText(big)

	marker := "Code the user has saved per slide (slideId -> code):\n"
	idx := strings.Index(got, marker)
	if idx < 0 {
		t.Fatal("slide code section missing")
	}
	blob := got[idx+len(marker):]
	if len(blob) > slideCodeMaxChars {
		t.Errorf("slide code blob is %d chars, budget %d", len(blob), slideCodeMaxChars)
	}
}

func TestBuildUserText(t *testing.T) {
	if got := BuildUserText(ChatRequest{Message: "hi"}); got != "hi" {
		t.Errorf("plain message: %q", got)
	}
	if got := BuildUserText(ChatRequest{}); got != defaultGreeting {
		t.Errorf("empty turn should greet: %q", got)
	}

	req := ChatRequest{
		Message:           "ignored",
		SuggestionRequest: true,
		CodeJustStored:    strings.Repeat("z", storedCodeMaxChars+100),
	}
	got := BuildUserText(req)
	if !strings.HasPrefix(got, suggestionHead) || !strings.HasSuffix(got, suggestionTail) {
		t.Error("suggestion template not applied")
	}
	if strings.Contains(got, "ignored") {
		t.Error("suggestion request should replace the message")
	}
	if len(got) > len(suggestionHead)+storedCodeMaxChars+len(suggestionTail) {
		t.Error("stored code not clamped")
	}

	// A suggestion request without code falls through to the message
	if got := BuildUserText(ChatRequest{Message: "hi", SuggestionRequest: true}); got != "hi" {
		t.Errorf("suggestion without code: %q", got)
	}
}
