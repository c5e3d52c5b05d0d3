package snippet

import (
	"strings"
	"testing"
)

func TestHighlightShortContent(t *testing.T) {
	h := New(200)

	got := h.Highlight("The healthcare sector keeps growing.", "healthcare", []string{"healthcare"})
	want := "The <mark>healthcare</mark> sector keeps growing."

	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
	if strings.Contains(got, "...") {
		t.Errorf("short content must not be truncated: %q", got)
	}
}

func TestHighlightWordBoundaries(t *testing.T) {
	h := New(200)

	// "care" must not be marked inside "healthcare".
	got := h.Highlight("Patient care within healthcare systems.", "care", []string{"care"})
	want := "Patient <mark>care</mark> within healthcare systems."

	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlightPhraseBeforeTerms(t *testing.T) {
	h := New(200)

	got := h.Highlight("A cloud kitchen rents shared space.", "cloud kitchen", []string{"cloud", "kitchen"})

	if !strings.Contains(got, "<mark>cloud kitchen</mark>") {
		t.Errorf("expected full phrase marked once, got %q", got)
	}
	if strings.Contains(got, "<mark>cloud</mark>") || strings.Contains(got, "<mark>kitchen</mark>") {
		t.Errorf("phrase words must not be re-marked individually: %q", got)
	}
}

func TestHighlightNeverNestsMarks(t *testing.T) {
	h := New(200)

	got := h.Highlight("energy energy renewable energy", "renewable energy", []string{"renewable energy", "energy"})

	if strings.Contains(got, "<mark><mark>") || strings.Contains(got, "</mark></mark>") {
		t.Errorf("nested marks in %q", got)
	}
}

func TestHighlightCentersOnDensestRegion(t *testing.T) {
	h := New(120)

	padding := strings.Repeat("lorem ipsum dolor sit amet ", 30)
	content := padding + "the textile industry output doubled" + " " + padding

	got := h.Highlight(content, "textile industry", []string{"textile industry"})

	if !strings.Contains(got, "<mark>textile industry</mark>") {
		t.Errorf("snippet missed the match region: %q", got)
	}
	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "...") {
		t.Errorf("interior excerpt needs ellipses on both ends: %q", got)
	}
}

func TestHighlightLengthBound(t *testing.T) {
	h := New(150)

	content := strings.Repeat("alpha beta gamma delta epsilon ", 40)
	got := h.Highlight(content, "gamma", []string{"gamma"})

	plain := strings.NewReplacer("<mark>", "", "</mark>", "", "...", "").Replace(got)
	// Word-boundary snapping may exceed MaxLength by at most one word.
	if len(plain) > 150+20 {
		t.Errorf("snippet too long (%d chars): %q", len(plain), got)
	}
}

func TestHighlightMultibyteContent(t *testing.T) {
	h := New(200)

	// Runes whose lowercase form is wider than the original (İ is 2 bytes,
	// its lowercase 3) must not shift the mark positions.
	got := h.Highlight("İİİİ report quarterly", "quarterly", []string{"quarterly"})
	want := "İİİİ report <mark>quarterly</mark>"

	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}

	got = h.Highlight("Besançon café müller quarterly summary", "quarterly summary", []string{"quarterly"})
	if !strings.Contains(got, "<mark>quarterly summary</mark>") {
		t.Errorf("multibyte prefix shifted the mark: %q", got)
	}
}

func TestHighlightUppercaseContent(t *testing.T) {
	h := New(200)

	got := h.Highlight("QUARTERLY figures attached", "quarterly", []string{"quarterly"})
	want := "<mark>QUARTERLY</mark> figures attached"

	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlightTinyMaxLengthStillCoversWindow(t *testing.T) {
	// Below the scan window size the excerpt could drift past the densest
	// region entirely; New floors MaxLength to prevent that.
	h := New(40)

	padding := strings.Repeat("lorem ipsum dolor sit amet ", 30)
	content := padding + "the textile industry output doubled " + padding

	got := h.Highlight(content, "textile industry", []string{"textile industry"})

	if !strings.Contains(got, "<mark>textile industry</mark>") {
		t.Errorf("snippet missed the match region: %q", got)
	}
}

func TestHighlightEmptyAndDegenerateInput(t *testing.T) {
	h := New(200)

	if got := h.Highlight("", "query", []string{"query"}); got != "" {
		t.Errorf("empty content should give empty snippet, got %q", got)
	}
	if got := h.Highlight("plain text with no matches", "zebra", []string{"zebra"}); got != "plain text with no matches" {
		t.Errorf("no-match content should pass through, got %q", got)
	}
	// Whitespace runs collapse.
	if got := h.Highlight("spaced    out\ttext", "", nil); got != "spaced out text" {
		t.Errorf("whitespace not normalized: %q", got)
	}
}
