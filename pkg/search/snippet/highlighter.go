package snippet

import (
	"strings"
	"unicode"
)

const (
	windowSize   = 100
	windowStride = 20
)

// Highlighter extracts a bounded excerpt around the densest cluster of
// query terms and wraps matches in <mark> tags for display.
type Highlighter struct {
	MaxLength int
}

// New builds a Highlighter. maxLength is floored at the internal scan
// window size so the densest window always fits in the excerpt.
func New(maxLength int) *Highlighter {
	if maxLength <= 0 {
		maxLength = 200
	}
	if maxLength < windowSize {
		maxLength = windowSize
	}
	return &Highlighter{MaxLength: maxLength}
}

// Highlight returns the annotated snippet for one chunk's content.
func (h *Highlighter) Highlight(content, rawQuery string, keyTerms []string) string {
	content = strings.Join(strings.Fields(content), " ")
	if content == "" {
		return ""
	}

	center := h.densestWindow(content, keyTerms)
	excerpt, leadingCut, trailingCut := h.expand(content, center)

	marked := markMatches(excerpt, rawQuery, keyTerms)

	if leadingCut {
		marked = "..." + marked
	}
	if trailingCut {
		marked = marked + "..."
	}
	return marked
}

// densestWindow slides a fixed window over the content counting distinct
// key terms, returning the start of the best window. Defaults to the
// document start when nothing matches.
func (h *Highlighter) densestWindow(content string, keyTerms []string) int {
	if len(keyTerms) == 0 || len(content) <= windowSize {
		return 0
	}
	lower := foldASCII(content)

	bestStart, bestCount := 0, 0
	for start := 0; start < len(lower); start += windowStride {
		end := start + windowSize
		if end > len(lower) {
			end = len(lower)
		}
		window := lower[start:end]
		count := 0
		for _, term := range keyTerms {
			if strings.Contains(window, foldASCII(term)) {
				count++
			}
		}
		if count > bestCount {
			bestStart, bestCount = start, count
		}
		if end == len(lower) {
			break
		}
	}
	return bestStart
}

// expand grows the chosen window to MaxLength without splitting words.
func (h *Highlighter) expand(content string, center int) (string, bool, bool) {
	if len(content) <= h.MaxLength {
		return content, false, false
	}

	pad := (h.MaxLength - windowSize) / 2
	if pad < 0 {
		pad = 0
	}
	start := center - pad
	if start < 0 {
		start = 0
	}
	end := start + h.MaxLength
	if end >= len(content) {
		end = len(content)
		start = end - h.MaxLength
		if start < 0 {
			start = 0
		}
	}

	// Snap both edges to word boundaries.
	for start > 0 && !unicode.IsSpace(rune(content[start-1])) {
		start--
	}
	for end < len(content) && !unicode.IsSpace(rune(content[end])) {
		end++
	}

	return strings.TrimSpace(content[start:end]), start > 0, end < len(content)
}

// markMatches wraps the full query phrase first, then any key terms not
// already inside a mark. Matching is word-boundary safe and never nests.
func markMatches(excerpt, rawQuery string, keyTerms []string) string {
	covered := make([]bool, len(excerpt))
	type span struct{ start, end int }
	var spans []span

	// Fold instead of ToLower: spans index into the excerpt, so the folded
	// text must keep the excerpt's exact byte layout.
	lower := foldASCII(excerpt)

	addSpans := func(needle string) {
		needle = foldASCII(strings.TrimSpace(needle))
		if needle == "" {
			return
		}
		offset := 0
		for {
			idx := strings.Index(lower[offset:], needle)
			if idx < 0 {
				return
			}
			start := offset + idx
			end := start + len(needle)
			offset = end
			if !onWordBoundary(lower, start, end) {
				continue
			}
			if anyCovered(covered, start, end) {
				continue
			}
			for i := start; i < end; i++ {
				covered[i] = true
			}
			spans = append(spans, span{start, end})
		}
	}

	addSpans(rawQuery)
	for _, term := range keyTerms {
		addSpans(term)
	}

	if len(spans) == 0 {
		return excerpt
	}
	// Rebuild left to right.
	ordered := make([]span, len(spans))
	copy(ordered, spans)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].start < ordered[j-1].start; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	var b strings.Builder
	prev := 0
	for _, s := range ordered {
		b.WriteString(excerpt[prev:s.start])
		b.WriteString("<mark>")
		b.WriteString(excerpt[s.start:s.end])
		b.WriteString("</mark>")
		prev = s.end
	}
	b.WriteString(excerpt[prev:])
	return b.String()
}

func onWordBoundary(s string, start, end int) bool {
	if start > 0 && isWordChar(rune(s[start-1])) {
		return false
	}
	if end < len(s) && isWordChar(rune(s[end])) {
		return false
	}
	return true
}

func anyCovered(covered []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if covered[i] {
			return true
		}
	}
	return false
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// foldASCII lowercases ASCII letters only. Unlike strings.ToLower it never
// changes byte lengths (Unicode lowercasing can, e.g. İ), so offsets found
// in the folded string are valid in the original.
func foldASCII(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			if b == nil {
				b = []byte(s)
			}
			b[i] = c + ('a' - 'A')
		}
	}
	if b == nil {
		return s
	}
	return string(b)
}
