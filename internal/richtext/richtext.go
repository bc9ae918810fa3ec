// Package richtext segments note content (HTML fragments produced by the editor)
// into heading sections and paragraph-level blocks.
//
// Everything here is a pure function of its input. Markup that cannot be parsed
// is treated as one opaque block with no headings.
package richtext

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Section is one heading and the markup that follows it up to the next heading.
type Section struct {
	Heading string
	Level   int
	Body    string
}

// SegmentByHeadings returns one Section per heading (h1-h6) in document order.
// A section body is every following sibling element up to, but excluding, the
// next heading of any level. Non-element siblings (bare text) are skipped.
func SegmentByHeadings(markup string) []Section {
	root, err := parseFragment(markup)
	if err != nil {
		return nil
	}
	var out []Section
	walk(root, func(n *html.Node) {
		if level := headingLevel(n); level > 0 {
			out = append(out, Section{
				Heading: strings.TrimSpace(textContent(n)),
				Level:   level,
				Body:    sectionBody(n),
			})
		}
	})
	return out
}

// FindSection returns the body of the first heading whose trimmed text equals label.
func FindSection(markup, label string) (string, bool) {
	for _, s := range SegmentByHeadings(markup) {
		if s.Heading == label {
			return s.Body, true
		}
	}
	return "", false
}

var blockAtoms = map[atom.Atom]bool{
	atom.P:  true,
	atom.Li: true,
	atom.H1: true,
	atom.H2: true,
	atom.H3: true,
	atom.H4: true,
	atom.H5: true,
	atom.H6: true,
}

var doubleBreak = regexp.MustCompile(`<br\s*/?>\s*<br\s*/?>|\n\n`)

// Blocks extracts paragraph-level segments: the markup of every p, li and
// heading element in document order (nested matches included). When the content
// has none of those, it is split on double line breaks instead.
func Blocks(markup string) []string {
	root, err := parseFragment(markup)
	if err != nil {
		if s := strings.TrimSpace(markup); s != "" {
			return []string{s}
		}
		return nil
	}
	var out []string
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || !blockAtoms[n.DataAtom] {
			return
		}
		if s := strings.TrimSpace(render(n)); s != "" {
			out = append(out, s)
		}
	})
	if len(out) > 0 {
		return out
	}
	for _, part := range doubleBreak.Split(markup, -1) {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// PlainText strips tags from a fragment and trims the result. Entities are left as-is.
func PlainText(fragment string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(fragment, ""))
}

// headerLikeMaxLen is exclusive.
const headerLikeMaxLen = 60

// IsHeaderLike reports whether a block reads like a lead-in to the next one:
// short plain text ending in ':', '?' or ')'.
func IsHeaderLike(block string) bool {
	text := PlainText(block)
	if utf8.RuneCountInString(text) >= headerLikeMaxLen {
		return false
	}
	return strings.HasSuffix(text, ":") || strings.HasSuffix(text, "?") || strings.HasSuffix(text, ")")
}

// MergeHeaderBlocks folds every header-like block (other than the last) into
// the block after it, joined by <br>. The consumed block is not revisited.
func MergeHeaderBlocks(blocks []string) []string {
	out := make([]string, 0, len(blocks))
	for i := 0; i < len(blocks); i++ {
		cur := blocks[i]
		if IsHeaderLike(cur) && i < len(blocks)-1 {
			out = append(out, cur+"<br>"+blocks[i+1])
			i++
			continue
		}
		out = append(out, cur)
	}
	return out
}

// Paragraphs is Blocks followed by MergeHeaderBlocks.
func Paragraphs(markup string) []string {
	return MergeHeaderBlocks(Blocks(markup))
}
