package richtext

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSegmentByHeadings(t *testing.T) {
	markup := "<p>intro</p><h1>One</h1><p>a</p><ul><li>b</li></ul><h2> Two </h2><p>c</p><h3>Three</h3>"
	got := SegmentByHeadings(markup)
	want := []Section{
		{Heading: "One", Level: 1, Body: "<p>a</p><ul><li>b</li></ul>"},
		{Heading: "Two", Level: 2, Body: "<p>c</p>"},
		{Heading: "Three", Level: 3, Body: ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestSegmentByHeadingsSkipsBareText(t *testing.T) {
	got := SegmentByHeadings("<h1>A</h1>loose text<p>kept</p>")
	if len(got) != 1 || got[0].Body != "<p>kept</p>" {
		t.Fatalf("got %+v", got)
	}
}

func TestSegmentByHeadingsNoHeadings(t *testing.T) {
	if got := SegmentByHeadings("<p>just text</p>"); len(got) != 0 {
		t.Fatalf("expected no sections, got %+v", got)
	}
	if got := SegmentByHeadings(""); len(got) != 0 {
		t.Fatalf("expected no sections for empty input, got %+v", got)
	}
}

func TestFindSectionFirstMatchWins(t *testing.T) {
	markup := "<h2>Dup</h2><p>first</p><h2>Dup</h2><p>second</p>"
	body, ok := FindSection(markup, "Dup")
	if !ok || body != "<p>first</p>" {
		t.Fatalf("FindSection = %q, %v", body, ok)
	}
	if _, ok := FindSection(markup, "Missing"); ok {
		t.Fatalf("expected no match for missing label")
	}
}

func TestBlocksDocumentOrder(t *testing.T) {
	markup := "<h1>Title</h1><p>para</p><ul><li>one</li><li>two</li></ul><div>ignored</div>"
	got := Blocks(markup)
	want := []string{"<h1>Title</h1>", "<p>para</p>", "<li>one</li>", "<li>two</li>"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestBlocksFallsBackToDoubleBreaks(t *testing.T) {
	got := Blocks("first<br><br>second\n\nthird<br/> <br />  ")
	want := []string{"first", "second", "third"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fallback mismatch (-want +got):\n%s", diff)
	}
	if got := Blocks("   "); len(got) != 0 {
		t.Fatalf("expected no blocks for blank input, got %q", got)
	}
}

func TestBlocksKeepQuotesUnescaped(t *testing.T) {
	got := Blocks(`<p class="a&b">Isn't it "done" &amp; 1 &lt; 2?</p><p>x<br>y&nbsp;z</p>`)
	want := []string{
		`<p class="a&amp;b">Isn't it "done" &amp; 1 &lt; 2?</p>`,
		"<p>x<br>y&nbsp;z</p>",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestIsHeaderLikeCountsApostrophesOnce(t *testing.T) {
	blocks := Blocks("<p>Isn't it true we don't know what's next for the team?</p><p>Answer text</p>")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %q", blocks)
	}
	if !IsHeaderLike(blocks[0]) {
		t.Fatalf("expected %q to be header-like", blocks[0])
	}
}

func TestPlainText(t *testing.T) {
	if got := PlainText("  <p><b>Hi</b> there</p> "); got != "Hi there" {
		t.Fatalf("PlainText = %q", got)
	}
}

func TestIsHeaderLike(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"<p>Question:</p>", true},
		{"<p>Why?</p>", true},
		{"<p>(see below)</p>", true},
		{"<p>Answer text</p>", false},
		{"<p>" + strings.Repeat("x", 58) + ":</p>", true},
		{"<p>" + strings.Repeat("x", 59) + ":</p>", false},
		{"<p>Вопрос:</p>", true},
	}
	for _, tc := range cases {
		if got := IsHeaderLike(tc.in); got != tc.want {
			t.Errorf("IsHeaderLike(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMergeHeaderBlocks(t *testing.T) {
	got := MergeHeaderBlocks([]string{"<p>Question:</p>", "<p>Answer text</p>", "<p>Next para</p>"})
	want := []string{"<p>Question:</p><br><p>Answer text</p>", "<p>Next para</p>"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeHeaderBlocksConsumedBlockNotRevisited(t *testing.T) {
	got := MergeHeaderBlocks([]string{"<p>A:</p>", "<p>B:</p>", "<p>C</p>"})
	want := []string{"<p>A:</p><br><p>B:</p>", "<p>C</p>"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeHeaderBlocksTrailingHeaderKept(t *testing.T) {
	got := MergeHeaderBlocks([]string{"<p>Body</p>", "<p>Tail:</p>"})
	if len(got) != 2 {
		t.Fatalf("expected trailing header-like block to stay, got %q", got)
	}
}

func TestParagraphsListOnly(t *testing.T) {
	got := Paragraphs("<ul><li>a</li><li>b</li></ul>")
	if len(got) != 2 {
		t.Fatalf("expected one block per list item, got %q", got)
	}
}
