// Package ingest turns imported files into node content.
//
// Text files become <p> paragraphs (blank lines split paragraphs, single
// newlines become <br>). Markdown files are rendered to HTML and sanitized.
// Anything else is kept as a data: URL attachment.
package ingest

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"spatial-notepad/internal/model"
)

// Attribute keys written into NodeData.Attrs.
const (
	AttrDoc     = "doc"
	AttrDocName = "docName"
	AttrDocType = "docType"
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// Text formats plain text as HTML paragraphs. The text is not escaped.
func Text(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	var b strings.Builder
	for _, para := range paragraphBreak.Split(strings.TrimSpace(raw), -1) {
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(para, "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		// Raw HTML stays disabled: no html.WithUnsafe().
		html.WithHardWraps(),
	),
)

var sanitizer = bluemonday.UGCPolicy()

// Markdown renders src to sanitized HTML.
func Markdown(src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return "", fmt.Errorf("ingest: render markdown: %w", err)
	}
	return strings.TrimSpace(sanitizer.Sanitize(b.String())), nil
}

// IsText reports whether a file is imported as content rather than attached.
func IsText(name, mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown", ".json", ".txt":
		return true
	}
	return false
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Document is an imported file.
type Document struct {
	Name string
	Type string
	// Content is set for text documents.
	Content string
	// Data is a data: URL, set for everything else.
	Data string
}

// Patch is the node update that attaches d.
func (d Document) Patch() model.DataPatch {
	p := model.DataPatch{Attrs: map[string]any{AttrDocName: d.Name, AttrDocType: d.Type}}
	if d.Data != "" {
		p.Attrs[AttrDoc] = d.Data
		return p
	}
	p.Content = model.StringPtr(d.Content)
	return p
}

// File reads and converts the file at path.
func File(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return Bytes(filepath.Base(path), b)
}

// Bytes converts raw file contents named name.
func Bytes(name string, b []byte) (Document, error) {
	typ := mime.TypeByExtension(filepath.Ext(name))
	if typ == "" {
		typ = http.DetectContentType(b)
	}
	doc := Document{Name: name, Type: typ}
	switch {
	case isMarkdown(name):
		out, err := Markdown(string(b))
		if err != nil {
			return Document{}, err
		}
		doc.Content = out
	case IsText(name, typ):
		doc.Content = Text(string(b))
	default:
		doc.Data = "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(b)
	}
	return doc, nil
}
