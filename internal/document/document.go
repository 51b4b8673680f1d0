// Package document turns HTML report pages into a small queryable element tree.
//
// Only the capabilities the coverage extractors need are exposed: selection by a
// structural CSS path, selection by class-attribute substring, and trimmed text.
package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed report page.
type Document struct {
	location string
	doc      *goquery.Document
}

// Element is a single node of a parsed document.
type Element struct {
	sel *goquery.Selection
}

// Parse reads an HTML document from r. The location is kept for diagnostics only.
func Parse(location string, r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", location, err)
	}
	return &Document{location: location, doc: doc}, nil
}

// ParseBytes is Parse over an in-memory buffer.
func ParseBytes(location string, data []byte) (*Document, error) {
	return Parse(location, bytes.NewReader(data))
}

// Location returns where the document was loaded from.
func (d *Document) Location() string {
	return d.location
}

// Select returns every element matching the structural path, in document order.
func (d *Document) Select(path string) []Element {
	return elements(d.doc.Find(path))
}

// ByClass returns every element whose class attribute contains substr.
func (d *Document) ByClass(substr string) []Element {
	return elements(d.doc.Find(classSelector(substr)))
}

// Text returns the trimmed text content of the element and its descendants.
func (e Element) Text() string {
	if e.sel == nil {
		return ""
	}
	return strings.TrimSpace(normalizeSpace(e.sel.Text()))
}

// ByClass returns the descendants of e whose class attribute contains substr.
func (e Element) ByClass(substr string) []Element {
	if e.sel == nil {
		return nil
	}
	return elements(e.sel.Find(classSelector(substr)))
}

// Cells returns the direct td/th children of a table row, in column order.
func (e Element) Cells() []Element {
	if e.sel == nil {
		return nil
	}
	return elements(e.sel.ChildrenFiltered("td, th"))
}

func elements(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, Element{sel: s})
	})
	return out
}

func classSelector(substr string) string {
	return fmt.Sprintf("[class*=%q]", substr)
}

// normalizeSpace maps non-breaking spaces to plain spaces; genhtml writes "85.7&nbsp;%".
func normalizeSpace(s string) string {
	return strings.ReplaceAll(s, "\u00a0", " ")
}

// FileLoader loads documents from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a FileLoader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load opens and parses the document at location.
func (l *FileLoader) Load(location string) (*Document, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	return Parse(location, f)
}
