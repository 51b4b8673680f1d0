package coverage

import (
	"math"
	"strings"

	"github.com/zjy-dev/covtree/internal/document"
	"github.com/zjy-dev/covtree/internal/logger"
)

// Entry is one row of a listing table.
type Entry struct {
	Path       string
	Kind       Kind
	Statistics Statistics
}

// Extractor reads the summary and listing tables of a single document.
type Extractor struct {
	layout Layout
	strict bool
}

// NewExtractor creates an extractor for the given layout.
// In strict mode a malformed number is returned as a *NumberError;
// otherwise it is recorded as NaN and logged.
func NewExtractor(layout Layout, strict bool) *Extractor {
	return &Extractor{
		layout: layout.withDefaults(),
		strict: strict,
	}
}

// Statistics returns the document's summary statistics, or nil when the
// document has no parseable summary.
func (e *Extractor) Statistics(doc *document.Document) (Statistics, error) {
	_, stats, err := e.summary(doc)
	return stats, err
}

// summary returns the header categories in column order alongside the parsed values.
// The header order is the schema for the numbered columns of listing rows.
func (e *Extractor) summary(doc *document.Document) ([]Category, Statistics, error) {
	headers := doc.Select(e.layout.SummaryHeader)
	values := doc.Select(e.layout.SummaryValues)
	if len(headers) == 0 || len(values) == 0 {
		return nil, nil, nil
	}

	n := len(headers)
	if len(values) < n {
		n = len(values)
	}

	categories := make([]Category, 0, n)
	stats := make(Statistics, n)
	for i := 0; i < n; i++ {
		category := Category(headers[i].Text())
		v, err := e.value(doc, category, values[i].Text())
		if err != nil {
			return nil, nil, err
		}
		categories = append(categories, category)
		stats[category] = v
	}
	return categories, stats, nil
}

// TableKind reports whether the document lists directories or files.
// The second result is false when the document has no listing table.
func (e *Extractor) TableKind(doc *document.Document) (Kind, bool) {
	cells := doc.Select(e.layout.TableKind)
	if len(cells) == 0 {
		return "", false
	}
	text := cells[0].Text()
	switch {
	case strings.HasPrefix(text, string(KindDirectory)):
		return KindDirectory, true
	case strings.HasPrefix(text, string(KindFile)):
		return KindFile, true
	default:
		return "", false
	}
}

// Entries returns one entry per listing row, in row order.
// Rows without a name cell of the table's kind are skipped.
func (e *Extractor) Entries(doc *document.Document) ([]Entry, error) {
	kind, ok := e.TableKind(doc)
	if !ok {
		return nil, nil
	}

	header, _, err := e.summary(doc)
	if err != nil {
		return nil, err
	}
	numbered := make([]Category, 0, len(header))
	for _, c := range header {
		if c != CategoryCoverage {
			numbered = append(numbered, c)
		}
	}

	nameClass := e.layout.FileClass
	if kind == KindDirectory {
		nameClass = e.layout.DirectoryClass
	}

	rows := doc.Select(e.layout.ListingRows)
	if len(rows) <= e.layout.HeaderRows {
		return nil, nil
	}

	var entries []Entry
	for _, row := range rows[e.layout.HeaderRows:] {
		names := row.ByClass(nameClass)
		if len(names) == 0 {
			continue
		}

		stats := make(Statistics, len(numbered)+1)

		percent, err := e.value(doc, CategoryCoverage, e.tierText(row))
		if err != nil {
			return nil, err
		}
		stats[CategoryCoverage] = percent

		cells := row.Cells()
		for i, category := range numbered {
			text := ""
			if col := e.layout.NumericColumn + i; col < len(cells) {
				text = cells[col].Text()
			}
			v, err := e.value(doc, category, text)
			if err != nil {
				return nil, err
			}
			stats[category] = v
		}

		entries = append(entries, Entry{
			Path:       names[0].Text(),
			Kind:       kind,
			Statistics: stats,
		})
	}
	return entries, nil
}

// tierText returns the text of the first coverage-tier cell present in the row.
func (e *Extractor) tierText(row document.Element) string {
	for _, class := range e.layout.TierClasses {
		if cells := row.ByClass(class); len(cells) > 0 {
			return cells[0].Text()
		}
	}
	return ""
}

// value parses one cell. Empty cells and genhtml's "-" placeholder count as zero.
func (e *Extractor) value(doc *document.Document, category Category, text string) (float64, error) {
	if text == "" || text == "-" {
		return 0, nil
	}
	v, err := ParseValue(text)
	if err == nil {
		return v, nil
	}

	numErr := &NumberError{Location: doc.Location(), Category: category, Text: text, Err: err}
	if e.strict {
		return 0, numErr
	}
	logger.Warn("%v", numErr)
	return math.NaN(), nil
}
