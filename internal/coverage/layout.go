package coverage

// Layout holds the fixed structural positions of a genhtml page.
// Selectors are CSS paths; class fields are matched as class-attribute substrings.
type Layout struct {
	SummaryHeader  string   `mapstructure:"summary_header"`
	SummaryValues  string   `mapstructure:"summary_values"`
	TableKind      string   `mapstructure:"table_kind"`
	ListingRows    string   `mapstructure:"listing_rows"`
	HeaderRows     int      `mapstructure:"header_rows"`
	NumericColumn  int      `mapstructure:"numeric_column"`
	DirectoryClass string   `mapstructure:"directory_class"`
	FileClass      string   `mapstructure:"file_class"`
	TierClasses    []string `mapstructure:"tier_classes"`
}

const headerTable = "body > table:nth-of-type(1) > tbody > tr:nth-of-type(3) > td > table > tbody"

// DefaultLayout matches the page structure written by genhtml.
func DefaultLayout() Layout {
	return Layout{
		SummaryHeader:  headerTable + " > tr:nth-of-type(1) > td.headerCovTableHead",
		SummaryValues:  headerTable + " > tr:nth-of-type(2) > td[class^=headerCovTableEntry]",
		TableKind:      "body > center > table > tbody > tr:nth-of-type(2) > td:nth-of-type(1)",
		ListingRows:    "body > center > table > tbody > tr",
		HeaderRows:     2,
		NumericColumn:  3,
		DirectoryClass: "coverDirectory",
		FileClass:      "coverFile",
		TierClasses:    []string{"coverPerHi", "coverPerMed", "coverPerLo"},
	}
}

// withDefaults fills zero fields from DefaultLayout.
func (l Layout) withDefaults() Layout {
	d := DefaultLayout()
	if l.SummaryHeader == "" {
		l.SummaryHeader = d.SummaryHeader
	}
	if l.SummaryValues == "" {
		l.SummaryValues = d.SummaryValues
	}
	if l.TableKind == "" {
		l.TableKind = d.TableKind
	}
	if l.ListingRows == "" {
		l.ListingRows = d.ListingRows
	}
	if l.HeaderRows < 0 {
		l.HeaderRows = d.HeaderRows
	}
	if l.NumericColumn <= 0 {
		l.NumericColumn = d.NumericColumn
	}
	if l.DirectoryClass == "" {
		l.DirectoryClass = d.DirectoryClass
	}
	if l.FileClass == "" {
		l.FileClass = d.FileClass
	}
	if len(l.TierClasses) == 0 {
		l.TierClasses = d.TierClasses
	}
	return l
}
