// Package coveragetest renders genhtml-shaped report pages for tests.
package coveragetest

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
)

// Row is one listing-table entry.
type Row struct {
	Name     string
	Coverage string   // text of the coverage-percentage cell, e.g. "85.7 %"
	Tier     string   // coverPerHi, coverPerMed or coverPerLo; defaults to coverPerHi
	Numbers  []string // numbered columns in header order, Coverage excluded
	NoName   bool     // render the row without a name cell
}

// Page describes one report document.
type Page struct {
	// Kind is the listing table's header text: "Directory", "Filename" or "" for no listing.
	Kind string
	// Header and Summary are the summary table's category names and values.
	// A nil Header renders a page without a summary table.
	Header  []string
	Summary []string
	Rows    []Row
}

// Default header of a non-differential report.
var Header = []string{"Coverage", "Total", "Hit"}

// HTML renders the page.
func (p Page) HTML() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE HTML PUBLIC \"-//W3C//DTD HTML 4.01 Transitional//EN\">\n<html lang=\"en\">\n<head><title>LCOV - coverage.info</title></head>\n<body>\n")

	if p.Header != nil {
		b.WriteString(`<table width="100%" border="0" cellspacing="0" cellpadding="0">
  <tr><td class="title">LCOV - code coverage report</td></tr>
  <tr><td class="ruler"><img src="glass.png" width="3" height="3" alt=""></td></tr>
  <tr>
    <td width="100%">
      <table cellpadding="1" border="0" width="100%">
        <tr>
          <td width="10%" class="headerItem">Current view:</td>
          <td width="10%" class="headerValue">top level</td>
          <td width="5%"></td>
`)
		for _, h := range p.Header {
			fmt.Fprintf(&b, "          <td width=\"5%%\" class=\"headerCovTableHead\">%s</td>\n", html.EscapeString(h))
		}
		b.WriteString(`        </tr>
        <tr>
          <td class="headerItem">Test:</td>
          <td class="headerValue">coverage.info</td>
          <td class="headerItem">Lines:</td>
`)
		for i, v := range p.Summary {
			class := "headerCovTableEntry"
			if i == 0 {
				class = "headerCovTableEntryHi"
			}
			fmt.Fprintf(&b, "          <td class=\"%s\">%s</td>\n", class, cellText(v))
		}
		b.WriteString(`        </tr>
        <tr>
          <td class="headerItem">Date:</td>
          <td class="headerValue">2026-10-19 12:00:00</td>
          <td class="headerItem">Functions:</td>
          <td class="headerCovTableEntryLo">0.0&nbsp;%</td>
          <td class="headerCovTableEntry">0</td>
        </tr>
      </table>
    </td>
  </tr>
  <tr><td class="ruler"><img src="glass.png" width="3" height="3" alt=""></td></tr>
</table>
`)
	}

	if p.Kind != "" {
		b.WriteString(`<center>
<table width="80%" cellpadding="1" cellspacing="1" border="0">
  <tr><td width="40%"><br></td><td width="15%"></td><td width="10%"></td></tr>
`)
		fmt.Fprintf(&b, "  <tr><td class=\"tableHead\">%s <span class=\"tableHeadSort\"><img src=\"glass.png\" alt=\"Sort\"></span></td><td class=\"tableHead\" colspan=\"3\">Line Coverage</td></tr>\n", html.EscapeString(p.Kind))
		b.WriteString("  <tr><td class=\"tableHead\">Rate</td><td class=\"tableHead\">Total</td><td class=\"tableHead\">Hit</td></tr>\n")

		nameClass := "coverFile"
		if strings.HasPrefix(p.Kind, "Directory") {
			nameClass = "coverDirectory"
		}
		for _, r := range p.Rows {
			b.WriteString("  <tr>\n")
			if !r.NoName {
				fmt.Fprintf(&b, "    <td class=\"%s\"><a href=\"%s/index.html\">%s</a></td>\n", nameClass, html.EscapeString(r.Name), html.EscapeString(r.Name))
			} else {
				b.WriteString("    <td class=\"footnote\">Generated by LCOV</td>\n")
			}
			b.WriteString("    <td class=\"coverBar\" align=\"center\"><table border=\"0\" cellspacing=\"0\" cellpadding=\"1\"><tr><td class=\"coverBarOutline\"><img src=\"emerald.png\" width=\"80\" height=\"10\" alt=\"80.0%\"></td></tr></table></td>\n")
			tier := r.Tier
			if tier == "" {
				tier = "coverPerHi"
			}
			fmt.Fprintf(&b, "    <td class=\"%s\">%s</td>\n", tier, cellText(r.Coverage))
			for _, n := range r.Numbers {
				fmt.Fprintf(&b, "    <td class=\"coverNumDflt\">%s</td>\n", cellText(n))
			}
			b.WriteString("  </tr>\n")
		}
		b.WriteString("</table>\n</center>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// cellText escapes v and writes the space before a percent sign as &nbsp;, as genhtml does.
func cellText(v string) string {
	return strings.ReplaceAll(html.EscapeString(v), " %", "&nbsp;%")
}

// Site is a set of pages keyed by location.
type Site map[string]Page

// Write renders every page under root. Locations are slash-separated and relative to root.
func (s Site) Write(root string) error {
	for loc, page := range s {
		path := filepath.Join(root, filepath.FromSlash(loc))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(page.HTML()), 0644); err != nil {
			return err
		}
	}
	return nil
}
