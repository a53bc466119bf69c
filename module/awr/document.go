/*
Copyright © 2020 Marvin

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package awr

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mfec/orapm/common"
	"golang.org/x/net/html"
)

// Document wraps a parsed AWR HTML report. Nodes are kept flattened in
// document order so "title text then next table" lookups match the way a
// reader scans the page.
type Document struct {
	nodes []*html.Node
	text  string
}

// Table is one extracted HTML table: normalized header names plus raw cell
// rows. Duplicate header names get a ".N" suffix so none are dropped.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Record is one table row keyed by normalized column name.
type Record map[string]string

// Parse reads an AWR HTML document. The tokenizer is forgiving, so
// malformed markup yields a partial document rather than an error.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	d := &Document{}
	var walk func(n *html.Node)
	var text strings.Builder
	walk = func(n *html.Node) {
		d.nodes = append(d.nodes, n)
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
			text.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	d.text = text.String()
	return d, nil
}

// Text returns the document's concatenated text content.
func (d *Document) Text() string {
	return d.text
}

// FindTable locates a table by its summary attribute first, then by finding
// the title text anywhere in the document and taking the next table after it.
func (d *Document) FindTable(summaryPattern *regexp.Regexp, titles ...string) *Table {
	if t := d.TableBySummary(summaryPattern); t != nil {
		return t
	}
	return d.TableAfterTitle(titles...)
}

// TableBySummary returns the first non-empty table whose summary attribute
// matches the pattern.
func (d *Document) TableBySummary(pattern *regexp.Regexp) *Table {
	for _, n := range d.nodes {
		if !isElement(n, "table") {
			continue
		}
		if pattern.MatchString(strings.ToLower(attr(n, "summary"))) {
			if t := parseTable(n); t != nil {
				return t
			}
		}
	}
	return nil
}

// TableAfterTitle finds the first text node containing any title and
// returns the next table element after it in document order.
func (d *Document) TableAfterTitle(titles ...string) *Table {
	anchor := -1
	for i, n := range d.nodes {
		if n.Type == html.TextNode && common.ContainsAnyFold(n.Data, titles...) {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		return nil
	}
	for _, n := range d.nodes[anchor+1:] {
		if isElement(n, "table") {
			if t := parseTable(n); t != nil {
				return t
			}
		}
	}
	return nil
}

// AllTables parses every table in the document.
func (d *Document) AllTables() []*Table {
	var tables []*Table
	for _, n := range d.nodes {
		if isElement(n, "table") {
			if t := parseTable(n); t != nil {
				tables = append(tables, t)
			}
		}
	}
	return tables
}

// Records maps the data rows by column name.
func (t *Table) Records() []Record {
	recs := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := Record{}
		for i, col := range t.Columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		recs = append(recs, rec)
	}
	return recs
}

// ColumnIndex returns the index of the first column containing any needle,
// case-insensitive, or -1.
func (t *Table) ColumnIndex(needles ...string) int {
	for i, col := range t.Columns {
		if common.ContainsAnyFold(col, needles...) {
			return i
		}
	}
	return -1
}

// HasCell reports whether any column name or any cell of the first rows
// contains one of the needles.
func (t *Table) HasCell(needles ...string) bool {
	for _, col := range t.Columns {
		if common.ContainsAnyFold(col, needles...) {
			return true
		}
	}
	limit := 20
	for _, row := range t.Rows {
		if limit == 0 {
			break
		}
		limit--
		for _, cell := range row {
			if common.ContainsAnyFold(cell, needles...) {
				return true
			}
		}
	}
	return false
}

// Cell returns the value of the first column containing any needle.
func (r Record) Cell(needles ...string) (string, bool) {
	for col, v := range r {
		if common.ContainsAnyFold(col, needles...) {
			return v, true
		}
	}
	return "", false
}

// Number coerces the matched cell to a number.
func (r Record) Number(needles ...string) (float64, bool) {
	v, ok := r.Cell(needles...)
	if !ok {
		return 0, false
	}
	return common.CoerceNumeric(v)
}

func parseTable(n *html.Node) *Table {
	var rows [][]string
	var walkRows func(node *html.Node)
	walkRows = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if isElement(c, "table") && c != n {
				continue // nested table handled on its own
			}
			if isElement(c, "tr") {
				rows = append(rows, rowCells(c))
				continue
			}
			walkRows(c)
		}
	}
	walkRows(n)
	if len(rows) == 0 {
		return nil
	}

	t := &Table{Columns: dedupeColumns(rows[0])}
	if len(rows) > 1 {
		t.Rows = rows[1:]
	}
	return t
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, "td") || isElement(c, "th") {
			cells = append(cells, common.CollapseWhitespace(nodeText(c)))
		}
	}
	return cells
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func dedupeColumns(header []string) []string {
	seen := map[string]int{}
	cols := make([]string, 0, len(header))
	for _, h := range header {
		name := common.CollapseWhitespace(h)
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			cols = append(cols, fmt.Sprintf("%s.%d", name, n+1))
		} else {
			seen[name] = 0
			cols = append(cols, name)
		}
	}
	return cols
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
