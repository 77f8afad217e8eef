// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package table lays out rows of text as aligned columns for terminal output.
package table

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Align controls how a cell's contents sit within its column.
type Align int

// Supported alignments.
const (
	AlignLeft Align = iota
	AlignRight
)

// Table accumulates a header and a number of rows. The zero value is an empty
// table without a header.
type Table struct {
	// Align applies to every cell.
	Align Align
	// Empty is printed in place of cells that are the empty string, which
	// makes unbound values visible.
	Empty  string
	header []string
	rows   [][]string
}

// New returns a Table with the given column headings.
func New(header ...string) *Table {
	return &Table{header: header}
}

// AddRow appends a row. Rows shorter than the header are padded with empty
// cells; longer rows widen the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows added, excluding the header.
func (t *Table) Len() int {
	return len(t.rows)
}

// WriteTo renders the table to 'w'. Every cell is followed by " |" and the
// header, if any, is separated from the rows by a dashed line.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	cols := len(t.header)
	for _, r := range t.rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return 0, nil
	}
	widths := make([]int, cols)
	measure := func(r []string, empty string) {
		for i := range widths {
			widths[i] = max(widths[i], displayWidth(cell(r, i, empty)))
		}
	}
	measure(t.header, "")
	for _, r := range t.rows {
		measure(r, t.Empty)
	}
	var b strings.Builder
	line := func(r []string, empty string) {
		for i, width := range widths {
			b.WriteByte(' ')
			b.WriteString(t.pad(cell(r, i, empty), width))
			b.WriteString(" |")
		}
		b.WriteByte('\n')
	}
	if t.header != nil {
		line(t.header, "")
		for _, width := range widths {
			b.WriteByte(' ')
			b.WriteString(strings.Repeat("-", width))
			b.WriteString(" |")
		}
		b.WriteByte('\n')
	}
	for _, r := range t.rows {
		line(r, t.Empty)
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func cell(r []string, i int, empty string) string {
	if i < len(r) && r[i] != "" {
		return r[i]
	}
	return empty
}

func (t *Table) pad(s string, width int) string {
	n := width - displayWidth(s)
	if n <= 0 {
		return s
	}
	if t.Align == AlignRight {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// displayWidth estimates how many terminal columns 's' occupies. Combining
// sequences are composed first so that "é" counts as one column.
func displayWidth(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}
