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

// Package binding holds solution rows (binding sets) produced by evaluating a
// graph pattern, and the Binder interface used to look them up.
package binding

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ebay/sparqlcore/query/plandef"
	"github.com/ebay/sparqlcore/rdf"
	"github.com/ebay/sparqlcore/util/table"
)

// A Set is one solution: a mapping from variable names to terms. A Set is
// immutable.
type Set interface {
	// ID returns the identifier of the solution within its Binder.
	ID() int
	// Value returns the term bound to the variable 'name' (without a leading
	// '?'), or nil if the variable is unbound.
	Value(name string) rdf.Term
	// Variables returns the names of the variables bound in this solution.
	Variables() plandef.VarSet
}

// A Binder is the full multiset of solutions for one query evaluation.
type Binder interface {
	// BindingIDs returns the IDs of every solution, in the order they were
	// produced.
	BindingIDs() []int
	// Value returns the term bound to 'name' in solution 'id', or nil if the
	// variable is unbound or the ID is unknown.
	Value(name string, id int) rdf.Term
	// Set returns the solution with the given ID, or nil if there's no such
	// solution.
	Set(id int) Set
}

// Multiset is an in-memory Binder. Values are stored row-major: each row holds
// one term per column, in the order given by Columns.
type Multiset struct {
	columns []string
	colIdx  map[string]int
	values  []rdf.Term
	ids     []int
	rowOf   map[int]int
}

// NewMultiset returns an empty Multiset with the given variable names as its
// columns. It panics if a column is empty or repeated.
func NewMultiset(columns ...string) *Multiset {
	m := &Multiset{
		columns: columns,
		colIdx:  make(map[string]int, len(columns)),
		rowOf:   make(map[int]int),
	}
	for i, c := range columns {
		if c == "" {
			panic("binding.NewMultiset: empty column name")
		}
		if _, dup := m.colIdx[c]; dup {
			panic(fmt.Sprintf("binding.NewMultiset: duplicate column %q", c))
		}
		m.colIdx[c] = i
	}
	return m
}

// Columns returns the variable names in column order.
func (m *Multiset) Columns() []string {
	return m.columns
}

// Len returns the number of solutions.
func (m *Multiset) Len() int {
	return len(m.ids)
}

// Add appends a solution with one term per column, nil meaning unbound, and
// returns its ID. IDs are assigned sequentially starting at 1.
func (m *Multiset) Add(row ...rdf.Term) (int, error) {
	if len(row) != len(m.columns) {
		return 0, fmt.Errorf("binding: row has %d values but there are %d columns",
			len(row), len(m.columns))
	}
	id := len(m.ids) + 1
	m.rowOf[id] = len(m.ids)
	m.ids = append(m.ids, id)
	m.values = append(m.values, row...)
	return id, nil
}

// AddMap is like Add but takes the values keyed by variable name. It returns
// an error if a name isn't one of the columns.
func (m *Multiset) AddMap(values map[string]rdf.Term) (int, error) {
	row := make([]rdf.Term, len(m.columns))
	for name, term := range values {
		i, ok := m.colIdx[name]
		if !ok {
			return 0, fmt.Errorf("binding: unknown variable ?%s", name)
		}
		row[i] = term
	}
	return m.Add(row...)
}

// BindingIDs implements Binder.
func (m *Multiset) BindingIDs() []int {
	return append([]int(nil), m.ids...)
}

// Value implements Binder.
func (m *Multiset) Value(name string, id int) rdf.Term {
	r, ok := m.rowOf[id]
	if !ok {
		return nil
	}
	c, ok := m.colIdx[name]
	if !ok {
		return nil
	}
	return m.values[r*len(m.columns)+c]
}

// Set implements Binder.
func (m *Multiset) Set(id int) Set {
	r, ok := m.rowOf[id]
	if !ok {
		return nil
	}
	return &row{m: m, id: id, offset: r * len(m.columns)}
}

// WriteTable writes the solutions with the given IDs as a table, one row per
// ID, with an "id" column followed by the variables. Unbound values are shown
// as "UNDEF".
func (m *Multiset) WriteTable(w io.Writer, ids []int) error {
	header := append([]string{"id"}, m.columns...)
	for i := range m.columns {
		header[i+1] = "?" + m.columns[i]
	}
	t := table.New(header...)
	t.Empty = "UNDEF"
	for _, id := range ids {
		cells := []string{strconv.Itoa(id)}
		for _, c := range m.columns {
			if v := m.Value(c, id); v != nil {
				cells = append(cells, v.String())
			} else {
				cells = append(cells, "")
			}
		}
		t.AddRow(cells...)
	}
	_, err := t.WriteTo(w)
	return err
}

// row is the Set implementation for Multiset.
type row struct {
	m      *Multiset
	id     int
	offset int
}

func (r *row) ID() int {
	return r.id
}

func (r *row) Value(name string) rdf.Term {
	c, ok := r.m.colIdx[name]
	if !ok {
		return nil
	}
	return r.m.values[r.offset+c]
}

func (r *row) Variables() plandef.VarSet {
	var bound []string
	for i, c := range r.m.columns {
		if r.m.values[r.offset+i] != nil {
			bound = append(bound, c)
		}
	}
	return plandef.NewVarSet(bound...)
}

// String returns a string like "{?a=<x> ?b="y"}" listing the bound variables.
func (r *row) String() string {
	s := "{"
	for i, name := range r.Variables() {
		if i > 0 {
			s += " "
		}
		s += "?" + name + "=" + r.Value(name).String()
	}
	return s + "}"
}
