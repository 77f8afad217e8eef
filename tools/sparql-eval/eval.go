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

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/ebay/sparqlcore/query/binding"
	"github.com/ebay/sparqlcore/query/exec"
	"github.com/ebay/sparqlcore/query/expr"
	"github.com/ebay/sparqlcore/query/parser"
	"github.com/ebay/sparqlcore/query/pattern"
	"github.com/ebay/sparqlcore/query/plandef"
	"github.com/ebay/sparqlcore/rdf"
	"github.com/ebay/sparqlcore/util/graphviz"
	"github.com/ebay/sparqlcore/util/table"
	log "github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v3"
)

// input is the contents of one input file.
type input struct {
	filename string
	where    *pattern.TripleBlock
	// solutions maps variable names to terms. Variables missing from a
	// solution are unbound.
	solutions []map[string]rdf.Term
}

// inputDoc is the YAML form of input.
type inputDoc struct {
	Where     []string            `yaml:"where"`
	Solutions []map[string]string `yaml:"solutions"`
}

func loadInput(filename string) (*input, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	in, err := parseInput(filename, raw)
	if err != nil {
		return nil, fmt.Errorf("%v: %v", filename, err)
	}
	return in, nil
}

func parseInput(filename string, raw []byte) (*input, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	var doc inputDoc
	if err := decoder.Decode(&doc); err != nil && err != io.EOF {
		return nil, err
	}
	in := &input{filename: filename}
	if len(doc.Where) > 0 {
		triples := make([]pattern.TriplePattern, len(doc.Where))
		for i, line := range doc.Where {
			var err error
			triples[i], err = parser.ParseTriple(line)
			if err != nil {
				return nil, fmt.Errorf("where line %d: %v", i+1, err)
			}
		}
		var err error
		in.where, err = pattern.NewTripleBlock(triples...)
		if err != nil {
			return nil, err
		}
	}
	for i, sol := range doc.Solutions {
		terms := make(map[string]rdf.Term, len(sol))
		for name, text := range sol {
			term, err := parser.ParseTerm(text)
			if err != nil {
				return nil, fmt.Errorf("solution %d: ?%s: %v", i+1, name, err)
			}
			if _, isVar := term.(*rdf.Variable); isVar {
				return nil, fmt.Errorf("solution %d: ?%s: can't bind a variable to %v", i+1, name, term)
			}
			terms[strings.TrimPrefix(name, "?")] = term
		}
		in.solutions = append(in.solutions, terms)
	}
	return in, nil
}

// multiset loads the solutions into a binding.Multiset. The columns are the
// variables of the pattern and of the solutions.
func (in *input) multiset() (*binding.Multiset, error) {
	var names []string
	for _, sol := range in.solutions {
		for name := range sol {
			names = append(names, name)
		}
	}
	columns := plandef.NewVarSet(names...)
	if in.where != nil {
		columns = columns.Union(in.where.ProjectedVariables())
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%v: no variables in pattern or solutions", in.filename)
	}
	m := binding.NewMultiset(columns...)
	for i, sol := range in.solutions {
		if _, err := m.AddMap(sol); err != nil {
			return nil, fmt.Errorf("%v: solution %d: %v", in.filename, i+1, err)
		}
	}
	return m, nil
}

func buildGroupBy(conds []parser.GroupCondition) (*exec.GroupBy, error) {
	b := new(exec.GroupByBuilder)
	for _, c := range conds {
		if v, ok := c.Expr.(*expr.Var); ok {
			b.VariableAs(v.Name, c.As)
		} else {
			b.ExpressionAs(c.Expr, c.As)
		}
	}
	return b.Build()
}

func buildOrderBy(conds []parser.OrderCondition) (*exec.OrderBy, error) {
	b := new(exec.OrderByBuilder)
	for _, c := range conds {
		if v, ok := c.Expr.(*expr.Var); ok {
			b.Variable(v.Name, c.Direction)
		} else {
			b.Expression(c.Expr, c.Direction)
		}
	}
	return b.Build()
}

// evaluate groups and orders the solutions of one input and writes a report
// to 'out'. If 'dotFile' is set, the pattern is also rendered there.
func evaluate(in *input, options *options, dotFile string, out io.Writer) error {
	m, err := in.multiset()
	if err != nil {
		return err
	}
	ctxOpts, err := options.config.Evaluation.ContextOptions()
	if err != nil {
		return err
	}
	ctxOpts = append(ctxOpts, exec.WithLogger(log.WithField("file", in.filename)))
	ctx := exec.NewContext(m, ctxOpts...)

	var groupBy *exec.GroupBy
	if len(options.groupConditions) > 0 {
		if groupBy, err = buildGroupBy(options.groupConditions); err != nil {
			return err
		}
	}
	var orderBy *exec.OrderBy
	if len(options.orderConditions) > 0 {
		if orderBy, err = buildOrderBy(options.orderConditions); err != nil {
			return err
		}
	}

	if options.Dump {
		dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		dumper.Fdump(out, in.where, options.groupConditions, options.orderConditions)
	}
	if in.where != nil {
		fmt.Fprintf(out, "Pattern: %v\n", in.where)
		fmt.Fprintf(out, "Variables: %v\n", in.where.Variables())
		if dotFile != "" {
			err := graphviz.Create(dotFile, func(w io.Writer) {
				pattern.WriteDot(w, in.where)
			})
			if err != nil {
				return err
			}
		}
		if orderBy != nil && orderBy.IsSimple() {
			for _, tp := range in.where.Triples() {
				if orderBy.GetComparer(ctx, tp) != nil {
					fmt.Fprintf(out, "Ordering applies to pattern: %v\n", tp)
				}
			}
		}
	}
	if groupBy != nil {
		fmt.Fprintln(out, groupBy)
	}
	if orderBy != nil {
		fmt.Fprintln(out, orderBy)
	}

	if groupBy == nil {
		ids := m.BindingIDs()
		if orderBy != nil {
			orderBy.Sort(ctx, ids)
		}
		if err := m.WriteTable(out, ids); err != nil {
			return err
		}
		fmtr.Fprintf(out, "%d solutions\n", len(ids))
		return nil
	}

	groups := groupBy.Apply(ctx)
	assigned := groupBy.ProjectableVariables().Filter(func(name string) bool {
		for _, g := range groups {
			if _, ok := g.Assignment(name); ok {
				return true
			}
		}
		return false
	})
	header := []string{"group"}
	for _, name := range assigned {
		header = append(header, "?"+name)
	}
	t := table.New(append(header, "size", "solutions")...)
	t.Empty = "UNDEF"
	for i, g := range groups {
		ids := append([]int(nil), g.IDs()...)
		if orderBy != nil {
			orderBy.Sort(ctx, ids)
		}
		row := []string{fmtr.Sprintf("%d", i+1)}
		for _, name := range assigned {
			row = append(row, termString(g.Assignment(name)))
		}
		row = append(row, fmtr.Sprintf("%d", g.Len()), fmt.Sprint(ids))
		t.AddRow(row...)
	}
	if _, err := t.WriteTo(out); err != nil {
		return err
	}
	fmtr.Fprintf(out, "%d solutions in %d groups\n", m.Len(), len(groups))
	return nil
}

// termString returns the text of an assigned term, or "" if it's unbound.
func termString(t rdf.Term, _ bool) string {
	if t == nil {
		return ""
	}
	return t.String()
}
