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

package pattern

import (
	"strings"

	"github.com/ebay/sparqlcore/query/expr"
	"github.com/ebay/sparqlcore/query/plandef"
)

// Query is a SELECT query, used as the target of a SubQuery.
type Query struct {
	// Distinct is set for SELECT DISTINCT.
	Distinct bool
	// Select lists the projected items. If empty, the query is SELECT * and
	// returns every variable projected by Where.
	Select []Projection
	// Where is the query's graph pattern. It's required.
	Where Element
}

// A Projection is one item in a SELECT clause: either a bare variable (Expr is
// nil) or "(Expr AS ?Var)".
type Projection struct {
	Expr expr.Expression
	Var  string
}

func (q *Query) check() error {
	if q.Where == nil {
		return invalidArgument("query requires a where element")
	}
	seen := make(map[string]bool, len(q.Select))
	for _, p := range q.Select {
		if p.Var == "" {
			return invalidArgument("select item without a variable")
		}
		if seen[p.Var] {
			return invalidArgument("variable ?%s selected more than once", p.Var)
		}
		seen[p.Var] = true
	}
	return nil
}

func (q *Query) clone() *Query {
	c := *q
	c.Select = append([]Projection(nil), q.Select...)
	return &c
}

// ResultVariables returns the variables the query produces.
func (q *Query) ResultVariables() plandef.VarSet {
	if len(q.Select) == 0 {
		return q.Where.ProjectedVariables()
	}
	names := make([]string, len(q.Select))
	for i, p := range q.Select {
		names[i] = p.Var
	}
	return plandef.NewVarSet(names...)
}

// selectVariables returns the variables mentioned in the select clause,
// including those inside projection expressions.
func (q *Query) selectVariables() plandef.VarSet {
	var all plandef.VarSet
	for _, p := range q.Select {
		all = all.Union(plandef.VarSet{p.Var})
		if p.Expr != nil {
			all = all.Union(p.Expr.Variables())
		}
	}
	return all
}

// String returns a string like "SELECT ?a (?b AS ?c) WHERE { ... }".
func (q *Query) String() string {
	var b strings.Builder
	q.write(printer{b: &b})
	return b.String()
}

func (q *Query) write(p printer) {
	p.str("SELECT ")
	if q.Distinct {
		p.str("DISTINCT ")
	}
	if len(q.Select) == 0 {
		p.str("*")
	}
	for i, item := range q.Select {
		if i > 0 {
			p.str(" ")
		}
		if item.Expr == nil {
			p.str("?" + item.Var)
			continue
		}
		p.str("(")
		p.expr(item.Expr)
		p.str(" AS ?" + item.Var + ")")
	}
	p.str(" WHERE ")
	q.Where.write(p)
}
