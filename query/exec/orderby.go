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

package exec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ebay/sparqlcore/query/binding"
	"github.com/ebay/sparqlcore/query/expr"
	"github.com/ebay/sparqlcore/query/pattern"
	"github.com/ebay/sparqlcore/query/plandef"
	"github.com/ebay/sparqlcore/rdf"
	log "github.com/sirupsen/logrus"
)

// OrderBy is one condition of an ORDER BY clause, linked to the conditions
// that break its ties. OrderBy values are created by an OrderByBuilder and are
// immutable.
type OrderBy struct {
	kind      conditionKind
	variable  string
	expr      expr.Expression
	direction plandef.SortDirection
	child     *OrderBy
}

// A TripleComparer orders the triples matched by a single triple pattern. It
// returns a negative number, zero, or a positive number as 'a' sorts before,
// the same as, or after 'b'.
type TripleComparer func(a, b rdf.Triple) int

// Compare returns a negative number, zero, or a positive number as 'x' sorts
// before, the same as, or after 'y'. Ties are broken by the rest of the chain.
// Each condition's direction applies only to that condition.
//
// When ordering on a variable, unbound sorts after every bound value in
// ascending order. When ordering on an expression, a solution for which the
// expression fails sorts after one for which it succeeds in ascending order,
// and an expression with no value sorts before one with a value. Both 'x' and
// 'y' must belong to the context's binder.
func (o *OrderBy) Compare(ctx *Context, x, y binding.Set) int {
	for c := o; c != nil; c = c.child {
		if res := c.compare(ctx, x, y); res != 0 {
			return res
		}
	}
	return 0
}

// compare returns this condition's own directed comparison of 'x' and 'y'.
func (o *OrderBy) compare(ctx *Context, x, y binding.Set) int {
	mod := o.direction.Modifier()
	switch o.kind {
	case byVariable:
		return mod * compareBound(ctx.OrderingComparer(), x.Value(o.variable), y.Value(o.variable))
	case byExpression:
		xv, xerr := o.evaluate(ctx, x.ID())
		yv, yerr := o.evaluate(ctx, y.ID())
		switch {
		case xerr != nil && yerr != nil:
			return 0
		case xerr != nil:
			return mod
		case yerr != nil:
			return -mod
		}
		return mod * ctx.OrderingComparer().Compare(xv, yv)
	}
	panic(fmt.Sprintf("Unexpected OrderBy kind %d", o.kind))
}

func (o *OrderBy) evaluate(ctx *Context, id int) (rdf.Term, error) {
	v, err := o.expr.Evaluate(ctx, id)
	if err != nil {
		ctx.Logger().WithFields(log.Fields{
			"binding": id,
			"expr":    o.expr.String(),
			"error":   err,
		}).Debug("ORDER BY expression failed")
		metrics.orderEvalErrorsTotal.Inc()
	}
	return v, err
}

// compareBound orders terms with unbound (nil) after every bound term.
func compareBound(ordering *rdf.OrderingComparer, x, y rdf.Term) int {
	switch {
	case x == nil && y == nil:
		return 0
	case x == nil:
		return 1
	case y == nil:
		return -1
	}
	return ordering.Compare(x, y)
}

// Sort sorts the solution IDs in place according to the chain. Solutions that
// compare equal keep their relative order.
func (o *OrderBy) Sort(ctx *Context, ids []int) {
	sets := make([]binding.Set, len(ids))
	for i, id := range ids {
		sets[i] = ctx.Binder().Set(id)
		if sets[i] == nil {
			panic(fmt.Sprintf("OrderBy.Sort: unknown binding ID %d", id))
		}
	}
	sort.Stable(byOrder{ctx: ctx, order: o, ids: ids, sets: sets})
}

// byOrder implements sort.Interface for OrderBy.Sort.
type byOrder struct {
	ctx   *Context
	order *OrderBy
	ids   []int
	sets  []binding.Set
}

func (s byOrder) Len() int {
	return len(s.ids)
}

func (s byOrder) Less(i, j int) bool {
	return s.order.Compare(s.ctx, s.sets[i], s.sets[j]) < 0
}

func (s byOrder) Swap(i, j int) {
	s.ids[i], s.ids[j] = s.ids[j], s.ids[i]
	s.sets[i], s.sets[j] = s.sets[j], s.sets[i]
}

// keyVariable returns the name of the variable this condition orders on, if
// it orders on a bare variable.
func (o *OrderBy) keyVariable() (string, bool) {
	if o.kind == byVariable {
		return o.variable, true
	}
	if v, ok := o.expr.(*expr.Var); ok {
		return v.Name, true
	}
	return "", false
}

// GetComparer returns a comparer that orders the triples matching 'tp' the
// same way Compare would order the resulting solutions. It returns nil if this
// condition doesn't order on a variable in the subject, predicate, or object
// of 'tp'. The returned comparer includes the rest of the chain only as far as
// the rest of the chain can be specialized to 'tp'.
func (o *OrderBy) GetComparer(ctx *Context, tp pattern.TriplePattern) TripleComparer {
	name, ok := o.keyVariable()
	if !ok {
		return nil
	}
	pos := -1
	for i, term := range tp.Terms() {
		if v, isVar := term.(*rdf.Variable); isVar && v.Name == name {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil
	}
	ordering := ctx.OrderingComparer()
	compareTerms := ordering.Compare
	if o.kind == byVariable {
		compareTerms = func(x, y rdf.Term) int {
			return compareBound(ordering, x, y)
		}
	}
	mod := o.direction.Modifier()
	var next TripleComparer
	if o.child != nil {
		next = o.child.GetComparer(ctx, tp)
	}
	return func(a, b rdf.Triple) int {
		res := mod * compareTerms(a.Terms()[pos], b.Terms()[pos])
		if res != 0 || next == nil {
			return res
		}
		return next(a, b)
	}
}

// IsSimple returns true if every condition in the chain orders on a bare
// variable.
func (o *OrderBy) IsSimple() bool {
	for c := o; c != nil; c = c.child {
		if _, ok := c.keyVariable(); !ok {
			return false
		}
	}
	return true
}

// Child returns the next condition in the chain, or nil.
func (o *OrderBy) Child() *OrderBy {
	return o.child
}

// Direction returns the direction of this condition.
func (o *OrderBy) Direction() plandef.SortDirection {
	return o.direction
}

// Variables returns the variables the chain refers to.
func (o *OrderBy) Variables() plandef.VarSet {
	var res plandef.VarSet
	for c := o; c != nil; c = c.child {
		if c.kind == byVariable {
			res = res.Union(plandef.NewVarSet(c.variable))
		} else {
			res = res.Union(c.expr.Variables())
		}
	}
	return res
}

// String returns the chain in SPARQL syntax, like "ORDER BY ?a DESC(?b)".
func (o *OrderBy) String() string {
	var b strings.Builder
	b.WriteString("ORDER BY")
	for c := o; c != nil; c = c.child {
		b.WriteByte(' ')
		switch {
		case c.kind == byVariable && c.direction == plandef.SortAsc:
			b.WriteString("?" + c.variable)
		case c.kind == byVariable:
			fmt.Fprintf(&b, "%v(?%s)", c.direction, c.variable)
		default:
			fmt.Fprintf(&b, "%v(%v)", c.direction, c.expr)
		}
	}
	return b.String()
}

// OrderByBuilder assembles an ORDER BY chain. Conditions are compared in the
// order they're added. Errors are reported by Build.
type OrderByBuilder struct {
	conds []OrderBy
}

// Variable adds a condition that orders on the variable 'name'.
func (b *OrderByBuilder) Variable(name string, dir plandef.SortDirection) *OrderByBuilder {
	b.conds = append(b.conds, OrderBy{kind: byVariable, variable: name, direction: dir})
	return b
}

// Expression adds a condition that orders on the value of 'e'.
func (b *OrderByBuilder) Expression(e expr.Expression, dir plandef.SortDirection) *OrderByBuilder {
	b.conds = append(b.conds, OrderBy{kind: byExpression, expr: e, direction: dir})
	return b
}

// Build returns the chain of conditions added so far. It returns an error
// wrapping ErrInvalidArgument if there are no conditions, a variable name is
// empty, an expression is nil, or a direction is unknown.
func (b *OrderByBuilder) Build() (*OrderBy, error) {
	if len(b.conds) == 0 {
		return nil, fmt.Errorf("%w: ORDER BY needs at least one condition", ErrInvalidArgument)
	}
	for i, c := range b.conds {
		switch {
		case c.kind == byVariable && c.variable == "":
			return nil, fmt.Errorf("%w: ORDER BY condition %d has an empty variable name",
				ErrInvalidArgument, i+1)
		case c.kind == byExpression && c.expr == nil:
			return nil, fmt.Errorf("%w: ORDER BY condition %d has a nil expression",
				ErrInvalidArgument, i+1)
		case c.direction != plandef.SortAsc && c.direction != plandef.SortDesc:
			return nil, fmt.Errorf("%w: ORDER BY condition %d has unknown direction %d",
				ErrInvalidArgument, i+1, int(c.direction))
		}
	}
	var chain *OrderBy
	for i := len(b.conds) - 1; i >= 0; i-- {
		node := b.conds[i]
		node.child = chain
		chain = &node
	}
	return chain, nil
}
