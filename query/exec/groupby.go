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
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"github.com/ebay/sparqlcore/query/expr"
	"github.com/ebay/sparqlcore/query/plandef"
	"github.com/ebay/sparqlcore/rdf"
	"github.com/ebay/sparqlcore/util/cmp"
	log "github.com/sirupsen/logrus"
)

type conditionKind int

const (
	byVariable conditionKind = iota + 1
	byExpression
)

// GroupBy is one condition of a GROUP BY clause, linked to the conditions
// that follow it. GroupBy values are created by a GroupByBuilder and are
// immutable.
type GroupBy struct {
	kind     conditionKind
	variable string
	expr     expr.Expression
	// assign is the variable the key is bound to, or empty.
	assign string
	child  *GroupBy
}

// Apply partitions every solution in the context's binder into groups.
func (g *GroupBy) Apply(ctx *Context) []*BindingGroup {
	return g.ApplyTo(ctx, []*BindingGroup{NewBindingGroup(ctx.Binder().BindingIDs()...)})
}

// ApplyTo subdivides each of the given groups. The groups produced from each
// input group carry that group's assignments, and are emitted together and in
// input order. Within one input group, groups with a value key come first, in
// the order their key was first seen, followed by the group of solutions for
// which the key failed to evaluate and then the group of solutions for which
// the key was unbound. Empty groups are never emitted. The input groups are
// not modified.
func (g *GroupBy) ApplyTo(ctx *Context, groups []*BindingGroup) []*BindingGroup {
	start := time.Now()
	res := g.apply(ctx, groups)
	metrics.groupApplyDurationSeconds.Observe(time.Since(start).Seconds())
	return res
}

func (g *GroupBy) apply(ctx *Context, groups []*BindingGroup) []*BindingGroup {
	var res []*BindingGroup
	for _, parent := range groups {
		res = g.partition(ctx, parent, res)
	}
	metrics.groupsTotal.Add(float64(len(res)))
	if g.child != nil {
		return g.child.apply(ctx, res)
	}
	return res
}

// partition divides the solutions of 'parent' by this condition's key and
// appends the resulting groups to 'res'.
func (g *GroupBy) partition(ctx *Context, parent *BindingGroup, res []*BindingGroup) []*BindingGroup {
	values := newBucketMap()
	var failed, unbound *BindingGroup
	for _, id := range parent.ids {
		key, err := g.key(ctx, id)
		switch {
		case err != nil:
			ctx.Logger().WithFields(log.Fields{
				"binding": id,
				"expr":    g.expr.String(),
				"error":   err,
			}).Debug("GROUP BY expression failed; grouping binding with errors")
			metrics.groupErrorBindingsTotal.Inc()
			if failed == nil {
				failed = parent.subgroup()
			}
			failed.add(id)
		case key == nil:
			if unbound == nil {
				unbound = parent.subgroup()
			}
			unbound.add(id)
		default:
			values.group(key, parent).add(id)
		}
	}
	for _, b := range values.order {
		if g.assign != "" {
			b.group.assign(g.assign, b.term)
		}
		res = append(res, b.group)
	}
	for _, group := range []*BindingGroup{failed, unbound} {
		if group == nil {
			continue
		}
		if g.assign != "" {
			group.assign(g.assign, nil)
		}
		res = append(res, group)
	}
	return res
}

// key returns the value that solution 'id' is grouped on.
func (g *GroupBy) key(ctx *Context, id int) (rdf.Term, error) {
	switch g.kind {
	case byVariable:
		return ctx.Binder().Value(g.variable, id), nil
	case byExpression:
		return g.expr.Evaluate(ctx, id)
	}
	panic(fmt.Sprintf("Unexpected GroupBy kind %d", g.kind))
}

// Child returns the next condition in the chain, or nil.
func (g *GroupBy) Child() *GroupBy {
	return g.child
}

// Variables returns the variables the chain refers to when computing keys.
func (g *GroupBy) Variables() plandef.VarSet {
	var own plandef.VarSet
	if g.kind == byVariable {
		own = plandef.NewVarSet(g.variable)
	} else {
		own = g.expr.Variables()
	}
	if g.child == nil {
		return own
	}
	return own.Union(g.child.Variables())
}

// ProjectableVariables returns the variables that may be selected from the
// grouped solutions without aggregating them: the variables grouped on
// directly, and the variables assigned with AS.
func (g *GroupBy) ProjectableVariables() plandef.VarSet {
	var own plandef.VarSet
	switch g.kind {
	case byVariable:
		own = plandef.NewVarSet(g.variable, g.assign)
	case byExpression:
		own = plandef.NewVarSet(g.assign)
		if v, ok := g.expr.(*expr.Var); ok {
			own = own.Union(plandef.NewVarSet(v.Name))
		}
	}
	if g.child == nil {
		return own
	}
	return own.Union(g.child.ProjectableVariables())
}

// String returns the chain in SPARQL syntax, like "GROUP BY ?a (STR(?b) AS ?c)".
func (g *GroupBy) String() string {
	var b strings.Builder
	b.WriteString("GROUP BY")
	for c := g; c != nil; c = c.child {
		b.WriteByte(' ')
		c.writeCondition(&b)
	}
	return b.String()
}

func (g *GroupBy) writeCondition(b *strings.Builder) {
	var key string
	if g.kind == byVariable {
		key = "?" + g.variable
	} else {
		key = g.expr.String()
	}
	switch {
	case g.assign != "":
		fmt.Fprintf(b, "(%s AS ?%s)", key, g.assign)
	case g.kind == byExpression:
		if _, isVar := g.expr.(*expr.Var); isVar {
			b.WriteString(key)
		} else {
			fmt.Fprintf(b, "(%s)", key)
		}
	default:
		b.WriteString(key)
	}
}

// bucket is the group for one distinct key value.
type bucket struct {
	key   string
	term  rdf.Term
	group *BindingGroup
}

// bucketMap finds the bucket for a term by its identity key. Terms are hashed
// with xxhash; buckets sharing a hash are told apart by the full key.
type bucketMap struct {
	byHash map[uint64][]*bucket
	order  []*bucket
}

func newBucketMap() *bucketMap {
	return &bucketMap{byHash: make(map[uint64][]*bucket)}
}

// group returns the group for 'term', creating it as a subgroup of 'parent' if
// needed.
func (m *bucketMap) group(term rdf.Term, parent *BindingGroup) *BindingGroup {
	key := cmp.GetKey(term)
	h := xxhash.Sum64String(key)
	for _, b := range m.byHash[h] {
		if b.key == key {
			return b.group
		}
	}
	b := &bucket{key: key, term: term, group: parent.subgroup()}
	m.byHash[h] = append(m.byHash[h], b)
	m.order = append(m.order, b)
	return b.group
}

// GroupByBuilder assembles a GROUP BY chain. Conditions are applied in the
// order they're added. Errors are reported by Build.
type GroupByBuilder struct {
	conds []GroupBy
}

// Variable adds a condition that groups on the value of the variable 'name'.
func (b *GroupByBuilder) Variable(name string) *GroupByBuilder {
	return b.VariableAs(name, "")
}

// VariableAs adds a condition that groups on the variable 'name' and binds
// each group's key to the variable 'as'.
func (b *GroupByBuilder) VariableAs(name, as string) *GroupByBuilder {
	b.conds = append(b.conds, GroupBy{kind: byVariable, variable: name, assign: as})
	return b
}

// Expression adds a condition that groups on the value of 'e'.
func (b *GroupByBuilder) Expression(e expr.Expression) *GroupByBuilder {
	return b.ExpressionAs(e, "")
}

// ExpressionAs adds a condition that groups on the value of 'e' and binds each
// group's key to the variable 'as'.
func (b *GroupByBuilder) ExpressionAs(e expr.Expression, as string) *GroupByBuilder {
	b.conds = append(b.conds, GroupBy{kind: byExpression, expr: e, assign: as})
	return b
}

// Build returns the chain of conditions added so far. It returns an error
// wrapping ErrInvalidArgument if there are no conditions, a variable name is
// empty, an expression is nil, or two conditions assign the same variable.
func (b *GroupByBuilder) Build() (*GroupBy, error) {
	if len(b.conds) == 0 {
		return nil, fmt.Errorf("%w: GROUP BY needs at least one condition", ErrInvalidArgument)
	}
	assigned := make(map[string]bool)
	for i, c := range b.conds {
		switch {
		case c.kind == byVariable && c.variable == "":
			return nil, fmt.Errorf("%w: GROUP BY condition %d has an empty variable name",
				ErrInvalidArgument, i+1)
		case c.kind == byExpression && c.expr == nil:
			return nil, fmt.Errorf("%w: GROUP BY condition %d has a nil expression",
				ErrInvalidArgument, i+1)
		}
		if c.assign != "" {
			if assigned[c.assign] {
				return nil, fmt.Errorf("%w: GROUP BY assigns ?%s more than once",
					ErrInvalidArgument, c.assign)
			}
			assigned[c.assign] = true
		}
	}
	var chain *GroupBy
	for i := len(b.conds) - 1; i >= 0; i-- {
		node := b.conds[i]
		node.child = chain
		chain = &node
	}
	return chain, nil
}
