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
	"github.com/ebay/sparqlcore/rdf"
)

func (p printer) expr(e expr.Expression) {
	if p.key {
		e.Key(p.b)
	} else {
		p.str(e.String())
	}
}

func (p printer) children(children []Element, sep string) {
	for i, c := range children {
		if i > 0 {
			p.str(sep)
		}
		p.nested(c)
	}
}

// nested writes an element that appears inside another. A Union has no
// delimiters of its own in SPARQL syntax, so it's braced when nested.
func (p printer) nested(e Element) {
	if _, isUnion := e.(*Union); isUnion && !p.key {
		p.str("{ ")
		e.write(p)
		p.str(" }")
		return
	}
	e.write(p)
}

// Filter restricts the solutions of the enclosing group to those for which
// the expression is true.
type Filter struct {
	expr expr.Expression
}

// NewFilter returns a Filter. 'e' must not be nil.
func NewFilter(e expr.Expression) (*Filter, error) {
	if e == nil {
		return nil, invalidArgument("filter requires an expression")
	}
	return &Filter{expr: e}, nil
}

func (*Filter) anElement() {}

// Expr returns the filter expression.
func (f *Filter) Expr() expr.Expression {
	return f.expr
}

// Variables returns the expression's variables.
func (f *Filter) Variables() plandef.VarSet {
	return f.expr.Variables()
}

// ProjectedVariables returns nil; filters don't bind anything.
func (f *Filter) ProjectedVariables() plandef.VarSet {
	return nil
}

// Accept implements Element.
func (f *Filter) Accept(v Visitor) {
	v.VisitFilter(f)
}

// String returns a string like "FILTER((?a < 3))".
func (f *Filter) String() string {
	return stringOf(f)
}

// Key implements cmp.Key.
func (f *Filter) Key(b *strings.Builder) {
	keyOf(f, b)
}

func (f *Filter) write(p printer) {
	p.str("FILTER(")
	p.expr(f.expr)
	p.str(")")
}

// Bind assigns the value of an expression to a new variable.
type Bind struct {
	expr     expr.Expression
	variable string
}

// NewBind returns a Bind of 'e' to the variable named 'variable'. Both are
// required.
func NewBind(e expr.Expression, variable string) (*Bind, error) {
	if e == nil {
		return nil, invalidArgument("bind requires an expression")
	}
	if variable == "" {
		return nil, invalidArgument("bind requires a variable")
	}
	return &Bind{expr: e, variable: variable}, nil
}

func (*Bind) anElement() {}

// Expr returns the expression being bound.
func (b *Bind) Expr() expr.Expression {
	return b.expr
}

// Var returns the name of the variable being bound.
func (b *Bind) Var() string {
	return b.variable
}

// Variables returns the expression's variables and the bound variable.
func (b *Bind) Variables() plandef.VarSet {
	return b.expr.Variables().Union(plandef.VarSet{b.variable})
}

// ProjectedVariables returns the bound variable.
func (b *Bind) ProjectedVariables() plandef.VarSet {
	return plandef.VarSet{b.variable}
}

// Accept implements Element.
func (b *Bind) Accept(v Visitor) {
	v.VisitBind(b)
}

// String returns a string like "BIND((?a + 1) AS ?b)".
func (b *Bind) String() string {
	return stringOf(b)
}

// Key implements cmp.Key.
func (b *Bind) Key(buf *strings.Builder) {
	keyOf(b, buf)
}

func (b *Bind) write(p printer) {
	p.str("BIND(")
	p.expr(b.expr)
	p.str(" AS ?" + b.variable + ")")
}

func checkChildren(kind string, children []Element) error {
	for i, c := range children {
		if c == nil {
			return invalidArgument("%s child %d is nil", kind, i)
		}
	}
	return nil
}

func unionVariables(children []Element) plandef.VarSet {
	var all plandef.VarSet
	for _, c := range children {
		all = all.Union(c.Variables())
	}
	return all
}

func unionProjected(children []Element) plandef.VarSet {
	var all plandef.VarSet
	for _, c := range children {
		all = all.Union(c.ProjectedVariables())
	}
	return all
}

// Group is a group graph pattern: "{ ... }" containing a sequence of
// elements that are joined together.
type Group struct {
	children []Element
}

// NewGroup returns a Group of the given elements, none of which may be nil. An
// empty group is allowed.
func NewGroup(children ...Element) (*Group, error) {
	if err := checkChildren("group", children); err != nil {
		return nil, err
	}
	return &Group{children: append([]Element(nil), children...)}, nil
}

func (*Group) anElement() {}

// Children returns the elements in the group, in order.
func (g *Group) Children() []Element {
	return append([]Element(nil), g.children...)
}

// Variables implements Element.
func (g *Group) Variables() plandef.VarSet {
	return unionVariables(g.children)
}

// ProjectedVariables returns the union of the children's projected variables.
func (g *Group) ProjectedVariables() plandef.VarSet {
	return unionProjected(g.children)
}

// Accept implements Element.
func (g *Group) Accept(v Visitor) {
	v.VisitGroup(g)
}

// String returns a string like "{ { ?s <p> ?o } FILTER(...) }".
func (g *Group) String() string {
	return stringOf(g)
}

// Key implements cmp.Key.
func (g *Group) Key(b *strings.Builder) {
	keyOf(g, b)
}

func (g *Group) write(p printer) {
	p.str("{ ")
	for i, c := range g.children {
		if i > 0 {
			p.str(" ")
		}
		c.write(p)
	}
	p.str(" }")
}

// Union is "A UNION B ...": the solutions of any of its children.
type Union struct {
	children []Element
}

// NewUnion returns a Union. It requires at least two children, none of which
// may be nil.
func NewUnion(children ...Element) (*Union, error) {
	if len(children) < 2 {
		return nil, invalidArgument("union requires at least 2 children, got %d", len(children))
	}
	if err := checkChildren("union", children); err != nil {
		return nil, err
	}
	return &Union{children: append([]Element(nil), children...)}, nil
}

func (*Union) anElement() {}

// Children returns the alternatives, in order.
func (u *Union) Children() []Element {
	return append([]Element(nil), u.children...)
}

// Variables implements Element.
func (u *Union) Variables() plandef.VarSet {
	return unionVariables(u.children)
}

// ProjectedVariables returns the union of the children's projected variables.
func (u *Union) ProjectedVariables() plandef.VarSet {
	return unionProjected(u.children)
}

// Accept implements Element.
func (u *Union) Accept(v Visitor) {
	v.VisitUnion(u)
}

// String returns a string like "{ ... } UNION { ... }".
func (u *Union) String() string {
	return stringOf(u)
}

// Key implements cmp.Key.
func (u *Union) Key(b *strings.Builder) {
	keyOf(u, b)
}

func (u *Union) write(p printer) {
	if p.key {
		p.str("UNION(")
		p.children(u.children, ",")
		p.str(")")
		return
	}
	p.children(u.children, " UNION ")
}

// Optional is "OPTIONAL { ... }", a left join against the enclosing group.
type Optional struct {
	inner Element
}

// NewOptional returns an Optional around 'inner', which is required.
func NewOptional(inner Element) (*Optional, error) {
	if inner == nil {
		return nil, invalidArgument("optional requires an inner element")
	}
	return &Optional{inner: inner}, nil
}

func (*Optional) anElement() {}

// Inner returns the optional element.
func (o *Optional) Inner() Element {
	return o.inner
}

// Variables implements Element.
func (o *Optional) Variables() plandef.VarSet {
	return o.inner.Variables()
}

// ProjectedVariables returns nil.
func (o *Optional) ProjectedVariables() plandef.VarSet {
	return nil
}

// Accept implements Element.
func (o *Optional) Accept(v Visitor) {
	v.VisitOptional(o)
}

// String returns a string like "OPTIONAL { ... }".
func (o *Optional) String() string {
	return stringOf(o)
}

// Key implements cmp.Key.
func (o *Optional) Key(b *strings.Builder) {
	keyOf(o, b)
}

func (o *Optional) write(p printer) {
	p.str("OPTIONAL ")
	p.nested(o.inner)
}

// Minus is "MINUS { ... }": removes the enclosing group's solutions that are
// compatible with the inner element's.
type Minus struct {
	inner Element
}

// NewMinus returns a Minus around 'inner', which is required.
func NewMinus(inner Element) (*Minus, error) {
	if inner == nil {
		return nil, invalidArgument("minus requires an inner element")
	}
	return &Minus{inner: inner}, nil
}

func (*Minus) anElement() {}

// Inner returns the element whose solutions are subtracted.
func (m *Minus) Inner() Element {
	return m.inner
}

// Variables implements Element.
func (m *Minus) Variables() plandef.VarSet {
	return m.inner.Variables()
}

// ProjectedVariables returns nil.
func (m *Minus) ProjectedVariables() plandef.VarSet {
	return nil
}

// Accept implements Element.
func (m *Minus) Accept(v Visitor) {
	v.VisitMinus(m)
}

// String returns a string like "MINUS { ... }".
func (m *Minus) String() string {
	return stringOf(m)
}

// Key implements cmp.Key.
func (m *Minus) Key(b *strings.Builder) {
	keyOf(m, b)
}

func (m *Minus) write(p printer) {
	p.str("MINUS ")
	p.nested(m.inner)
}

func iriOrVariable(t rdf.Term) bool {
	switch t.(type) {
	case *rdf.IRI, *rdf.Variable:
		return true
	}
	return false
}

func variableOf(t rdf.Term) plandef.VarSet {
	if v, ok := t.(*rdf.Variable); ok {
		return plandef.VarSet{v.Name}
	}
	return nil
}

// NamedGraph is "GRAPH g { ... }": evaluates the inner element against a named
// graph. The graph is an IRI or a variable ranging over graph names.
type NamedGraph struct {
	graph rdf.Term
	inner Element
}

// NewNamedGraph returns a NamedGraph. 'graph' must be an IRI or a Variable,
// and 'inner' is required.
func NewNamedGraph(graph rdf.Term, inner Element) (*NamedGraph, error) {
	if !iriOrVariable(graph) {
		return nil, invalidArgument("graph name must be an IRI or variable, got %v", graph)
	}
	if inner == nil {
		return nil, invalidArgument("graph requires an inner element")
	}
	return &NamedGraph{graph: graph, inner: inner}, nil
}

func (*NamedGraph) anElement() {}

// Graph returns the graph name.
func (g *NamedGraph) Graph() rdf.Term {
	return g.graph
}

// Inner returns the element evaluated in the graph.
func (g *NamedGraph) Inner() Element {
	return g.inner
}

// Variables returns the inner element's variables and the graph variable, if
// any.
func (g *NamedGraph) Variables() plandef.VarSet {
	return g.inner.Variables().Union(variableOf(g.graph))
}

// ProjectedVariables returns the inner element's projected variables and the
// graph variable, if any.
func (g *NamedGraph) ProjectedVariables() plandef.VarSet {
	return g.inner.ProjectedVariables().Union(variableOf(g.graph))
}

// Accept implements Element.
func (g *NamedGraph) Accept(v Visitor) {
	v.VisitNamedGraph(g)
}

// String returns a string like "GRAPH ?g { ... }".
func (g *NamedGraph) String() string {
	return stringOf(g)
}

// Key implements cmp.Key.
func (g *NamedGraph) Key(b *strings.Builder) {
	keyOf(g, b)
}

func (g *NamedGraph) write(p printer) {
	p.str("GRAPH ")
	p.term(g.graph)
	p.str(" ")
	p.nested(g.inner)
}

// Service is "SERVICE [SILENT] endpoint { ... }": evaluates the inner element
// at a remote endpoint.
type Service struct {
	endpoint rdf.Term
	inner    Element
	silent   bool
}

// NewService returns a Service. 'endpoint' must be an IRI or a Variable, and
// 'inner' is required. If 'silent' is set, failures at the endpoint are
// ignored.
func NewService(endpoint rdf.Term, inner Element, silent bool) (*Service, error) {
	if !iriOrVariable(endpoint) {
		return nil, invalidArgument("service endpoint must be an IRI or variable, got %v", endpoint)
	}
	if inner == nil {
		return nil, invalidArgument("service requires an inner element")
	}
	return &Service{endpoint: endpoint, inner: inner, silent: silent}, nil
}

func (*Service) anElement() {}

// Endpoint returns the service IRI or variable.
func (s *Service) Endpoint() rdf.Term {
	return s.endpoint
}

// Inner returns the element sent to the service.
func (s *Service) Inner() Element {
	return s.inner
}

// Silent returns true for SERVICE SILENT.
func (s *Service) Silent() bool {
	return s.silent
}

// Variables returns the inner element's variables and the endpoint variable,
// if any.
func (s *Service) Variables() plandef.VarSet {
	return s.inner.Variables().Union(variableOf(s.endpoint))
}

// ProjectedVariables returns the inner element's projected variables.
func (s *Service) ProjectedVariables() plandef.VarSet {
	return s.inner.ProjectedVariables()
}

// Accept implements Element.
func (s *Service) Accept(v Visitor) {
	v.VisitService(s)
}

// String returns a string like "SERVICE SILENT <http://x> { ... }".
func (s *Service) String() string {
	return stringOf(s)
}

// Key implements cmp.Key.
func (s *Service) Key(b *strings.Builder) {
	keyOf(s, b)
}

func (s *Service) write(p printer) {
	p.str("SERVICE ")
	if s.silent {
		p.str("SILENT ")
	}
	p.term(s.endpoint)
	p.str(" ")
	p.nested(s.inner)
}

// SubQuery is a nested SELECT query used as a graph pattern.
type SubQuery struct {
	query *Query
}

// NewSubQuery returns a SubQuery. The query and its Where element are
// required. The SubQuery holds its own copy of 'q'.
func NewSubQuery(q *Query) (*SubQuery, error) {
	if q == nil {
		return nil, invalidArgument("subquery requires a query")
	}
	if err := q.check(); err != nil {
		return nil, err
	}
	return &SubQuery{query: q.clone()}, nil
}

func (*SubQuery) anElement() {}

// Query returns a copy of the nested query.
func (sq *SubQuery) Query() *Query {
	return sq.query.clone()
}

// Variables returns the variables used inside the query and those it selects.
func (sq *SubQuery) Variables() plandef.VarSet {
	return sq.query.Where.Variables().Union(sq.query.selectVariables())
}

// ProjectedVariables returns the query's result variables.
func (sq *SubQuery) ProjectedVariables() plandef.VarSet {
	return sq.query.ResultVariables()
}

// Accept implements Element.
func (sq *SubQuery) Accept(v Visitor) {
	v.VisitSubQuery(sq)
}

// String returns a string like "{ SELECT ?a WHERE { ... } }".
func (sq *SubQuery) String() string {
	return stringOf(sq)
}

// Key implements cmp.Key.
func (sq *SubQuery) Key(b *strings.Builder) {
	keyOf(sq, b)
}

func (sq *SubQuery) write(p printer) {
	p.str("{ ")
	sq.query.write(p)
	p.str(" }")
}

// Data is an inline table of solutions: "VALUES (?a ?b) { (1 2) (UNDEF 3) }".
type Data struct {
	vars plandef.VarSet
	// declared holds the variable names in the order given.
	declared []string
	rows     [][]rdf.Term
}

// NewData returns a Data element. Variable names must be unique and not
// empty, and every row must have one term per variable; nil terms are UNDEF.
func NewData(vars []string, rows [][]rdf.Term) (*Data, error) {
	set := plandef.NewVarSet(vars...)
	if len(set) != len(vars) {
		return nil, invalidArgument("data variables must be unique and not empty: %v", vars)
	}
	copied := make([][]rdf.Term, len(rows))
	for i, r := range rows {
		if len(r) != len(vars) {
			return nil, invalidArgument("data row %d has %d values, expected %d", i, len(r), len(vars))
		}
		copied[i] = append([]rdf.Term(nil), r...)
	}
	return &Data{
		vars:     set,
		declared: append([]string(nil), vars...),
		rows:     copied,
	}, nil
}

func (*Data) anElement() {}

// Vars returns the variable names in the order they were declared.
func (d *Data) Vars() []string {
	return append([]string(nil), d.declared...)
}

// Rows returns the rows of terms. The returned slices must not be modified.
func (d *Data) Rows() [][]rdf.Term {
	return d.rows
}

// Variables returns the declared variables.
func (d *Data) Variables() plandef.VarSet {
	return d.vars
}

// ProjectedVariables returns the declared variables.
func (d *Data) ProjectedVariables() plandef.VarSet {
	return d.vars
}

// Accept implements Element.
func (d *Data) Accept(v Visitor) {
	v.VisitData(d)
}

// String returns a string like "VALUES (?a ?b) { (1 2) (UNDEF 3) }".
func (d *Data) String() string {
	return stringOf(d)
}

// Key implements cmp.Key.
func (d *Data) Key(b *strings.Builder) {
	keyOf(d, b)
}

func (d *Data) write(p printer) {
	p.str("VALUES (")
	for i, v := range d.declared {
		if i > 0 {
			p.str(" ")
		}
		p.str("?" + v)
	}
	p.str(") {")
	for _, r := range d.rows {
		p.str(" (")
		for i, t := range r {
			if i > 0 {
				p.str(" ")
			}
			p.term(t)
		}
		p.str(")")
	}
	p.str(" }")
}
