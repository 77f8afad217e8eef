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

// Package pattern models the graph pattern of a SPARQL query (the WHERE
// clause) as an immutable tree of Elements.
package pattern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ebay/sparqlcore/query/plandef"
	"github.com/ebay/sparqlcore/rdf"
	"github.com/ebay/sparqlcore/util/cmp"
)

// ErrInvalidArgument is returned (wrapped) by the constructors in this package
// when a required argument is missing or malformed.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// An Element is a node in a graph pattern tree. Elements are immutable and
// are built with the New* functions in this package.
type Element interface {
	// Variables returns every variable mentioned in the element and its
	// descendants. Blank nodes in triples are included as pseudo-variables
	// named like "_:b0".
	Variables() plandef.VarSet
	// ProjectedVariables returns the variables the element makes visible to
	// the enclosing pattern.
	ProjectedVariables() plandef.VarSet
	// Accept calls the method on 'v' that corresponds to the element's type.
	Accept(v Visitor)
	String() string
	cmp.Key
	write(p printer)
	anElement()
}

// ImplementElement is a list of types that implement Element. This serves as
// documentation and as a compile-time check.
var ImplementElement = []Element{
	new(TripleBlock),
	new(PathBlock),
	new(Filter),
	new(Bind),
	new(Group),
	new(Union),
	new(Optional),
	new(Minus),
	new(NamedGraph),
	new(Service),
	new(SubQuery),
	new(Data),
}

// Visitor has one method per type of Element. See Element.Accept.
type Visitor interface {
	VisitTripleBlock(*TripleBlock)
	VisitPathBlock(*PathBlock)
	VisitFilter(*Filter)
	VisitBind(*Bind)
	VisitGroup(*Group)
	VisitUnion(*Union)
	VisitOptional(*Optional)
	VisitMinus(*Minus)
	VisitNamedGraph(*NamedGraph)
	VisitService(*Service)
	VisitSubQuery(*SubQuery)
	VisitData(*Data)
}

// Equal returns true if the two elements have the same structure, false
// otherwise. Children are compared in order. A PathBlock made up only of
// simple predicates is equal to the TripleBlock with the same triples.
func Equal(a, b Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return cmp.GetKey(a) == cmp.GetKey(b)
}

// printer writes elements either for people (String) or as identity keys
// (Key). The two forms differ only in how terms are written.
type printer struct {
	b   *strings.Builder
	key bool
}

func (p printer) str(s string) {
	p.b.WriteString(s)
}

func (p printer) term(t rdf.Term) {
	switch {
	case t == nil:
		p.str("UNDEF")
	case p.key:
		t.Key(p.b)
	default:
		p.str(t.String())
	}
}

func (p printer) element(e Element) {
	e.write(p)
}

func stringOf(e Element) string {
	var b strings.Builder
	e.write(printer{b: &b})
	return b.String()
}

func keyOf(e Element, b *strings.Builder) {
	e.write(printer{b: b, key: true})
}

// termVariable returns the name of the variable or blank node pseudo-variable
// for 't', or "" for other terms.
func termVariable(t rdf.Term) string {
	switch t := t.(type) {
	case *rdf.Variable:
		return t.Name
	case *rdf.Blank:
		return "_:" + t.Label
	}
	return ""
}

// IsBlankVariable returns true if 'name' is a blank node pseudo-variable, as
// returned in Element.Variables.
func IsBlankVariable(name string) bool {
	return strings.HasPrefix(name, "_:")
}

func realVariables(set plandef.VarSet) plandef.VarSet {
	return set.Filter(func(n string) bool { return !IsBlankVariable(n) })
}

// TriplePattern is a triple whose positions may be variables or blank nodes.
type TriplePattern = rdf.Triple

func checkTriple(t TriplePattern) error {
	if t.Subject == nil || t.Predicate == nil || t.Object == nil {
		return invalidArgument("triple pattern %v has a missing term", t)
	}
	return nil
}

// TripleBlock is a basic graph pattern: a sequence of triple patterns.
type TripleBlock struct {
	triples []TriplePattern
}

// NewTripleBlock returns a TripleBlock with the given triples. Every position
// of every triple must be set.
func NewTripleBlock(triples ...TriplePattern) (*TripleBlock, error) {
	for _, t := range triples {
		if err := checkTriple(t); err != nil {
			return nil, err
		}
	}
	return &TripleBlock{triples: append([]TriplePattern(nil), triples...)}, nil
}

func (*TripleBlock) anElement() {}

// Triples returns the triple patterns in order.
func (tb *TripleBlock) Triples() []TriplePattern {
	return append([]TriplePattern(nil), tb.triples...)
}

// Variables implements Element.
func (tb *TripleBlock) Variables() plandef.VarSet {
	var names []string
	for _, t := range tb.triples {
		for _, term := range t.Terms() {
			names = append(names, termVariable(term))
		}
	}
	return plandef.NewVarSet(names...)
}

// ProjectedVariables returns the variables in the triples, excluding blank
// nodes.
func (tb *TripleBlock) ProjectedVariables() plandef.VarSet {
	return realVariables(tb.Variables())
}

// Accept implements Element.
func (tb *TripleBlock) Accept(v Visitor) {
	v.VisitTripleBlock(tb)
}

// String returns a string like "{ ?s <p> ?o . ?o <q> "x" }".
func (tb *TripleBlock) String() string {
	return stringOf(tb)
}

// Key implements cmp.Key.
func (tb *TripleBlock) Key(b *strings.Builder) {
	keyOf(tb, b)
}

func (tb *TripleBlock) write(p printer) {
	writeTriples(p, tb.triples)
}

func writeTriples(p printer, triples []TriplePattern) {
	p.str("{")
	for i, t := range triples {
		if i > 0 {
			p.str(" .")
		}
		p.str(" ")
		p.term(t.Subject)
		p.str(" ")
		p.term(t.Predicate)
		p.str(" ")
		p.term(t.Object)
	}
	p.str(" }")
}

// A TriplePath is like a triple pattern, but with a property path in place of
// the predicate.
type TriplePath struct {
	Subject rdf.Term
	Path    Path
	Object  rdf.Term
}

// IsSimple returns true if the path is a single predicate, false otherwise.
func (tp TriplePath) IsSimple() bool {
	_, ok := tp.Path.(*Predicate)
	return ok
}

// Triple returns the equivalent triple pattern for a simple path. It returns
// false if the path isn't simple.
func (tp TriplePath) Triple() (TriplePattern, bool) {
	pred, ok := tp.Path.(*Predicate)
	if !ok {
		return TriplePattern{}, false
	}
	return TriplePattern{Subject: tp.Subject, Predicate: pred.Term, Object: tp.Object}, true
}

// SimplePath returns a TriplePath for a triple pattern.
func SimplePath(t TriplePattern) TriplePath {
	return TriplePath{Subject: t.Subject, Path: &Predicate{Term: t.Predicate}, Object: t.Object}
}

// PathBlock is a sequence of triple paths.
type PathBlock struct {
	paths []TriplePath
}

// NewPathBlock returns a PathBlock with the given paths. Every path must have
// a subject, path, and object. Only simple paths may have a variable
// predicate.
func NewPathBlock(paths ...TriplePath) (*PathBlock, error) {
	for _, tp := range paths {
		if tp.Subject == nil || tp.Path == nil || tp.Object == nil {
			return nil, invalidArgument("triple path has a missing subject, path, or object")
		}
		if err := checkPath(tp.Path, tp.IsSimple()); err != nil {
			return nil, err
		}
	}
	return &PathBlock{paths: append([]TriplePath(nil), paths...)}, nil
}

func (*PathBlock) anElement() {}

// Paths returns the triple paths in order.
func (pb *PathBlock) Paths() []TriplePath {
	return append([]TriplePath(nil), pb.paths...)
}

// HasPaths returns true if any of the triple paths isn't simple.
func (pb *PathBlock) HasPaths() bool {
	for _, tp := range pb.paths {
		if !tp.IsSimple() {
			return true
		}
	}
	return false
}

// Variables returns the subject and object variables of every path, the
// predicate variables of simple paths, and blank node pseudo-variables.
func (pb *PathBlock) Variables() plandef.VarSet {
	var names []string
	for _, tp := range pb.paths {
		names = append(names, termVariable(tp.Subject), termVariable(tp.Object))
		if pred, ok := tp.Path.(*Predicate); ok {
			names = append(names, termVariable(pred.Term))
		}
	}
	return plandef.NewVarSet(names...)
}

// ProjectedVariables returns Variables, excluding blank nodes.
func (pb *PathBlock) ProjectedVariables() plandef.VarSet {
	return realVariables(pb.Variables())
}

// Accept implements Element.
func (pb *PathBlock) Accept(v Visitor) {
	v.VisitPathBlock(pb)
}

// String returns a string like "{ ?s <p>/<q>* ?o }".
func (pb *PathBlock) String() string {
	return stringOf(pb)
}

// Key implements cmp.Key.
func (pb *PathBlock) Key(b *strings.Builder) {
	keyOf(pb, b)
}

func (pb *PathBlock) write(p printer) {
	if !pb.HasPaths() {
		triples := make([]TriplePattern, len(pb.paths))
		for i, tp := range pb.paths {
			triples[i], _ = tp.Triple()
		}
		writeTriples(p, triples)
		return
	}
	p.str("PATHS{")
	for i, tp := range pb.paths {
		if i > 0 {
			p.str(" .")
		}
		p.str(" ")
		p.term(tp.Subject)
		p.str(" ")
		writePath(p, tp.Path)
		p.str(" ")
		p.term(tp.Object)
	}
	p.str(" }")
}
