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

// Package rdf defines the RDF terms that query evaluation operates on, along
// with the SPARQL comparison rules between them.
package rdf

import (
	"strconv"
	"strings"

	"github.com/ebay/sparqlcore/util/cmp"
	"golang.org/x/text/language"
)

// Kind identifies the type of a Term. Kinds are ranked in the order they're
// declared, which is the order ORDER BY uses between terms of different kinds.
type Kind int

// Possible values for Kind.
const (
	KindBlank Kind = iota + 1
	KindIRI
	KindLiteral
	KindVariable
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindIRI:
		return "IRI"
	case KindLiteral:
		return "literal"
	case KindVariable:
		return "variable"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// A Term is an RDF node or a variable placeholder. A nil Term means unbound.
type Term interface {
	Kind() Kind
	String() string
	cmp.Key
	aTerm()
}

// ImplementTerm is a list of types that implement Term. This serves as
// documentation and as a compile-time check.
var ImplementTerm = []Term{
	new(IRI),
	new(Blank),
	new(Literal),
	new(Variable),
}

// Equal returns true if 'a' and 'b' are the same RDF term, false otherwise.
// Two nil terms are equal.
func Equal(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return cmp.GetKey(a) == cmp.GetKey(b)
}

// An IRI is an absolute resource identifier.
type IRI struct {
	Value string
}

func (*IRI) aTerm() {}

// Kind returns KindIRI.
func (*IRI) Kind() Kind {
	return KindIRI
}

// String returns a string like "<http://example.com/a>".
func (iri *IRI) String() string {
	return "<" + iri.Value + ">"
}

// Key implements cmp.Key.
func (iri *IRI) Key(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(iri.Value)
	b.WriteByte('>')
}

// A Blank is a blank node, scoped to the data it came from.
type Blank struct {
	Label string
}

func (*Blank) aTerm() {}

// Kind returns KindBlank.
func (*Blank) Kind() Kind {
	return KindBlank
}

// String returns a string like "_:b0".
func (bn *Blank) String() string {
	return "_:" + bn.Label
}

// Key implements cmp.Key.
func (bn *Blank) Key(b *strings.Builder) {
	b.WriteString("_:")
	b.WriteString(bn.Label)
}

// A Variable is a named placeholder that appears in graph patterns.
type Variable struct {
	Name string
}

func (*Variable) aTerm() {}

// Kind returns KindVariable.
func (*Variable) Kind() Kind {
	return KindVariable
}

// String returns a string like "?foo".
func (v *Variable) String() string {
	return "?" + v.Name
}

// Key implements cmp.Key.
func (v *Variable) Key(b *strings.Builder) {
	b.WriteByte('?')
	b.WriteString(v.Name)
}

// A Literal is a lexical form with either a datatype or a language tag. A
// Literal with neither is a simple literal, which is the same term as the
// xsd:string literal with the same lexical form.
type Literal struct {
	Lexical string
	// Datatype is an IRI (without angle brackets). It's ignored if Lang is set.
	Datatype string
	// Lang is a canonical BCP 47 language tag, such as "en-US".
	Lang string
}

func (*Literal) aTerm() {}

// Kind returns KindLiteral.
func (*Literal) Kind() Kind {
	return KindLiteral
}

// EffectiveDatatype returns the datatype IRI of the literal: rdf:langString
// for language-tagged strings and xsd:string for simple literals.
func (lit *Literal) EffectiveDatatype() string {
	switch {
	case lit.Lang != "":
		return RDFLangString
	case lit.Datatype == "":
		return XSDString
	}
	return lit.Datatype
}

// String returns a string like `"abc"`, `"abc"@en`, or `"1"^^xsd:integer`.
func (lit *Literal) String() string {
	s := strconv.Quote(lit.Lexical)
	switch dt := lit.EffectiveDatatype(); {
	case lit.Lang != "":
		return s + "@" + lit.Lang
	case dt == XSDString:
		return s
	case strings.HasPrefix(dt, XSD):
		return s + "^^xsd:" + dt[len(XSD):]
	default:
		return s + "^^<" + dt + ">"
	}
}

// Key implements cmp.Key.
func (lit *Literal) Key(b *strings.Builder) {
	b.WriteString(strconv.Quote(lit.Lexical))
	if lit.Lang != "" {
		b.WriteByte('@')
		b.WriteString(lit.Lang)
		return
	}
	b.WriteString("^^<")
	b.WriteString(lit.EffectiveDatatype())
	b.WriteByte('>')
}

// NewString returns a simple literal.
func NewString(s string) *Literal {
	return &Literal{Lexical: s}
}

// NewLangString returns a language-tagged string literal. The tag is
// canonicalized, so "en-us" becomes "en-US". It returns an error if 'tag' is
// not well-formed.
func NewLangString(s, tag string) (*Literal, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return nil, err
	}
	return &Literal{Lexical: s, Lang: t.String()}, nil
}

// NewTyped returns a literal with the given lexical form and datatype IRI. The
// lexical form isn't validated here; comparisons treat ill-formed values as
// incomparable.
func NewTyped(lexical, datatype string) *Literal {
	return &Literal{Lexical: lexical, Datatype: datatype}
}

// NewInteger returns an xsd:integer literal.
func NewInteger(v int64) *Literal {
	return NewTyped(strconv.FormatInt(v, 10), XSDInteger)
}

// NewBoolean returns an xsd:boolean literal.
func NewBoolean(v bool) *Literal {
	return NewTyped(strconv.FormatBool(v), XSDBoolean)
}

// NewDouble returns an xsd:double literal.
func NewDouble(v float64) *Literal {
	return NewTyped(formatDouble(v), XSDDouble)
}

// A Triple is a subject, predicate, and object. In patterns, any position may
// be a Variable.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// String returns a string like "<s> <p> ?o".
func (t Triple) String() string {
	return termString(t.Subject) + " " + termString(t.Predicate) + " " + termString(t.Object)
}

// Key implements cmp.Key.
func (t Triple) Key(b *strings.Builder) {
	writeTermKey(b, t.Subject)
	b.WriteByte(' ')
	writeTermKey(b, t.Predicate)
	b.WriteByte(' ')
	writeTermKey(b, t.Object)
}

// Terms returns the subject, predicate, and object in that order.
func (t Triple) Terms() [3]Term {
	return [3]Term{t.Subject, t.Predicate, t.Object}
}

func termString(t Term) string {
	if t == nil {
		return "UNDEF"
	}
	return t.String()
}

func writeTermKey(b *strings.Builder, t Term) {
	if t == nil {
		b.WriteString("UNDEF")
		return
	}
	t.Key(b)
}
