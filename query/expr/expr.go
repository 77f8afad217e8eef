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

// Package expr defines the expressions that GROUP BY and ORDER BY evaluate
// against individual solutions.
package expr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ebay/sparqlcore/query/binding"
	"github.com/ebay/sparqlcore/query/plandef"
	"github.com/ebay/sparqlcore/rdf"
	"github.com/ebay/sparqlcore/util/cmp"
)

// Context is what an Expression needs from the query evaluation around it.
type Context interface {
	// Binder returns the solutions that expressions are evaluated against.
	Binder() binding.Binder
	// NodeComparer returns the comparer used by relational operators.
	NodeComparer() *rdf.NodeComparer
}

// An Expression computes a term from one solution.
type Expression interface {
	// Evaluate returns the value of the expression for the solution 'id'. A
	// nil term with a nil error means the expression has no value, as when it
	// refers to an unbound variable. Failures are returned as *Error.
	Evaluate(ctx Context, id int) (rdf.Term, error)
	// Variables returns the variables the expression refers to.
	Variables() plandef.VarSet
	String() string
	cmp.Key
	anExpression()
}

// ImplementExpression is a list of types that implement Expression. This
// serves as documentation and as a compile-time check.
var ImplementExpression = []Expression{
	new(Var),
	new(Const),
	new(Str),
	new(Lang),
	new(Datatype),
	new(Arith),
	new(Compare),
	new(If),
}

// Error is a SPARQL expression evaluation error, such as a type error or an
// unbound operand. These errors are part of normal evaluation: GROUP BY and
// ORDER BY give them defined meaning instead of failing.
type Error struct {
	// Expr is the expression that failed.
	Expr Expression
	// Msg describes the failure.
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("error evaluating %v: %s", e.Expr, e.Msg)
}

// Errorf returns a new *Error for 'e' with a formatted message.
func Errorf(e Expression, format string, args ...interface{}) *Error {
	return &Error{Expr: e, Msg: fmt.Sprintf(format, args...)}
}

// IsError returns true if 'err' is or wraps an *Error, false otherwise.
func IsError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// evalOperand evaluates 'arg' as an operand of 'parent'. An unbound operand is
// an error.
func evalOperand(ctx Context, id int, parent, arg Expression) (rdf.Term, error) {
	v, err := arg.Evaluate(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, Errorf(parent, "%v is unbound", arg)
	}
	return v, nil
}

// Var is an expression that returns the value of a variable.
type Var struct {
	Name string
}

func (*Var) anExpression() {}

// Evaluate returns the value bound to the variable, which may be nil.
func (v *Var) Evaluate(ctx Context, id int) (rdf.Term, error) {
	return ctx.Binder().Value(v.Name, id), nil
}

// Variables returns the variable.
func (v *Var) Variables() plandef.VarSet {
	return plandef.VarSet{v.Name}
}

// String returns a string like "?foo".
func (v *Var) String() string {
	return "?" + v.Name
}

// Key implements cmp.Key.
func (v *Var) Key(b *strings.Builder) {
	b.WriteByte('?')
	b.WriteString(v.Name)
}

// Const is an expression with a fixed value.
type Const struct {
	Term rdf.Term
}

func (*Const) anExpression() {}

// Evaluate returns the constant term.
func (c *Const) Evaluate(Context, int) (rdf.Term, error) {
	return c.Term, nil
}

// Variables returns nil.
func (c *Const) Variables() plandef.VarSet {
	return nil
}

func (c *Const) String() string {
	if c.Term == nil {
		return "UNDEF"
	}
	return c.Term.String()
}

// Key implements cmp.Key.
func (c *Const) Key(b *strings.Builder) {
	if c.Term == nil {
		b.WriteString("UNDEF")
		return
	}
	c.Term.Key(b)
}

// Str implements the STR function: the lexical form of a literal, or the
// string form of an IRI, as a simple literal.
type Str struct {
	Arg Expression
}

func (*Str) anExpression() {}

// Evaluate implements Expression.
func (s *Str) Evaluate(ctx Context, id int) (rdf.Term, error) {
	v, err := evalOperand(ctx, id, s, s.Arg)
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case *rdf.Literal:
		return rdf.NewString(v.Lexical), nil
	case *rdf.IRI:
		return rdf.NewString(v.Value), nil
	}
	return nil, Errorf(s, "STR is not defined for %v", v)
}

// Variables implements Expression.
func (s *Str) Variables() plandef.VarSet {
	return s.Arg.Variables()
}

func (s *Str) String() string {
	return "STR(" + s.Arg.String() + ")"
}

// Key implements cmp.Key.
func (s *Str) Key(b *strings.Builder) {
	writeCall(b, "STR", s.Arg)
}

// Lang implements the LANG function: the language tag of a literal, or "" if
// it has none.
type Lang struct {
	Arg Expression
}

func (*Lang) anExpression() {}

// Evaluate implements Expression.
func (l *Lang) Evaluate(ctx Context, id int) (rdf.Term, error) {
	v, err := evalOperand(ctx, id, l, l.Arg)
	if err != nil {
		return nil, err
	}
	lit, ok := v.(*rdf.Literal)
	if !ok {
		return nil, Errorf(l, "LANG requires a literal, got %v", v)
	}
	return rdf.NewString(lit.Lang), nil
}

// Variables implements Expression.
func (l *Lang) Variables() plandef.VarSet {
	return l.Arg.Variables()
}

func (l *Lang) String() string {
	return "LANG(" + l.Arg.String() + ")"
}

// Key implements cmp.Key.
func (l *Lang) Key(b *strings.Builder) {
	writeCall(b, "LANG", l.Arg)
}

// Datatype implements the DATATYPE function: the datatype IRI of a literal.
type Datatype struct {
	Arg Expression
}

func (*Datatype) anExpression() {}

// Evaluate implements Expression.
func (d *Datatype) Evaluate(ctx Context, id int) (rdf.Term, error) {
	v, err := evalOperand(ctx, id, d, d.Arg)
	if err != nil {
		return nil, err
	}
	lit, ok := v.(*rdf.Literal)
	if !ok {
		return nil, Errorf(d, "DATATYPE requires a literal, got %v", v)
	}
	return &rdf.IRI{Value: lit.EffectiveDatatype()}, nil
}

// Variables implements Expression.
func (d *Datatype) Variables() plandef.VarSet {
	return d.Arg.Variables()
}

func (d *Datatype) String() string {
	return "DATATYPE(" + d.Arg.String() + ")"
}

// Key implements cmp.Key.
func (d *Datatype) Key(b *strings.Builder) {
	writeCall(b, "DATATYPE", d.Arg)
}

func writeCall(b *strings.Builder, fn string, arg Expression) {
	b.WriteString(fn)
	b.WriteByte('(')
	arg.Key(b)
	b.WriteByte(')')
}
