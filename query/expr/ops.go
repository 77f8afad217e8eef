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

package expr

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/ebay/sparqlcore/query/plandef"
	"github.com/ebay/sparqlcore/rdf"
)

// ArithOp is a binary arithmetic operator.
type ArithOp int

// Possible values for ArithOp.
const (
	Add ArithOp = iota + 1
	Sub
	Mul
	Div
)

func (op ArithOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	}
	return fmt.Sprintf("ArithOp(%d)", int(op))
}

// decimalCtx is used for xsd:integer and xsd:decimal arithmetic.
var decimalCtx = apd.BaseContext.WithPrecision(34)

// Arith applies an arithmetic operator to two numeric operands. Operands are
// promoted to the higher of their numeric types, except that dividing two
// integers produces a decimal.
type Arith struct {
	Op          ArithOp
	Left, Right Expression
}

func (*Arith) anExpression() {}

// Evaluate implements Expression.
func (a *Arith) Evaluate(ctx Context, id int) (rdf.Term, error) {
	left, err := a.numericOperand(ctx, id, a.Left)
	if err != nil {
		return nil, err
	}
	right, err := a.numericOperand(ctx, id, a.Right)
	if err != nil {
		return nil, err
	}
	as := max(left.NumericType(), right.NumericType())
	if a.Op == Div && as == rdf.Integer {
		as = rdf.Decimal
	}
	if as == rdf.Integer || as == rdf.Decimal {
		return a.evalDecimal(left, right, as)
	}
	return a.evalFloat(left, right, as)
}

func (a *Arith) numericOperand(ctx Context, id int, arg Expression) (*rdf.Literal, error) {
	v, err := evalOperand(ctx, id, a, arg)
	if err != nil {
		return nil, err
	}
	lit, ok := v.(*rdf.Literal)
	if !ok || lit.NumericType() == rdf.NotNumeric {
		return nil, Errorf(a, "%v is not a number", v)
	}
	return lit, nil
}

func (a *Arith) evalDecimal(left, right *rdf.Literal, as rdf.NumericType) (rdf.Term, error) {
	x, err := left.DecimalValue()
	if err != nil {
		return nil, Errorf(a, "%v", err)
	}
	y, err := right.DecimalValue()
	if err != nil {
		return nil, Errorf(a, "%v", err)
	}
	res := new(apd.Decimal)
	switch a.Op {
	case Add:
		_, err = decimalCtx.Add(res, x, y)
	case Sub:
		_, err = decimalCtx.Sub(res, x, y)
	case Mul:
		_, err = decimalCtx.Mul(res, x, y)
	case Div:
		if y.IsZero() {
			return nil, Errorf(a, "division by zero")
		}
		_, err = decimalCtx.Quo(res, x, y)
	default:
		return nil, Errorf(a, "unknown arithmetic operator %v", a.Op)
	}
	if err != nil {
		return nil, Errorf(a, "%v", err)
	}
	if as == rdf.Integer {
		return rdf.NewTyped(res.Text('f'), rdf.XSDInteger), nil
	}
	res.Reduce(res)
	s := res.Text('f')
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return rdf.NewTyped(s, rdf.XSDDecimal), nil
}

func (a *Arith) evalFloat(left, right *rdf.Literal, as rdf.NumericType) (rdf.Term, error) {
	x, err := left.FloatValue()
	if err != nil {
		return nil, Errorf(a, "%v", err)
	}
	y, err := right.FloatValue()
	if err != nil {
		return nil, Errorf(a, "%v", err)
	}
	var res float64
	switch a.Op {
	case Add:
		res = x + y
	case Sub:
		res = x - y
	case Mul:
		res = x * y
	case Div:
		res = x / y
	default:
		return nil, Errorf(a, "unknown arithmetic operator %v", a.Op)
	}
	if as == rdf.Float {
		res = float64(float32(res))
		lit := rdf.NewDouble(res)
		lit.Datatype = rdf.XSDFloat
		return lit, nil
	}
	return rdf.NewDouble(res), nil
}

// Variables implements Expression.
func (a *Arith) Variables() plandef.VarSet {
	return a.Left.Variables().Union(a.Right.Variables())
}

// String returns a string like "(?a + 1)".
func (a *Arith) String() string {
	return fmt.Sprintf("(%v %v %v)", a.Left, a.Op, a.Right)
}

// Key implements cmp.Key.
func (a *Arith) Key(b *strings.Builder) {
	writeBinary(b, a.Op.String(), a.Left, a.Right)
}

func writeBinary(b *strings.Builder, op string, left, right Expression) {
	b.WriteByte('(')
	left.Key(b)
	b.WriteByte(' ')
	b.WriteString(op)
	b.WriteByte(' ')
	right.Key(b)
	b.WriteByte(')')
}

// CompareOp is a relational operator.
type CompareOp int

// Possible values for CompareOp.
const (
	Eq CompareOp = iota + 1
	Ne
	Lt
	Le
	Gt
	Ge
)

func (op CompareOp) String() string {
	switch op {
	case Eq:
		return "="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	}
	return fmt.Sprintf("CompareOp(%d)", int(op))
}

// Compare applies a relational operator to two operands and returns an
// xsd:boolean. Ordering operators fail on operands that SPARQL can't order;
// = and != fall back to RDF term equality where possible.
type Compare struct {
	Op          CompareOp
	Left, Right Expression
}

func (*Compare) anExpression() {}

// Evaluate implements Expression.
func (c *Compare) Evaluate(ctx Context, id int) (rdf.Term, error) {
	x, err := evalOperand(ctx, id, c, c.Left)
	if err != nil {
		return nil, err
	}
	y, err := evalOperand(ctx, id, c, c.Right)
	if err != nil {
		return nil, err
	}
	res, ok := ctx.NodeComparer().TryCompare(x, y)
	if !ok {
		if c.Op != Eq && c.Op != Ne {
			return nil, Errorf(c, "%v and %v are not comparable", x, y)
		}
		// Distinct literals whose values are unknown might still be equal.
		_, xlit := x.(*rdf.Literal)
		_, ylit := y.(*rdf.Literal)
		if xlit && ylit {
			return nil, Errorf(c, "cannot test %v and %v for equality", x, y)
		}
		res = 1
	}
	var v bool
	switch c.Op {
	case Eq:
		v = res == 0
	case Ne:
		v = res != 0
	case Lt:
		v = res < 0
	case Le:
		v = res <= 0
	case Gt:
		v = res > 0
	case Ge:
		v = res >= 0
	default:
		return nil, Errorf(c, "unknown comparison operator %v", c.Op)
	}
	return rdf.NewBoolean(v), nil
}

// Variables implements Expression.
func (c *Compare) Variables() plandef.VarSet {
	return c.Left.Variables().Union(c.Right.Variables())
}

// String returns a string like "(?a < 3)".
func (c *Compare) String() string {
	return fmt.Sprintf("(%v %v %v)", c.Left, c.Op, c.Right)
}

// Key implements cmp.Key.
func (c *Compare) Key(b *strings.Builder) {
	writeBinary(b, c.Op.String(), c.Left, c.Right)
}
