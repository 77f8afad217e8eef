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
	"math"
	"strings"

	"github.com/ebay/sparqlcore/query/plandef"
	"github.com/ebay/sparqlcore/rdf"
)

// If evaluates Then if Cond's effective boolean value is true, and Else
// otherwise. It fails if Cond fails or has no effective boolean value. The
// branch that isn't taken is never evaluated.
type If struct {
	Cond, Then, Else Expression
}

func (*If) anExpression() {}

// Evaluate implements Expression.
func (e *If) Evaluate(ctx Context, id int) (rdf.Term, error) {
	cond, err := evalOperand(ctx, id, e, e.Cond)
	if err != nil {
		return nil, err
	}
	ok, err := EffectiveBool(cond)
	if err != nil {
		return nil, Errorf(e, "%v", err)
	}
	if ok {
		return e.Then.Evaluate(ctx, id)
	}
	return e.Else.Evaluate(ctx, id)
}

// Variables implements Expression.
func (e *If) Variables() plandef.VarSet {
	return plandef.UnionAll(e.Cond.Variables(), e.Then.Variables(), e.Else.Variables())
}

// String returns a string like "IF(?a, ?b, "c")".
func (e *If) String() string {
	return fmt.Sprintf("IF(%v, %v, %v)", e.Cond, e.Then, e.Else)
}

// Key implements cmp.Key.
func (e *If) Key(b *strings.Builder) {
	b.WriteString("IF(")
	e.Cond.Key(b)
	b.WriteString(", ")
	e.Then.Key(b)
	b.WriteString(", ")
	e.Else.Key(b)
	b.WriteByte(')')
}

// EffectiveBool returns the SPARQL effective boolean value of a term. Booleans
// and numbers with invalid lexical forms are false. Terms other than booleans,
// strings, and numbers have no effective boolean value.
func EffectiveBool(t rdf.Term) (bool, error) {
	lit, ok := t.(*rdf.Literal)
	if !ok {
		return false, fmt.Errorf("%v has no effective boolean value", t)
	}
	if lit.IsString() {
		return lit.Lexical != "", nil
	}
	switch lit.NumericType() {
	case rdf.Integer, rdf.Decimal:
		d, err := lit.DecimalValue()
		return err == nil && !d.IsZero(), nil
	case rdf.Float, rdf.Double:
		f, err := lit.FloatValue()
		return err == nil && f != 0 && !math.IsNaN(f), nil
	}
	if lit.EffectiveDatatype() == rdf.XSDBoolean {
		v, err := lit.BoolValue()
		return err == nil && v, nil
	}
	return false, fmt.Errorf("%v has no effective boolean value", t)
}
