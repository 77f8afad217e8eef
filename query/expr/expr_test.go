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
	"errors"
	"fmt"
	"testing"

	"github.com/ebay/sparqlcore/query/binding"
	"github.com/ebay/sparqlcore/query/plandef"
	"github.com/ebay/sparqlcore/rdf"
	"github.com/ebay/sparqlcore/util/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testContext struct {
	binder *binding.Multiset
	nodes  *rdf.NodeComparer
}

func (c *testContext) Binder() binding.Binder {
	return c.binder
}

func (c *testContext) NodeComparer() *rdf.NodeComparer {
	return c.nodes
}

// newTestContext returns a context with a single solution, ID 1, binding the
// given variables.
func newTestContext(t *testing.T, values map[string]rdf.Term) *testContext {
	var cols []string
	for name := range values {
		cols = append(cols, name)
	}
	m := binding.NewMultiset(plandef.NewVarSet(cols...)...)
	_, err := m.AddMap(values)
	require.NoError(t, err)
	return &testContext{binder: m, nodes: rdf.NewNodeComparer(rdf.CompareOptions{})}
}

func Test_Evaluate(t *testing.T) {
	ctx := newTestContext(t, map[string]rdf.Term{
		"i":    rdf.NewInteger(7),
		"j":    rdf.NewInteger(2),
		"d":    rdf.NewTyped("1.5", rdf.XSDDecimal),
		"f":    rdf.NewTyped("0.5", rdf.XSDFloat),
		"dbl":  rdf.NewTyped("2", rdf.XSDDouble),
		"s":    rdf.NewString("abc"),
		"l":    &rdf.Literal{Lexical: "chat", Lang: "fr"},
		"iri":  &rdf.IRI{Value: "http://a"},
		"iri2": &rdf.IRI{Value: "http://b"},
		"bn":   &rdf.Blank{Label: "b"},
		"u":    nil,
	})
	v := func(name string) Expression { return &Var{Name: name} }
	tests := []struct {
		expr Expression
		exp  rdf.Term
	}{
		{v("i"), rdf.NewInteger(7)},
		{v("u"), nil},
		{v("missing"), nil},
		{&Const{Term: rdf.NewString("k")}, rdf.NewString("k")},
		{&Str{Arg: v("iri")}, rdf.NewString("http://a")},
		{&Str{Arg: v("l")}, rdf.NewString("chat")},
		{&Lang{Arg: v("l")}, rdf.NewString("fr")},
		{&Lang{Arg: v("s")}, rdf.NewString("")},
		{&Datatype{Arg: v("i")}, &rdf.IRI{Value: rdf.XSDInteger}},
		{&Datatype{Arg: v("s")}, &rdf.IRI{Value: rdf.XSDString}},
		{&Arith{Op: Add, Left: v("i"), Right: v("j")}, rdf.NewInteger(9)},
		{&Arith{Op: Sub, Left: v("j"), Right: v("i")}, rdf.NewInteger(-5)},
		{&Arith{Op: Mul, Left: v("i"), Right: v("j")}, rdf.NewInteger(14)},
		{&Arith{Op: Div, Left: v("i"), Right: v("j")}, rdf.NewTyped("3.5", rdf.XSDDecimal)},
		{&Arith{Op: Div, Left: v("j"), Right: v("j")}, rdf.NewTyped("1.0", rdf.XSDDecimal)},
		{&Arith{Op: Add, Left: v("i"), Right: v("d")}, rdf.NewTyped("8.5", rdf.XSDDecimal)},
		{&Arith{Op: Mul, Left: v("f"), Right: v("j")}, rdf.NewTyped("1E+00", rdf.XSDFloat)},
		{&Arith{Op: Div, Left: v("i"), Right: v("dbl")}, rdf.NewDouble(3.5)},
		{&Compare{Op: Lt, Left: v("j"), Right: v("i")}, rdf.NewBoolean(true)},
		{&Compare{Op: Ge, Left: v("j"), Right: v("d")}, rdf.NewBoolean(true)},
		{&Compare{Op: Eq, Left: v("dbl"), Right: v("j")}, rdf.NewBoolean(true)},
		{&Compare{Op: Ne, Left: v("i"), Right: v("j")}, rdf.NewBoolean(true)},
		{&Compare{Op: Le, Left: v("s"), Right: &Const{Term: rdf.NewString("abd")}}, rdf.NewBoolean(true)},
		{&Compare{Op: Gt, Left: v("s"), Right: &Const{Term: rdf.NewString("abd")}}, rdf.NewBoolean(false)},
		{&Compare{Op: Eq, Left: v("iri"), Right: v("iri2")}, rdf.NewBoolean(false)},
		{&Compare{Op: Ne, Left: v("iri"), Right: v("s")}, rdf.NewBoolean(true)},
	}
	for _, test := range tests {
		t.Run(test.expr.String(), func(t *testing.T) {
			res, err := test.expr.Evaluate(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, test.exp, res)
		})
	}
}

func Test_Evaluate_errors(t *testing.T) {
	ctx := newTestContext(t, map[string]rdf.Term{
		"i":  rdf.NewInteger(7),
		"z":  rdf.NewInteger(0),
		"s":  rdf.NewString("abc"),
		"bn": &rdf.Blank{Label: "b"},
		"x":  rdf.NewTyped("x", "http://ex/dt"),
		"y":  rdf.NewTyped("y", "http://ex/dt"),
		"u":  nil,
	})
	v := func(name string) Expression { return &Var{Name: name} }
	tests := []struct {
		expr   Expression
		expMsg string
	}{
		{&Str{Arg: v("u")}, "?u is unbound"},
		{&Str{Arg: v("bn")}, "STR is not defined for _:b"},
		{&Lang{Arg: v("bn")}, "LANG requires a literal, got _:b"},
		{&Datatype{Arg: &Const{Term: &rdf.IRI{Value: "a"}}}, "DATATYPE requires a literal, got <a>"},
		{&Arith{Op: Add, Left: v("i"), Right: v("s")}, `"abc" is not a number`},
		{&Arith{Op: Add, Left: v("u"), Right: v("i")}, "?u is unbound"},
		{&Arith{Op: Div, Left: v("i"), Right: v("z")}, "division by zero"},
		{&Arith{Op: Add, Left: &Str{Arg: v("u")}, Right: v("i")}, "?u is unbound"},
		{&Compare{Op: Lt, Left: v("i"), Right: v("s")}, "are not comparable"},
		{&Compare{Op: Eq, Left: v("x"), Right: v("y")}, "cannot test"},
		{&Arith{Left: v("i"), Right: v("z")}, "unknown arithmetic operator ArithOp(0)"},
		{&Arith{Op: 9, Left: &Const{Term: rdf.NewDouble(1)}, Right: v("i")}, "unknown arithmetic operator ArithOp(9)"},
		{&Compare{Left: v("i"), Right: v("z")}, "unknown comparison operator CompareOp(0)"},
	}
	for _, test := range tests {
		t.Run(test.expr.String(), func(t *testing.T) {
			res, err := test.expr.Evaluate(ctx, 1)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, IsError(err))
			assert.Contains(t, err.Error(), test.expMsg)
		})
	}
}

func Test_Arith_divideDoubleByZero(t *testing.T) {
	ctx := newTestContext(t, map[string]rdf.Term{"d": rdf.NewDouble(1)})
	res, err := (&Arith{Op: Div, Left: &Var{Name: "d"}, Right: &Const{Term: rdf.NewDouble(0)}}).Evaluate(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, rdf.NewTyped("INF", rdf.XSDDouble), res)
}

func Test_IsError(t *testing.T) {
	assert := assert.New(t)
	e := Errorf(&Var{Name: "x"}, "bad %d", 1)
	assert.True(IsError(e))
	assert.True(IsError(fmt.Errorf("wrapped: %w", e)))
	assert.False(IsError(errors.New("other")))
	assert.False(IsError(nil))
	assert.Equal("error evaluating ?x: bad 1", e.Error())
}

func Test_StringsAndKeys(t *testing.T) {
	e := &Compare{
		Op:    Le,
		Left:  &Arith{Op: Mul, Left: &Var{Name: "a"}, Right: &Const{Term: rdf.NewInteger(2)}},
		Right: &Str{Arg: &Lang{Arg: &Datatype{Arg: &Var{Name: "b"}}}},
	}
	assert.Equal(t, `((?a * "2"^^xsd:integer) <= STR(LANG(DATATYPE(?b))))`, e.String())
	assert.Equal(t, `((?a * "2"^^<http://www.w3.org/2001/XMLSchema#integer>) <= STR(LANG(DATATYPE(?b))))`,
		cmp.GetKey(e))
	assert.Equal(t, plandef.VarSet{"a", "b"}, e.Variables())
	assert.Nil(t, (&Const{}).Variables())
	assert.Equal(t, "UNDEF", (&Const{}).String())
	assert.Equal(t, "UNDEF", cmp.GetKey(&Const{}))
	assert.Equal(t, "ArithOp(9)", ArithOp(9).String())
	assert.Equal(t, "CompareOp(9)", CompareOp(9).String())
}
