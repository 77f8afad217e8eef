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
	"math"
	"testing"

	"github.com/ebay/sparqlcore/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_If(t *testing.T) {
	ctx := newTestContext(t, map[string]rdf.Term{
		"yes": rdf.NewBoolean(true),
		"no":  rdf.NewInteger(0),
		"iri": &rdf.IRI{Value: "http://a"},
		"x":   rdf.NewString("x"),
		"u":   nil,
	})
	v := func(name string) Expression { return &Var{Name: name} }
	other := &Const{Term: rdf.NewString("other")}

	res, err := (&If{Cond: v("yes"), Then: v("x"), Else: other}).Evaluate(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, rdf.NewString("x"), res)

	res, err = (&If{Cond: v("no"), Then: v("x"), Else: other}).Evaluate(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, rdf.NewString("other"), res)

	res, err = (&If{Cond: v("yes"), Then: v("u"), Else: other}).Evaluate(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, res)

	// The branch not taken isn't evaluated, so its errors don't matter.
	res, err = (&If{Cond: v("yes"), Then: v("x"), Else: &Str{Arg: v("u")}}).Evaluate(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, rdf.NewString("x"), res)

	for _, cond := range []Expression{v("iri"), v("u")} {
		_, err := (&If{Cond: cond, Then: v("x"), Else: other}).Evaluate(ctx, 1)
		require.Error(t, err)
		assert.True(t, IsError(err), "%v", err)
	}

	e := &If{Cond: v("yes"), Then: v("x"), Else: other}
	assert.Equal(t, `IF(?yes, ?x, "other")`, e.String())
	assert.Equal(t, "?x ?yes", e.Variables().String())
}

func Test_EffectiveBool(t *testing.T) {
	tests := []struct {
		term   rdf.Term
		exp    bool
		expErr bool
	}{
		{term: rdf.NewBoolean(true), exp: true},
		{term: rdf.NewBoolean(false), exp: false},
		{term: rdf.NewTyped("maybe", rdf.XSDBoolean), exp: false},
		{term: rdf.NewString(""), exp: false},
		{term: rdf.NewString("a"), exp: true},
		{term: &rdf.Literal{Lexical: "chat", Lang: "fr"}, exp: true},
		{term: rdf.NewInteger(0), exp: false},
		{term: rdf.NewInteger(-3), exp: true},
		{term: rdf.NewTyped("0.00", rdf.XSDDecimal), exp: false},
		{term: rdf.NewTyped("abc", rdf.XSDInteger), exp: false},
		{term: rdf.NewDouble(math.NaN()), exp: false},
		{term: rdf.NewDouble(0.5), exp: true},
		{term: &rdf.IRI{Value: "http://a"}, expErr: true},
		{term: rdf.NewTyped("x", "http://ex/dt"), expErr: true},
		{term: nil, expErr: true},
	}
	for _, test := range tests {
		t.Run(fmtTerm(test.term), func(t *testing.T) {
			res, err := EffectiveBool(test.term)
			if test.expErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.exp, res)
		})
	}
}

func fmtTerm(t rdf.Term) string {
	if t == nil {
		return "UNDEF"
	}
	return t.String()
}
