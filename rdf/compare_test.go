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

package rdf

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func mustLang(t *testing.T, s, tag string) *Literal {
	lit, err := NewLangString(s, tag)
	if err != nil {
		t.Fatalf("NewLangString(%q, %q): %v", s, tag, err)
	}
	return lit
}

func Test_NodeComparer_TryCompare(t *testing.T) {
	iriA := &IRI{Value: "http://a"}
	iriB := &IRI{Value: "http://b"}
	tests := []struct {
		name  string
		x, y  Term
		exp   int
		expOk bool
	}{
		{"nil", nil, NewString("a"), 0, false},
		{"kinds", iriA, NewString("a"), 0, false},
		{"sameIRI", iriA, &IRI{Value: "http://a"}, 0, true},
		{"diffIRI", iriA, iriB, 0, false},
		{"blank", &Blank{Label: "x"}, &Blank{Label: "x"}, 0, true},
		{"strings", NewString("a"), NewString("b"), -1, true},
		{"langStrings", mustLang(t, "b", "en"), NewString("a"), 1, true},
		{"stringVsNumber", NewString("1"), NewInteger(1), 0, false},
		{"numberVsString", NewInteger(1), NewString("1"), 0, false},
		{"integers", NewInteger(2), NewInteger(10), -1, true},
		{"intVsDecimal", NewInteger(2), NewTyped("1.5", XSDDecimal), 1, true},
		{"decimalEqual", NewTyped("1.0", XSDDecimal), NewInteger(1), 0, true},
		{"intVsDouble", NewInteger(1), NewTyped("1.0E0", XSDDouble), 0, true},
		{"floatVsDouble", NewTyped("0.5", XSDFloat), NewTyped("0.25", XSDDouble), 1, true},
		{"numberVsBool", NewInteger(1), NewBoolean(true), 0, false},
		{"badNumberSame", NewTyped("x", XSDInteger), NewTyped("x", XSDInteger), 0, true},
		{"badNumberDiff", NewTyped("x", XSDInteger), NewInteger(1), 0, false},
		{"bools", NewBoolean(false), NewBoolean(true), -1, true},
		{"dates", NewTyped("2019-01-02", XSDDate), NewTyped("2019-01-01Z", XSDDate), 1, true},
		{"dateTimes", NewTyped("2019-01-01T10:00:00Z", XSDDateTime),
			NewTyped("2019-01-01T11:00:00+02:00", XSDDateTime), 1, true},
		{"dateTimeZoneMismatch", NewTyped("2019-01-01T10:00:00Z", XSDDateTime),
			NewTyped("2019-01-01T10:00:00", XSDDateTime), 0, false},
		{"dateVsDateTime", NewTyped("2019-01-02", XSDDate),
			NewTyped("2019-01-01T23:00:00", XSDDateTime), 1, true},
		{"unknownSame", NewTyped("x", "http://ex/dt"), NewTyped("x", "http://ex/dt"), 0, true},
		{"unknownDiff", NewTyped("x", "http://ex/dt"), NewTyped("y", "http://ex/dt"), 0, false},
		{"boolVsDate", NewBoolean(true), NewTyped("2019-01-01", XSDDate), 0, false},
	}
	c := NewNodeComparer(CompareOptions{})
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, ok := c.TryCompare(test.x, test.y)
			assert.Equal(t, test.expOk, ok)
			if ok {
				assert.Equal(t, test.exp, res)
			}
		})
	}
}

func Test_NodeComparer_collation(t *testing.T) {
	assert := assert.New(t)
	ordinal := NewNodeComparer(CompareOptions{})
	res, _ := ordinal.TryCompare(NewString("B"), NewString("a"))
	assert.Equal(-1, res)
	res, _ = ordinal.TryCompare(NewString("é"), NewString("é"))
	assert.Equal(0, res, "NFC normalization should make these equal")

	english := NewNodeComparer(CompareOptions{Language: language.English})
	res, _ = english.TryCompare(NewString("B"), NewString("a"))
	assert.Equal(1, res)

	folded := NewNodeComparer(CompareOptions{Language: language.English, IgnoreCase: true})
	res, _ = folded.TryCompare(NewString("A"), NewString("a"))
	assert.Equal(0, res)
	assert.True(folded.Options().IgnoreCase)

	numeric := NewNodeComparer(CompareOptions{Numeric: true})
	res, _ = numeric.TryCompare(NewString("a10"), NewString("a2"))
	assert.Equal(1, res)
	res, _ = ordinal.TryCompare(NewString("\u00e9"), NewString("e\u0301"))
	assert.Equal(-1, res)
}

func Test_OrderingComparer_Compare(t *testing.T) {
	tests := []struct {
		name string
		x, y Term
		exp  int
	}{
		{"nils", nil, nil, 0},
		{"nilFirst", nil, &Blank{Label: "a"}, -1},
		{"nilFirstReversed", &Blank{Label: "a"}, nil, 1},
		{"blankBeforeIRI", &Blank{Label: "z"}, &IRI{Value: "a"}, -1},
		{"iriBeforeLiteral", &IRI{Value: "z"}, NewString("a"), -1},
		{"literalBeforeVariable", NewString("z"), &Variable{Name: "a"}, -1},
		{"iris", &IRI{Value: "http://b"}, &IRI{Value: "http://a"}, 1},
		{"stringBeforeNumber", NewString("z"), NewInteger(1), -1},
		{"numberAfterString", NewInteger(1), NewString("z"), 1},
		{"numbers", NewInteger(10), NewTyped("9.5", XSDDecimal), 1},
		{"numberBeforeBool", NewInteger(10), NewBoolean(false), -1},
		{"boolAfterNumber", NewBoolean(false), NewInteger(10), 1},
		{"bools", NewBoolean(true), NewBoolean(false), 1},
		{"badNumber", NewTyped("b", XSDInteger), NewTyped("a", XSDInteger), 1},
		{"zoneMismatch", NewTyped("2019-01-01T00:00:00Z", XSDDateTime),
			NewTyped("2019-01-01T00:00:00", XSDDateTime), 1},
		{"unknownTypes", NewTyped("a", "http://ex/2"), NewTyped("a", "http://ex/1"), 1},
		{"sameString", NewString("a"), NewTyped("a", XSDString), 0},
	}
	c := NewOrderingComparer(CompareOptions{})
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.exp, c.Compare(test.x, test.y))
			assert.Equal(t, -test.exp, c.Compare(test.y, test.x), "should be antisymmetric")
		})
	}
}

func Test_OrderingComparer_sort(t *testing.T) {
	terms := []Term{
		NewBoolean(true),
		NewInteger(10),
		&Variable{Name: "v"},
		NewString("b"),
		nil,
		&IRI{Value: "http://x"},
		NewTyped("2.5", XSDDecimal),
		&Blank{Label: "b0"},
		NewString("a"),
	}
	c := NewOrderingComparer(CompareOptions{})
	sort.SliceStable(terms, func(i, j int) bool {
		return c.Compare(terms[i], terms[j]) < 0
	})
	var strs []string
	for _, term := range terms {
		strs = append(strs, termString(term))
	}
	assert.Equal(t, []string{
		"UNDEF",
		"_:b0",
		"<http://x>",
		`"a"`,
		`"b"`,
		`"2.5"^^xsd:decimal`,
		`"10"^^xsd:integer`,
		`"true"^^xsd:boolean`,
		"?v",
	}, strs)
	assert.NotNil(t, c.NodeComparer())
}

func Test_NodeOrder(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(-1, NodeOrder(NewString("a"), mustLang(t, "a", "en")))
	assert.Equal(1, NodeOrder(NewString("b"), mustLang(t, "a", "en")))
	assert.Equal(0, NodeOrder(&Variable{Name: "a"}, &Variable{Name: "a"}))
	assert.Equal(-1, NodeOrder(nil, &Variable{Name: "a"}))
	assert.Equal(1, NodeOrder(&Variable{Name: "a"}, &Blank{Label: "a"}))
}
