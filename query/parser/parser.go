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

// Package parser parses the textual forms of terms, triple patterns, and
// GROUP BY and ORDER BY conditions. Binary operators in expressions must be
// enclosed in parentheses, as in "(?a + 1)". It doesn't parse whole SPARQL
// queries.
package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ebay/sparqlcore/query/expr"
	"github.com/ebay/sparqlcore/query/plandef"
	"github.com/ebay/sparqlcore/rdf"
	"github.com/vektah/goparsify"
)

// An OrderCondition is one key of an ORDER BY clause.
type OrderCondition struct {
	// Expr is the key. A plain variable is an *expr.Var.
	Expr      expr.Expression
	Direction plandef.SortDirection
}

// String returns the condition in SPARQL syntax.
func (c OrderCondition) String() string {
	if _, isVar := c.Expr.(*expr.Var); isVar && c.Direction == plandef.SortAsc {
		return c.Expr.String()
	}
	return fmt.Sprintf("%v(%v)", c.Direction, c.Expr)
}

// A GroupCondition is one key of a GROUP BY clause.
type GroupCondition struct {
	// Expr is the key. A plain variable is an *expr.Var.
	Expr expr.Expression
	// As is the name of the variable the key is assigned to, or empty.
	As string
}

// String returns the condition in SPARQL syntax.
func (c GroupCondition) String() string {
	if c.As != "" {
		return fmt.Sprintf("(%v AS ?%s)", c.Expr, c.As)
	}
	return c.Expr.String()
}

// ParseError describes the input that couldn't be parsed.
type ParseError struct {
	// ParseType is what was being parsed, like "term".
	ParseType string
	Input     string
	// Offset is the byte offset into Input where parsing failed.
	Offset int
	// Line and Column locate Offset. Both start at 1, and Column counts
	// characters rather than bytes.
	Line, Column int
	Details      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parser: invalid %s at line %d, column %d: %s",
		e.ParseType, e.Line, e.Column, e.Details)
}

func newParseError(parseType, input string, err error) *ParseError {
	res := &ParseError{
		ParseType: parseType,
		Input:     input,
		Details:   err.Error(),
	}
	switch err := err.(type) {
	case *goparsify.Error:
		res.Offset = err.Pos()
	case goparsify.UnparsedInputError:
		res.Offset = len(input) - len(err.Remaining)
		res.Details = "unexpected trailing input"
	}
	if res.Offset > len(input) {
		res.Offset = len(input)
	}
	before := input[:res.Offset]
	res.Line = strings.Count(before, "\n") + 1
	res.Column = utf8.RuneCountInString(before[strings.LastIndexByte(before, '\n')+1:]) + 1
	return res
}

// run parses all of 'input' with 'parser'.
func run(parseType string, parser goparsify.Parser, input string) (interface{}, error) {
	res, err := goparsify.Run(parser, input, sparqlWS)
	if err != nil {
		return nil, newParseError(parseType, input, err)
	}
	return res, nil
}

// ParseTerm parses a single IRI, blank node, variable, or literal, such as
// <http://example.com/a>, _:b1, ?x, "chat"@fr, "5"^^xsd:integer, 3.14, or true.
// Prefixed names may use the rdf and xsd prefixes.
func ParseTerm(input string) (rdf.Term, error) {
	res, err := run("term", term, input)
	if err != nil {
		return nil, err
	}
	return res.(rdf.Term), nil
}

// ParseTriple parses a triple pattern of three terms, optionally followed by a
// '.', such as "?s <p> 5 .".
func ParseTriple(input string) (rdf.Triple, error) {
	res, err := run("triple", triple, input)
	if err != nil {
		return rdf.Triple{}, err
	}
	return res.(rdf.Triple), nil
}

// ParseExpression parses an expression, such as "STR(?x)" or "(?a * 2)".
func ParseExpression(input string) (expr.Expression, error) {
	res, err := run("expression", expression, input)
	if err != nil {
		return nil, err
	}
	return res.(expr.Expression), nil
}

// ParseOrderCondition parses a single ORDER BY key, such as "?x", "DESC(?x)",
// or "ASC(STR(?x))".
func ParseOrderCondition(input string) (OrderCondition, error) {
	res, err := run("order condition", orderCondition, input)
	if err != nil {
		return OrderCondition{}, err
	}
	return res.(OrderCondition), nil
}

// ParseGroupCondition parses a single GROUP BY key, such as "?x", "STR(?x)",
// or "(LANG(?x) AS ?lang)".
func ParseGroupCondition(input string) (GroupCondition, error) {
	res, err := run("group condition", groupCondition, input)
	if err != nil {
		return GroupCondition{}, err
	}
	return res.(GroupCondition), nil
}
