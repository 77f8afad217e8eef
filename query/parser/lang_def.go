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

package parser

import (
	"strings"

	"github.com/ebay/sparqlcore/query/expr"
	"github.com/ebay/sparqlcore/query/plandef"
	"github.com/ebay/sparqlcore/rdf"
	p "github.com/vektah/goparsify"
	"golang.org/x/text/unicode/norm"
)

var (
	// term is the parser function called by ParseTerm. It extracts a single
	// IRI, blank node, variable, or literal.
	term p.Parser
	// triple is the parser function called by ParseTriple. It extracts a
	// subject, predicate, and object, optionally followed by a '.'.
	triple p.Parser
	// expression is the parser function called by ParseExpression.
	expression p.Parser
	// orderCondition is the parser function called by ParseOrderCondition.
	orderCondition p.Parser
	// groupCondition is the parser function called by ParseGroupCondition.
	groupCondition p.Parser
)

func init() {
	// If you need to debug what the parser is doing, you can enable goparsify's
	// built in debug support by building with -tags debug. See the docs for
	// more details https://github.com/vektah/goparsify#debugging-parsers

	iri := scanner("IRI", scanIRI).Map(func(n *p.Result) { // <http://example.com/a>
		n.Result = &rdf.IRI{Value: norm.NFC.String(n.Result.(string))}
	})
	prefixedName := scanner("prefixed name", scanPrefixedName).Map(func(n *p.Result) { // xsd:integer
		n.Result = &rdf.IRI{Value: n.Result.(string)}
	})
	blank := scanner("blank node", scanBlank).Map(func(n *p.Result) { // _:b1
		n.Result = &rdf.Blank{Label: n.Result.(string)}
	})
	variable := scanner("variable", scanVariable).Map(func(n *p.Result) { // ?s
		n.Result = &rdf.Variable{Name: norm.NFC.String(n.Result.(string))}
	})
	datatype := p.Seq("^^", p.Any(iri, prefixedName)).Map(child(1)) // ^^xsd:date
	lang := scanner("language tag", scanLangTag)                      // @en
	literalString := p.Seq(p.StringLit(`"'`), p.Maybe(p.Any(lang, datatype))).Map(literalString)
	literalNumber := scanner("number", scanNumber).Map(literalNumber) // 9 || 3.14 || 1e6
	literalBool := p.Any(keyword("true"), keyword("false")).Map(literalBool)

	term = p.Any(iri, blank, variable, literalString, literalNumber, literalBool, prefixedName)
	triple = p.Seq(term, term, term, p.Maybe(".")).Map(tripleResult)

	// expression is recursive, so sub-expressions are parsed through this
	// indirection.
	var subExpr p.Parser = func(s *p.State, r *p.Result) {
		expression(s, r)
	}
	operator := p.Any(
		p.Exact("!=").Map(result(expr.Ne)),
		p.Exact("<=").Map(result(expr.Le)),
		p.Exact(">=").Map(result(expr.Ge)),
		p.Exact("=").Map(result(expr.Eq)),
		p.Exact("<").Map(result(expr.Lt)),
		p.Exact(">").Map(result(expr.Gt)),
		p.Exact("+").Map(result(expr.Add)),
		p.Exact("-").Map(result(expr.Sub)),
		p.Exact("*").Map(result(expr.Mul)),
		p.Exact("/").Map(result(expr.Div)))
	binary := p.Seq("(", subExpr, operator, subExpr, ")").Map(binaryExpr) // (?a + 1)
	bracketed := p.Seq("(", subExpr, ")").Map(child(1))                   // (?a)
	call := func(name string, build func(expr.Expression) expr.Expression) p.Parser {
		return p.Seq(keyword(name), "(", subExpr, ")").Map(func(n *p.Result) {
			n.Result = build(n.Child[2].Result.(expr.Expression))
		})
	}
	str := call("STR", func(e expr.Expression) expr.Expression { return &expr.Str{Arg: e} })
	langOf := call("LANG", func(e expr.Expression) expr.Expression { return &expr.Lang{Arg: e} })
	datatypeOf := call("DATATYPE", func(e expr.Expression) expr.Expression { return &expr.Datatype{Arg: e} })
	ifExpr := p.Seq(keyword("IF"), "(", subExpr, ",", subExpr, ",", subExpr, ")").Map(ifExpr)
	functionCall := p.Any(str, langOf, datatypeOf, ifExpr)
	operand := term.Map(operandExpr)
	expression = p.Any(binary, bracketed, functionCall, operand)

	ascending := p.Seq(keyword("ASC"), "(", expression, ")").Map(orderResult(plandef.SortAsc))
	descending := p.Seq(keyword("DESC"), "(", expression, ")").Map(orderResult(plandef.SortDesc))
	orderCondition = p.Any(ascending, descending,
		p.Any(variable.Map(operandExpr), bracketed, binary, functionCall).Map(func(n *p.Result) {
			n.Result = OrderCondition{Expr: n.Result.(expr.Expression), Direction: plandef.SortAsc}
		}))

	boundExpr := p.Seq("(", expression, keyword("AS"), variable, ")").Map(boundExpr) // (?x AS ?y)
	groupCondition = p.Any(boundExpr,
		p.Any(variable.Map(operandExpr), binary, bracketed, functionCall).Map(func(n *p.Result) {
			n.Result = GroupCondition{Expr: n.Result.(expr.Expression)}
		}))
}

func literalString(n *p.Result) {
	lit := &rdf.Literal{Lexical: norm.NFC.String(n.Child[0].Token)}
	switch v := n.Child[1].Result.(type) {
	case nil:
	case langTag:
		lit.Lang = string(v)
	case *rdf.IRI:
		if v.Value != rdf.XSDString {
			lit.Datatype = v.Value
		}
	}
	n.Result = lit
}

func literalNumber(n *p.Result) {
	num := n.Result.(numberLit)
	n.Result = rdf.NewTyped(num.lexical, num.datatype)
}

func literalBool(n *p.Result) {
	n.Result = rdf.NewBoolean(strings.EqualFold(n.Token, "true"))
}

func tripleResult(n *p.Result) {
	n.Result = rdf.Triple{
		Subject:   n.Child[0].Result.(rdf.Term),
		Predicate: n.Child[1].Result.(rdf.Term),
		Object:    n.Child[2].Result.(rdf.Term),
	}
}

// operandExpr turns a term into an expression: variables are read from the
// solution and everything else is a constant.
func operandExpr(n *p.Result) {
	if v, ok := n.Result.(*rdf.Variable); ok {
		n.Result = &expr.Var{Name: v.Name}
		return
	}
	n.Result = &expr.Const{Term: n.Result.(rdf.Term)}
}

func binaryExpr(n *p.Result) {
	left := n.Child[1].Result.(expr.Expression)
	right := n.Child[3].Result.(expr.Expression)
	switch op := n.Child[2].Result.(type) {
	case expr.ArithOp:
		n.Result = &expr.Arith{Op: op, Left: left, Right: right}
	case expr.CompareOp:
		n.Result = &expr.Compare{Op: op, Left: left, Right: right}
	}
}

func ifExpr(n *p.Result) {
	n.Result = &expr.If{
		Cond: n.Child[2].Result.(expr.Expression),
		Then: n.Child[4].Result.(expr.Expression),
		Else: n.Child[6].Result.(expr.Expression),
	}
}

func orderResult(direction plandef.SortDirection) func(*p.Result) {
	return func(n *p.Result) {
		n.Result = OrderCondition{
			Expr:      n.Child[2].Result.(expr.Expression),
			Direction: direction,
		}
	}
}

func boundExpr(n *p.Result) {
	n.Result = GroupCondition{
		Expr: n.Child[1].Result.(expr.Expression),
		As:   n.Child[3].Result.(*rdf.Variable).Name,
	}
}
