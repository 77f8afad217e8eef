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
	"unicode"
	"unicode/utf8"

	"github.com/ebay/sparqlcore/rdf"
	"github.com/vektah/goparsify"
	"golang.org/x/text/language"
)

// prefixes are the namespaces that may be used in prefixed names.
var prefixes = map[string]string{
	"rdf": rdf.RDF,
	"xsd": rdf.XSD,
}

// scanner returns a parser that skips whitespace then calls 'scan' on the
// remaining input. 'scan' returns how many bytes it consumed and the result,
// or 0 if the input doesn't match, in which case the parser reports that it
// expected 'description'.
func scanner(description string, scan func(in string) (int, interface{})) goparsify.Parser {
	return goparsify.NewParser(description, func(s *goparsify.State, r *goparsify.Result) {
		s.WS(s)
		in := s.Get()
		n, res := scan(in)
		if n == 0 {
			s.ErrorHere(description)
			return
		}
		r.Token = in[:n]
		r.Result = res
		s.Advance(n)
	})
}

// nameLen returns the length of the prefix of 'in' made up of letters, digits,
// and underscores, plus any of the characters in 'extra'.
func nameLen(in string, extra string) int {
	i := 0
	for i < len(in) {
		r, size := utf8.DecodeRuneInString(in[i:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && !strings.ContainsRune(extra, r) {
			break
		}
		i += size
	}
	return i
}

// scanIRI matches an IRI reference like <http://example.com/a>.
func scanIRI(in string) (int, interface{}) {
	if !strings.HasPrefix(in, "<") {
		return 0, nil
	}
	end := strings.IndexAny(in[1:], "<>\"{}|^`\\ \t\r\n")
	if end < 0 || in[1+end] != '>' {
		return 0, nil
	}
	return end + 2, in[1 : 1+end]
}

// scanPrefixedName matches a name like xsd:integer and expands it to an IRI.
func scanPrefixedName(in string) (int, interface{}) {
	colon := strings.IndexByte(in, ':')
	if colon <= 0 {
		return 0, nil
	}
	ns, found := prefixes[in[:colon]]
	if !found || nameLen(in[:colon], "") != colon {
		return 0, nil
	}
	local := nameLen(in[colon+1:], "-")
	if local == 0 {
		return 0, nil
	}
	return colon + 1 + local, ns + in[colon+1:colon+1+local]
}

// scanBlank matches a blank node label like _:b1.
func scanBlank(in string) (int, interface{}) {
	if !strings.HasPrefix(in, "_:") {
		return 0, nil
	}
	n := nameLen(in[2:], "-")
	if n == 0 {
		return 0, nil
	}
	return n + 2, in[2 : 2+n]
}

// scanVariable matches a variable like ?name or $name.
func scanVariable(in string) (int, interface{}) {
	if in == "" || (in[0] != '?' && in[0] != '$') {
		return 0, nil
	}
	n := nameLen(in[1:], "")
	if n == 0 {
		return 0, nil
	}
	return n + 1, in[1 : 1+n]
}

// langTag is the result of scanLangTag.
type langTag string

// scanLangTag matches a language tag like @en-US and returns it in canonical
// form. Tags that aren't well-formed BCP 47 don't match.
func scanLangTag(in string) (int, interface{}) {
	if !strings.HasPrefix(in, "@") {
		return 0, nil
	}
	n := 1
	for n < len(in) && (isASCIILetter(in[n]) || isASCIIDigit(in[n]) || in[n] == '-') {
		n++
	}
	if n == 1 {
		return 0, nil
	}
	tag, err := language.Parse(in[1:n])
	if err != nil {
		return 0, nil
	}
	return n, langTag(tag.String())
}

// numberLit is the result of scanNumber: the lexical form and its datatype.
type numberLit struct {
	lexical  string
	datatype string
}

// scanNumber matches an integer, decimal, or double in SPARQL syntax, keeping
// its lexical form. A '.' that isn't followed by a digit isn't part of the
// number, so "1." is the integer 1 followed by a '.'.
func scanNumber(in string) (int, interface{}) {
	i := 0
	if i < len(in) && (in[i] == '+' || in[i] == '-') {
		i++
	}
	whole := digits(in[i:])
	i += whole
	datatype := rdf.XSDInteger
	if i+1 < len(in) && in[i] == '.' && isASCIIDigit(in[i+1]) {
		i += 1 + digits(in[i+1:])
		datatype = rdf.XSDDecimal
	} else if whole == 0 {
		return 0, nil
	}
	if i < len(in) && (in[i] == 'e' || in[i] == 'E') {
		j := i + 1
		if j < len(in) && (in[j] == '+' || in[j] == '-') {
			j++
		}
		if exp := digits(in[j:]); exp > 0 {
			i = j + exp
			datatype = rdf.XSDDouble
		}
	}
	return i, numberLit{lexical: in[:i], datatype: datatype}
}

func digits(in string) int {
	n := 0
	for n < len(in) && isASCIIDigit(in[n]) {
		n++
	}
	return n
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// keyword returns a parser that matches the supplied word ignoring case. The
// word must not be followed by a letter, digit, or underscore.
func keyword(word string) goparsify.Parser {
	return goparsify.NewParser("i/"+word+"/", func(s *goparsify.State, r *goparsify.Result) {
		s.WS(s)
		in := s.Get()
		if len(in) < len(word) || !strings.EqualFold(word, in[:len(word)]) ||
			nameLen(in[len(word):], "") > 0 {
			s.ErrorHere(word)
			return
		}
		s.Advance(len(word))
		r.Token = in[:len(word)]
	})
}

// sparqlWS is a goparsify Whitespace parser that understands SPARQL's
// whitespace rules. Whitespace chars are ' ' \t \r \n only. # starts a comment
// which runs to the end of the line.
func sparqlWS(s *goparsify.State) {
	for s.Pos < len(s.Input) {
		switch s.Input[s.Pos] {
		case ' ', '\t', '\r', '\n':
			s.Pos++
		case '#':
			s.Pos++
			for s.Pos < len(s.Input) {
				c := s.Input[s.Pos]
				s.Pos++
				if c == '\n' || c == '\r' {
					break
				}
			}
		default:
			return
		}
	}
}

// child is a helper to generate a goparsify Map function that will grab a child
// result at a specific index and set it as the result for this node.
func child(idx int) func(*goparsify.Result) {
	return func(n *goparsify.Result) {
		n.Result = n.Child[idx].Result
	}
}

// result returns a goparsify Map function that sets the node's result to 'v'.
func result(v interface{}) func(*goparsify.Result) {
	return func(n *goparsify.Result) {
		n.Result = v
	}
}
