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
	"math"
	"strings"
	"time"

	"github.com/ebay/sparqlcore/util/cmp"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// CompareOptions controls how string literals are compared. The zero value
// compares strings by code point after NFC normalization.
type CompareOptions struct {
	// Language selects the collation rules; language.Und uses the root
	// collation.
	Language language.Tag
	// IgnoreCase makes "a" and "A" compare equal.
	IgnoreCase bool
	// Numeric orders digit sequences by value, so "a2" comes before "a10".
	Numeric bool
}

func (opts CompareOptions) ordinal() bool {
	return opts == CompareOptions{}
}

// A NodeComparer implements SPARQL's relational operators between terms. It
// is not safe for concurrent use.
type NodeComparer struct {
	opts     CompareOptions
	collator *collate.Collator
}

// NewNodeComparer returns a NodeComparer that compares strings according to
// 'opts'.
func NewNodeComparer(opts CompareOptions) *NodeComparer {
	c := &NodeComparer{opts: opts}
	if !opts.ordinal() {
		var collOpts []collate.Option
		if opts.IgnoreCase {
			collOpts = append(collOpts, collate.IgnoreCase)
		}
		if opts.Numeric {
			collOpts = append(collOpts, collate.Numeric)
		}
		c.collator = collate.New(opts.Language, collOpts...)
	}
	return c
}

// Options returns the options the comparer was created with.
func (c *NodeComparer) Options() CompareOptions {
	return c.opts
}

// TryCompare returns -1, 0, or 1 as 'x' is less than, equal to, or greater
// than 'y'. The second return value is false if SPARQL defines no ordering
// between the two terms; the first return value is then meaningless. Blank
// nodes, IRIs, and variables only compare for equality.
func (c *NodeComparer) TryCompare(x, y Term) (int, bool) {
	if x == nil || y == nil || x.Kind() != y.Kind() {
		return 0, false
	}
	xl, ok := x.(*Literal)
	if !ok {
		return checkEquality(x, y)
	}
	yl := y.(*Literal)
	xtype, ytype := supportedDatatype(xl), supportedDatatype(yl)
	if xtype == "" || ytype == "" {
		return checkEquality(x, y)
	}
	xstr, ystr := isStringDatatype(xtype), isStringDatatype(ytype)
	switch {
	case xstr && ystr:
		return c.compareStrings(xl.Lexical, yl.Lexical), true
	case xstr || ystr:
		return 0, false
	}
	xnum, ynum := NumericTypeOf(xtype), NumericTypeOf(ytype)
	if xnum != NotNumeric || ynum != NotNumeric {
		if xnum == NotNumeric || ynum == NotNumeric {
			return 0, false
		}
		res, err := compareNumbers(xl, yl, max(xnum, ynum))
		if err != nil {
			return checkEquality(x, y)
		}
		return res, true
	}
	if xtype == ytype && xtype == XSDBoolean {
		xb, xerr := xl.BoolValue()
		yb, yerr := yl.BoolValue()
		if xerr != nil || yerr != nil {
			return checkEquality(x, y)
		}
		return compareBools(xb, yb), true
	}
	switch {
	case xtype == XSDDate && ytype == XSDDate:
		return compareDates(xl, yl)
	case isTemporal(xtype) && isTemporal(ytype):
		// A date compared with a dateTime is widened to midnight.
		return compareDateTimes(xl, yl)
	}
	return 0, false
}

func checkEquality(x, y Term) (int, bool) {
	return 0, Equal(x, y)
}

func isTemporal(dt string) bool {
	return dt == XSDDate || dt == XSDDateTime
}

func (c *NodeComparer) compareStrings(x, y string) int {
	if c.collator == nil {
		return strings.Compare(norm.NFC.String(x), norm.NFC.String(y))
	}
	return c.collator.CompareString(x, y)
}

// compareNumbers compares 'x' and 'y' after promoting both to 'as'.
func compareNumbers(x, y *Literal, as NumericType) (int, error) {
	if as == Integer || as == Decimal {
		xd, err := x.DecimalValue()
		if err != nil {
			return 0, err
		}
		yd, err := y.DecimalValue()
		if err != nil {
			return 0, err
		}
		return xd.Cmp(yd), nil
	}
	xf, err := x.FloatValue()
	if err != nil {
		return 0, err
	}
	yf, err := y.FloatValue()
	if err != nil {
		return 0, err
	}
	if as == Float {
		xf, yf = float64(float32(xf)), float64(float32(yf))
	}
	return compareFloats(xf, yf), nil
}

// compareFloats orders NaN before every other value and equal to itself.
func compareFloats(x, y float64) int {
	xnan, ynan := math.IsNaN(x), math.IsNaN(y)
	switch {
	case xnan && ynan:
		return 0
	case xnan:
		return -1
	case ynan:
		return 1
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func compareBools(x, y bool) int {
	switch {
	case x == y:
		return 0
	case !x:
		return -1
	}
	return 1
}

// compareDates compares two xsd:date values by calendar day. Timezones are
// not taken into account.
func compareDates(x, y *Literal) (int, bool) {
	xt, _, xerr := x.DateTimeValue()
	yt, _, yerr := y.DateTimeValue()
	if xerr != nil || yerr != nil {
		return checkEquality(x, y)
	}
	xy, xm, xd := xt.Date()
	yy, ym, yd := yt.Date()
	if res := cmp.Sign(xy - yy); res != 0 {
		return res, true
	}
	if res := cmp.Sign(int(xm) - int(ym)); res != 0 {
		return res, true
	}
	return cmp.Sign(xd - yd), true
}

// compareDateTimes compares two xsd:dateTime or xsd:date values as instants.
// A value with a timezone is not comparable to one without.
func compareDateTimes(x, y *Literal) (int, bool) {
	xt, xzone, xerr := x.DateTimeValue()
	yt, yzone, yerr := y.DateTimeValue()
	if xerr != nil || yerr != nil {
		return checkEquality(x, y)
	}
	if xzone != yzone {
		return 0, false
	}
	return compareTimes(xt, yt), true
}

func compareTimes(x, y time.Time) int {
	switch {
	case x.Before(y):
		return -1
	case x.After(y):
		return 1
	}
	return 0
}

// An OrderingComparer is a total order over terms, used by ORDER BY. Unbound
// (nil) sorts first, followed by blank nodes, IRIs, literals, and variables.
// Within literals, strings come first, then numbers, then everything else.
// Wherever SPARQL leaves the order undefined, terms are ordered by NodeOrder.
// It is not safe for concurrent use.
type OrderingComparer struct {
	nodes *NodeComparer
}

// NewOrderingComparer returns an OrderingComparer that compares strings
// according to 'opts'.
func NewOrderingComparer(opts CompareOptions) *OrderingComparer {
	return &OrderingComparer{nodes: NewNodeComparer(opts)}
}

// NodeComparer returns the relational comparer used for literals that have a
// SPARQL-defined order.
func (c *OrderingComparer) NodeComparer() *NodeComparer {
	return c.nodes
}

// Compare returns -1, 0, or 1 as 'x' sorts before, the same as, or after 'y'.
func (c *OrderingComparer) Compare(x, y Term) int {
	switch {
	case x == nil && y == nil:
		return 0
	case x == nil:
		return -1
	case y == nil:
		return 1
	case x.Kind() != y.Kind():
		return NodeOrder(x, y)
	}
	xl, ok := x.(*Literal)
	if !ok {
		return NodeOrder(x, y)
	}
	yl := y.(*Literal)
	xstr, ystr := xl.IsString(), yl.IsString()
	switch {
	case xstr && ystr:
		return cmp.Sign(c.nodes.compareStrings(xl.Lexical, yl.Lexical))
	case xstr:
		return -1
	case ystr:
		return 1
	}
	xnum, ynum := xl.NumericType(), yl.NumericType()
	switch {
	case xnum != NotNumeric && ynum != NotNumeric:
		res, err := compareNumbers(xl, yl, max(xnum, ynum))
		if err != nil {
			return NodeOrder(x, y)
		}
		return res
	case xnum != NotNumeric:
		return -1
	case ynum != NotNumeric:
		return 1
	}
	if res, ok := c.nodes.TryCompare(x, y); ok {
		return cmp.Sign(res)
	}
	return NodeOrder(x, y)
}

// NodeOrder is a total order over terms that doesn't interpret literal
// values. Terms are ordered by Kind, then by IRI, label, or name. Literals are
// ordered by lexical form, then language tag, then datatype IRI.
func NodeOrder(x, y Term) int {
	switch {
	case x == nil && y == nil:
		return 0
	case x == nil:
		return -1
	case y == nil:
		return 1
	case x.Kind() != y.Kind():
		return cmp.Sign(int(x.Kind()) - int(y.Kind()))
	}
	switch x := x.(type) {
	case *IRI:
		return strings.Compare(x.Value, y.(*IRI).Value)
	case *Blank:
		return strings.Compare(x.Label, y.(*Blank).Label)
	case *Variable:
		return strings.Compare(x.Name, y.(*Variable).Name)
	case *Literal:
		yl := y.(*Literal)
		if res := strings.Compare(x.Lexical, yl.Lexical); res != 0 {
			return res
		}
		if res := strings.Compare(x.Lang, yl.Lang); res != 0 {
			return res
		}
		return strings.Compare(x.EffectiveDatatype(), yl.EffectiveDatatype())
	}
	return strings.Compare(cmp.GetKey(x), cmp.GetKey(y))
}
