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
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Namespaces and datatype IRIs used by the comparison rules.
const (
	XSD = "http://www.w3.org/2001/XMLSchema#"
	RDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	XSDString     = XSD + "string"
	XSDBoolean    = XSD + "boolean"
	XSDDecimal    = XSD + "decimal"
	XSDInteger    = XSD + "integer"
	XSDFloat      = XSD + "float"
	XSDDouble     = XSD + "double"
	XSDDate       = XSD + "date"
	XSDDateTime   = XSD + "dateTime"
	RDFLangString = RDF + "langString"
)

// NumericType classifies numeric datatypes by their promotion rank. Comparing
// or combining two numbers promotes both to the higher-ranked type.
type NumericType int

// Possible values for NumericType, in promotion order.
const (
	NotNumeric NumericType = iota
	Integer
	Decimal
	Float
	Double
)

func (t NumericType) String() string {
	switch t {
	case NotNumeric:
		return "NotNumeric"
	case Integer:
		return "Integer"
	case Decimal:
		return "Decimal"
	case Float:
		return "Float"
	case Double:
		return "Double"
	}
	return fmt.Sprintf("NumericType(%d)", int(t))
}

// Datatype returns the IRI of the canonical datatype for 't', or "" for
// NotNumeric.
func (t NumericType) Datatype() string {
	switch t {
	case Integer:
		return XSDInteger
	case Decimal:
		return XSDDecimal
	case Float:
		return XSDFloat
	case Double:
		return XSDDouble
	}
	return ""
}

// integerTypes are xsd:integer and the types derived from it.
var integerTypes = map[string]bool{
	XSDInteger:                 true,
	XSD + "int":                true,
	XSD + "long":               true,
	XSD + "short":              true,
	XSD + "byte":               true,
	XSD + "nonNegativeInteger": true,
	XSD + "nonPositiveInteger": true,
	XSD + "negativeInteger":    true,
	XSD + "positiveInteger":    true,
	XSD + "unsignedInt":        true,
	XSD + "unsignedLong":       true,
	XSD + "unsignedShort":      true,
	XSD + "unsignedByte":       true,
}

// NumericTypeOf returns the numeric type of the given datatype IRI.
func NumericTypeOf(datatype string) NumericType {
	switch {
	case integerTypes[datatype]:
		return Integer
	case datatype == XSDDecimal:
		return Decimal
	case datatype == XSDFloat:
		return Float
	case datatype == XSDDouble:
		return Double
	}
	return NotNumeric
}

// NumericType returns the numeric type of the literal's datatype.
func (lit *Literal) NumericType() NumericType {
	if lit.Lang != "" {
		return NotNumeric
	}
	return NumericTypeOf(lit.Datatype)
}

// IsString returns true for simple literals, xsd:string literals, and
// language-tagged strings.
func (lit *Literal) IsString() bool {
	return isStringDatatype(lit.EffectiveDatatype())
}

func isStringDatatype(dt string) bool {
	return dt == XSDString || dt == RDFLangString
}

// supportedDatatype returns the literal's effective datatype if the
// comparison rules know about it, or "" otherwise.
func supportedDatatype(lit *Literal) string {
	dt := lit.EffectiveDatatype()
	switch {
	case isStringDatatype(dt), NumericTypeOf(dt) != NotNumeric:
		return dt
	case dt == XSDBoolean, dt == XSDDate, dt == XSDDateTime:
		return dt
	}
	return ""
}

// ErrNotValid is returned (wrapped) when a literal's lexical form isn't valid
// for the requested value type.
var ErrNotValid = errors.New("invalid lexical form")

func invalid(lit *Literal, as string) error {
	return fmt.Errorf("%w: %s as %s", ErrNotValid, lit, as)
}

// DecimalValue parses the literal as an arbitrary-precision decimal. It works
// for xsd:decimal and the integer types; integer lexical forms must not have a
// fractional part or exponent.
func (lit *Literal) DecimalValue() (*apd.Decimal, error) {
	nt := lit.NumericType()
	if nt != Integer && nt != Decimal {
		return nil, invalid(lit, "decimal")
	}
	s := strings.TrimSpace(lit.Lexical)
	if strings.ContainsAny(s, "eE") || (nt == Integer && strings.Contains(s, ".")) {
		return nil, invalid(lit, nt.String())
	}
	d, _, err := apd.NewFromString(s)
	if err != nil || d.Form != apd.Finite {
		return nil, invalid(lit, nt.String())
	}
	return d, nil
}

// FloatValue parses the literal as a float64. It works for every numeric type.
// xsd:float values are rounded to single precision.
func (lit *Literal) FloatValue() (float64, error) {
	nt := lit.NumericType()
	s := strings.TrimSpace(lit.Lexical)
	switch nt {
	case NotNumeric:
		return 0, invalid(lit, "float")
	case Integer, Decimal:
		d, err := lit.DecimalValue()
		if err != nil {
			return 0, err
		}
		return d.Float64()
	}
	var v float64
	switch s {
	case "INF", "+INF":
		v = math.Inf(1)
	case "-INF":
		v = math.Inf(-1)
	case "NaN":
		v = math.NaN()
	default:
		if strings.ContainsAny(s, "xXpP_") || strings.EqualFold(strings.TrimLeft(s, "+-"), "inf") ||
			strings.EqualFold(strings.TrimLeft(s, "+-"), "infinity") || strings.EqualFold(s, "nan") {
			return 0, invalid(lit, nt.String())
		}
		var err error
		v, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, invalid(lit, nt.String())
		}
	}
	if nt == Float {
		v = float64(float32(v))
	}
	return v, nil
}

// BoolValue parses an xsd:boolean literal.
func (lit *Literal) BoolValue() (bool, error) {
	if lit.EffectiveDatatype() != XSDBoolean {
		return false, invalid(lit, "boolean")
	}
	switch strings.TrimSpace(lit.Lexical) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, invalid(lit, "boolean")
}

// DateTimeValue parses an xsd:dateTime or xsd:date literal. Dates are returned
// as midnight at the start of the day. 'hasZone' reports whether the lexical
// form carried a timezone; values without one are returned in UTC.
func (lit *Literal) DateTimeValue() (t time.Time, hasZone bool, err error) {
	s := strings.TrimSpace(lit.Lexical)
	switch lit.EffectiveDatatype() {
	case XSDDateTime:
		tpos := strings.IndexByte(s, 'T')
		if tpos < 0 {
			return time.Time{}, false, invalid(lit, "dateTime")
		}
		hasZone = strings.ContainsAny(s[tpos:], "Z+-")
		layout := "2006-01-02T15:04:05.999999999"
		if hasZone {
			layout += "Z07:00"
		}
		t, err = time.Parse(layout, s)
	case XSDDate:
		hasZone = len(s) > len("2006-01-02")
		layout := "2006-01-02"
		if hasZone {
			layout += "Z07:00"
		}
		t, err = time.Parse(layout, s)
	default:
		return time.Time{}, false, invalid(lit, "dateTime")
	}
	if err != nil {
		return time.Time{}, false, invalid(lit, lit.EffectiveDatatype()[len(XSD):])
	}
	return t, hasZone, nil
}

func formatDouble(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'E', -1, 64)
}
