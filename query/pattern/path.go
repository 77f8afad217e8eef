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

package pattern

import (
	"strings"

	"github.com/ebay/sparqlcore/rdf"
)

// A Path is a SPARQL property path.
type Path interface {
	String() string
	Key(b *strings.Builder)
	aPath()
}

// ImplementPath is a list of types that implement Path. This serves as
// documentation and as a compile-time check.
var ImplementPath = []Path{
	new(Predicate),
	new(SequencePath),
	new(AlternativePath),
	new(InversePath),
	new(ZeroOrMorePath),
	new(OneOrMorePath),
	new(ZeroOrOnePath),
	new(NegatedSet),
}

// Predicate is a path of length one. In a simple triple path, the term may be
// a variable; otherwise it must be an IRI.
type Predicate struct {
	Term rdf.Term
}

// SequencePath is "a/b/c".
type SequencePath struct {
	Parts []Path
}

// AlternativePath is "a|b|c".
type AlternativePath struct {
	Parts []Path
}

// InversePath is "^a".
type InversePath struct {
	Path Path
}

// ZeroOrMorePath is "a*".
type ZeroOrMorePath struct {
	Path Path
}

// OneOrMorePath is "a+".
type OneOrMorePath struct {
	Path Path
}

// ZeroOrOnePath is "a?".
type ZeroOrOnePath struct {
	Path Path
}

// NegatedSet is "!(a|^b)": any predicate other than those listed. Forward
// IRIs match in the subject to object direction, Inverse ones the other way.
type NegatedSet struct {
	Forward []*rdf.IRI
	Inverse []*rdf.IRI
}

func (*Predicate) aPath()       {}
func (*SequencePath) aPath()    {}
func (*AlternativePath) aPath() {}
func (*InversePath) aPath()     {}
func (*ZeroOrMorePath) aPath()  {}
func (*OneOrMorePath) aPath()   {}
func (*ZeroOrOnePath) aPath()   {}
func (*NegatedSet) aPath()      {}

// checkPath validates the structure of 'path'. Variables are only allowed in a
// Predicate at the top level of a simple triple path.
func checkPath(path Path, simple bool) error {
	switch path := path.(type) {
	case nil:
		return invalidArgument("missing property path")
	case *Predicate:
		switch path.Term.(type) {
		case *rdf.IRI:
			return nil
		case *rdf.Variable:
			if simple {
				return nil
			}
		}
		return invalidArgument("predicate %v is not allowed in a property path", path.Term)
	case *SequencePath:
		return checkParts(path.Parts)
	case *AlternativePath:
		return checkParts(path.Parts)
	case *InversePath:
		return checkPath(path.Path, false)
	case *ZeroOrMorePath:
		return checkPath(path.Path, false)
	case *OneOrMorePath:
		return checkPath(path.Path, false)
	case *ZeroOrOnePath:
		return checkPath(path.Path, false)
	case *NegatedSet:
		if len(path.Forward)+len(path.Inverse) == 0 {
			return invalidArgument("empty negated property set")
		}
		for _, iri := range append(append([]*rdf.IRI(nil), path.Forward...), path.Inverse...) {
			if iri == nil {
				return invalidArgument("missing IRI in negated property set")
			}
		}
		return nil
	}
	return invalidArgument("unknown path type %T", path)
}

func checkParts(parts []Path) error {
	if len(parts) < 2 {
		return invalidArgument("path needs at least 2 parts, got %d", len(parts))
	}
	for _, p := range parts {
		if err := checkPath(p, false); err != nil {
			return err
		}
	}
	return nil
}

func writePath(p printer, path Path) {
	switch path := path.(type) {
	case *Predicate:
		p.term(path.Term)
	case *SequencePath:
		writeParts(p, path.Parts, "/")
	case *AlternativePath:
		writeParts(p, path.Parts, "|")
	case *InversePath:
		p.str("^")
		writePath(p, path.Path)
	case *ZeroOrMorePath:
		writePath(p, path.Path)
		p.str("*")
	case *OneOrMorePath:
		writePath(p, path.Path)
		p.str("+")
	case *ZeroOrOnePath:
		writePath(p, path.Path)
		p.str("?")
	case *NegatedSet:
		p.str("!(")
		for i, iri := range path.Forward {
			if i > 0 {
				p.str("|")
			}
			p.term(iri)
		}
		for i, iri := range path.Inverse {
			if i > 0 || len(path.Forward) > 0 {
				p.str("|")
			}
			p.str("^")
			p.term(iri)
		}
		p.str(")")
	}
}

func writeParts(p printer, parts []Path, sep string) {
	p.str("(")
	for i, part := range parts {
		if i > 0 {
			p.str(sep)
		}
		writePath(p, part)
	}
	p.str(")")
}

func pathString(path Path) string {
	var b strings.Builder
	writePath(printer{b: &b}, path)
	return b.String()
}

func pathKey(path Path, b *strings.Builder) {
	writePath(printer{b: b, key: true}, path)
}

// String returns the predicate's term.
func (path *Predicate) String() string { return pathString(path) }

// String returns a string like "(<a>/<b>)".
func (path *SequencePath) String() string { return pathString(path) }

// String returns a string like "(<a>|<b>)".
func (path *AlternativePath) String() string { return pathString(path) }

// String returns a string like "^<a>".
func (path *InversePath) String() string { return pathString(path) }

// String returns a string like "<a>*".
func (path *ZeroOrMorePath) String() string { return pathString(path) }

// String returns a string like "<a>+".
func (path *OneOrMorePath) String() string { return pathString(path) }

// String returns a string like "<a>?".
func (path *ZeroOrOnePath) String() string { return pathString(path) }

// String returns a string like "!(<a>|^<b>)".
func (path *NegatedSet) String() string { return pathString(path) }

// Key implements cmp.Key.
func (path *Predicate) Key(b *strings.Builder) { pathKey(path, b) }

// Key implements cmp.Key.
func (path *SequencePath) Key(b *strings.Builder) { pathKey(path, b) }

// Key implements cmp.Key.
func (path *AlternativePath) Key(b *strings.Builder) { pathKey(path, b) }

// Key implements cmp.Key.
func (path *InversePath) Key(b *strings.Builder) { pathKey(path, b) }

// Key implements cmp.Key.
func (path *ZeroOrMorePath) Key(b *strings.Builder) { pathKey(path, b) }

// Key implements cmp.Key.
func (path *OneOrMorePath) Key(b *strings.Builder) { pathKey(path, b) }

// Key implements cmp.Key.
func (path *ZeroOrOnePath) Key(b *strings.Builder) { pathKey(path, b) }

// Key implements cmp.Key.
func (path *NegatedSet) Key(b *strings.Builder) { pathKey(path, b) }
