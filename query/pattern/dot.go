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
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteDot writes a Graphviz digraph of the element tree rooted at 'root' to
// 'w'. Errors from 'w' are ignored; see util/graphviz.
func WriteDot(w io.Writer, root Element) {
	dw := &dotWriter{w: w}
	fmt.Fprintln(w, "digraph pattern {")
	fmt.Fprintln(w, "\tnode [shape=box fontname=\"Helvetica\"];")
	root.Accept(dw)
	fmt.Fprintln(w, "}")
}

// dotWriter is a Visitor that emits one dot node per element.
type dotWriter struct {
	w    io.Writer
	next int
	// stack holds the node IDs of the ancestors of the element being visited.
	stack []int
}

func (dw *dotWriter) node(label string, children ...Element) {
	id := dw.next
	dw.next++
	fmt.Fprintf(dw.w, "\tn%d [label=%s];\n", id, strconv.Quote(label))
	if len(dw.stack) > 0 {
		fmt.Fprintf(dw.w, "\tn%d -> n%d;\n", dw.stack[len(dw.stack)-1], id)
	}
	dw.stack = append(dw.stack, id)
	for _, c := range children {
		c.Accept(dw)
	}
	dw.stack = dw.stack[:len(dw.stack)-1]
}

func (dw *dotWriter) VisitTripleBlock(tb *TripleBlock) {
	lines := []string{"TripleBlock"}
	for _, t := range tb.triples {
		lines = append(lines, t.String())
	}
	dw.node(strings.Join(lines, "\n"))
}

func (dw *dotWriter) VisitPathBlock(pb *PathBlock) {
	lines := []string{"PathBlock"}
	for _, tp := range pb.paths {
		lines = append(lines, fmt.Sprintf("%v %v %v", tp.Subject, tp.Path, tp.Object))
	}
	dw.node(strings.Join(lines, "\n"))
}

func (dw *dotWriter) VisitFilter(f *Filter) {
	dw.node("FILTER " + f.expr.String())
}

func (dw *dotWriter) VisitBind(b *Bind) {
	dw.node(fmt.Sprintf("BIND %v AS ?%s", b.expr, b.variable))
}

func (dw *dotWriter) VisitGroup(g *Group) {
	dw.node("Group", g.children...)
}

func (dw *dotWriter) VisitUnion(u *Union) {
	dw.node("UNION", u.children...)
}

func (dw *dotWriter) VisitOptional(o *Optional) {
	dw.node("OPTIONAL", o.inner)
}

func (dw *dotWriter) VisitMinus(m *Minus) {
	dw.node("MINUS", m.inner)
}

func (dw *dotWriter) VisitNamedGraph(g *NamedGraph) {
	dw.node("GRAPH "+g.graph.String(), g.inner)
}

func (dw *dotWriter) VisitService(s *Service) {
	label := "SERVICE "
	if s.silent {
		label += "SILENT "
	}
	dw.node(label+s.endpoint.String(), s.inner)
}

func (dw *dotWriter) VisitSubQuery(sq *SubQuery) {
	label := "SELECT " + sq.query.ResultVariables().String()
	if len(sq.query.Select) == 0 {
		label = "SELECT *"
	}
	dw.node(label, sq.query.Where)
}

func (dw *dotWriter) VisitData(d *Data) {
	dw.node(fmt.Sprintf("VALUES %v\n%d rows", d.vars, len(d.rows)))
}
