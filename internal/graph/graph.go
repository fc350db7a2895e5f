// Copyright 2024 CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package graph provides a small directed graph used to detect struct
// composition cycles during translation and to render the declaration
// dependency graph for the "dot" CLI command.
package graph

import (
	"fmt"
	"io"
	"sort"
)

// Node identifies a declaration in the graph: the fully qualified name
// used for both cycle reporting and DOT labels.
type Node string

type edge struct {
	from Node
	to   Node
}

// Graph is a directed graph over declaration names.
type Graph struct {
	nodes map[Node]bool
	out   map[Node][]Node
}

// GraphBuilder accumulates nodes and edges before producing an immutable
// Graph. This is idempotent: adding the same edge twice has no
// additional effect.
type GraphBuilder struct {
	nodes    map[Node]bool
	out      map[Node][]Node
	edgesSet map[edge]struct{}
}

// NewGraphBuilder returns an empty builder.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		nodes:    make(map[Node]bool),
		out:      make(map[Node][]Node),
		edgesSet: make(map[edge]struct{}),
	}
}

// EnsureNode registers n in the graph even if it has no edges.
func (b *GraphBuilder) EnsureNode(n Node) {
	b.nodes[n] = true
}

// AddEdge records a directed edge from one declaration to another, for
// example a table field's reference to the type it names.
func (b *GraphBuilder) AddEdge(from, to Node) {
	b.EnsureNode(from)
	b.EnsureNode(to)
	e := edge{from, to}
	if _, ok := b.edgesSet[e]; ok {
		return
	}
	b.edgesSet[e] = struct{}{}
	b.out[from] = append(b.out[from], to)
}

// Build finalizes the graph.
func (b *GraphBuilder) Build() *Graph {
	return &Graph{nodes: b.nodes, out: b.out}
}

// Nodes returns the graph's nodes in a stable, sorted order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FindCycle runs a depth-first search over the graph and returns the
// first cycle discovered, as the sequence of nodes from the cycle's
// entry point back to itself. It returns nil if the graph is acyclic.
//
// Used to reject struct composition cycles: a struct field may only
// reference another struct if doing so does not, transitively, refer
// back to the struct itself (struct fields are embedded inline and must
// have a finite size).
func (g *Graph) FindCycle() []Node {
	const (
		white = iota
		gray
		black
	)
	color := make(map[Node]int, len(g.nodes))
	var stack []Node

	var visit func(n Node) []Node
	visit = func(n Node) []Node {
		color[n] = gray
		stack = append(stack, n)
		for _, next := range g.out[n] {
			switch color[next] {
			case white:
				if cyc := visit(next); cyc != nil {
					return cyc
				}
			case gray:
				// found a back edge to `next`; extract the cycle from the
				// stack starting at its first occurrence of `next`.
				for i, s := range stack {
					if s == next {
						cyc := append([]Node{}, stack[i:]...)
						return append(cyc, next)
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return nil
	}

	for _, n := range g.Nodes() {
		if color[n] == white {
			if cyc := visit(n); cyc != nil {
				return cyc
			}
		}
	}
	return nil
}

// WriteDOT renders the graph in Graphviz DOT format to w, used by the
// "dot" CLI command to visualize declaration dependencies.
func (g *Graph) WriteDOT(w io.Writer, name string) error {
	if _, err := fmt.Fprintf(w, "digraph %q {\n", name); err != nil {
		return err
	}
	for _, n := range g.Nodes() {
		if _, err := fmt.Fprintf(w, "\t%q;\n", n); err != nil {
			return err
		}
	}
	for _, from := range g.Nodes() {
		tos := append([]Node{}, g.out[from]...)
		sort.Slice(tos, func(i, j int) bool { return tos[i] < tos[j] })
		for _, to := range tos {
			if _, err := fmt.Fprintf(w, "\t%q -> %q;\n", from, to); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
