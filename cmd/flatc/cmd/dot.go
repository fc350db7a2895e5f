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

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/flatc-lang/flatc/internal/graph"
	"github.com/flatc-lang/flatc/internal/ir"
)

func newDotCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dot FILES...",
		Short: "render the declaration dependency graph as Graphviz DOT",
		Long: `Dot loads the named schema files, translates them, and emits the
declaration dependency graph (every table, struct, enum, union, and rpc
service, with an edge for every type reference) in Graphviz DOT format.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: mkRunE(c, func(cmd *Command, args []string) error {
			decls, err := loadDeclarations(args)
			if err != nil {
				exitOnErr(cmd, err, true)
				return nil
			}

			g := declarationGraph(decls)

			out := cmd.OutOrStdout()
			if o := flagOut.String(cmd); o != "" && o != "-" {
				f, err := os.Create(o)
				if err != nil {
					exitOnErr(cmd, err, true)
					return nil
				}
				defer f.Close()
				out = f
			}

			exitOnErr(cmd, g.WriteDOT(out, "schema"), true)
			return nil
		}),
	}

	addOutFlag(cmd.Flags())

	return cmd
}

// declarationGraph builds the full declaration reference graph: one node
// per declaration, one edge per type reference a field, union variant, or
// rpc method makes to another declaration. This is a superset of the
// struct-only graph internal/ir/translate checks for composition cycles.
func declarationGraph(decls *ir.Declarations) *graph.Graph {
	gb := graph.NewGraphBuilder()
	for _, name := range decls.Order {
		gb.EnsureNode(graph.Node(name))
		switch d := decls.ByName[name].(type) {
		case *ir.Table:
			for _, f := range d.Fields {
				addTypeEdges(gb, name, f.Type)
			}
		case *ir.Struct:
			for _, f := range d.Fields {
				addTypeEdges(gb, name, f.Type)
			}
		case *ir.Union:
			for _, v := range d.Variants {
				addTypeEdges(gb, name, v.Type)
			}
		case *ir.RPCService:
			for _, m := range d.Methods {
				if m.Request != nil {
					gb.AddEdge(graph.Node(name), graph.Node(m.Request.Name))
				}
				if m.Response != nil {
					gb.AddEdge(graph.Node(name), graph.Node(m.Response.Name))
				}
			}
		}
	}
	return gb.Build()
}

func addTypeEdges(gb *graph.GraphBuilder, from string, t ir.Type) {
	switch t.Kind {
	case ir.Named:
		if name := declarationName(t.Ref); name != "" {
			gb.AddEdge(graph.Node(from), graph.Node(name))
		}
	case ir.Vector, ir.Array:
		addTypeEdges(gb, from, *t.Elem)
	}
}

func declarationName(d ir.Declaration) string {
	switch x := d.(type) {
	case *ir.Table:
		return x.Name
	case *ir.Struct:
		return x.Name
	case *ir.Enum:
		return x.Name
	case *ir.Union:
		return x.Name
	case *ir.RPCService:
		return x.Name
	}
	return ""
}
