// Copyright 2018 The CUE Authors
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

	"github.com/flatc-lang/flatc/internal/gen/rust"
)

func newRustCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rust FILES...",
		Short: "generate Rust type stubs for a FlatBuffers schema",
		Long: `Rust loads and translates the named schema files and renders every
table, struct, enum, union, and rpc_service declaration as a Rust type
definition: a #[repr(C)] struct for each struct, a plain struct for each
table, a #[repr] enum for each enum, a tagged enum for each union, and a
trait for each rpc_service.

This is a stub generator: it describes a schema's shape in Rust, not a
working flatbuffers runtime binding. Pair its output with runtime code
that knows how to read and write the wire format.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: mkRunE(c, func(cmd *Command, args []string) error {
			decls, err := loadDeclarations(args)
			if err != nil {
				exitOnErr(cmd, err, true)
				return nil
			}

			src, err := rust.Generate(decls, rust.Format(flagFormat.Bool(cmd)))
			if err != nil {
				exitOnErr(cmd, err, true)
				return nil
			}

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

			_, err = out.Write(src)
			exitOnErr(cmd, err, true)
			return nil
		}),
	}

	addOutFlag(cmd.Flags())
	cmd.Flags().Bool(string(flagFormat), false, "insert blank lines between generated items")

	return cmd
}
