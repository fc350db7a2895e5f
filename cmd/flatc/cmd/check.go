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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flatc-lang/flatc/schema/errors"
)

func newCheckCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check FILES...",
		Short: "parse, resolve, and type-check FlatBuffers schema files",
		Long: `Check loads each named schema file and every file it includes,
resolves every type reference, and reports any diagnostic found along the
way: syntax errors, unresolved identifiers, duplicate declarations, struct
composition cycles, and out-of-range default values. Non-fatal diagnostics,
such as a field using "obsolete" in place of "deprecated", are printed as
warnings and do not affect the exit code.

Check exits 0 if every file is free of errors, and 1 otherwise.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: mkRunE(c, func(cmd *Command, args []string) error {
			decls, err := loadDeclarations(args)
			if decls != nil {
				// Warnings are reported on the same stream as errors but must
				// never flip the command's exit code, so they bypass
				// cmd.Stderr (which does exactly that on any write).
				out := cmd.OutOrStderr()
				for _, w := range decls.Warnings {
					fmt.Fprint(out, "warning: ")
					fmt.Fprint(out, errors.Details(w, nil))
				}
			}
			exitOnErr(cmd, err, false)
			return nil
		}),
	}
	return cmd
}
