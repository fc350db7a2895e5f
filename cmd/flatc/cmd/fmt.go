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

	"github.com/flatc-lang/flatc/schema/errors"
	"github.com/flatc-lang/flatc/schema/format"
)

func newFmtCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format FILE",
		Short: "reformat a FlatBuffers schema file in canonical style",
		Long: `Format rewrites the named file in place with a canonical rendering:
one declaration per block, four-space indentation, comments preserved in
place, and metadata lists rendered in source order. Formatting is
idempotent: running format again on its own output leaves the file
unchanged.

With --ignore-errors, a file that fails to parse is left untouched
instead of aborting with a non-zero exit code.
`,
		Args: cobra.ExactArgs(1),
		RunE: mkRunE(c, func(cmd *Command, args []string) error {
			filename := args[0]
			ignore := flagIgnoreErrors.Bool(cmd)

			src, err := os.ReadFile(filename)
			if err != nil {
				exitOnErr(cmd, err, true)
				return nil
			}

			formatted, err := format.Source(filename, src)
			if err != nil {
				if ignore {
					// Report the errors without marking the run as failed.
					errors.Print(cmd.OutOrStderr(), err, nil)
					return nil
				}
				exitOnErr(cmd, err, true)
				return nil
			}

			exitOnErr(cmd, os.WriteFile(filename, formatted, 0o644), true)
			return nil
		}),
	}

	cmd.Flags().Bool(string(flagIgnoreErrors), false, "leave unparseable files untouched instead of failing")

	return cmd
}
