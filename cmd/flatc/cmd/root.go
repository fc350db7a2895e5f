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

// Package cmd implements the flatc command-line tool: schema checking,
// formatting, dependency-graph rendering, and stub code generation.
package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/flatc-lang/flatc/schema/errors"
)

type runFunction func(cmd *Command, args []string) error

func mkRunE(c *Command, f runFunction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c.Command = cmd
		return f(c, args)
	}
}

// New creates the top-level command.
func New(args []string) (*Command, error) {
	cmd := &cobra.Command{
		Use:   "flatc",
		Short: "flatc checks, formats, and generates code for FlatBuffers schemas",

		// We print errors ourselves in Main, which allows for ErrPrintedError.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	c := &Command{Command: cmd, root: cmd}

	cmd.InitDefaultHelpFlag()
	cmd.Flag("help").Hidden = true

	for _, sub := range []*cobra.Command{
		newCheckCmd(c),
		newFmtCmd(c),
		newDotCmd(c),
		newRustCmd(c),
		newCompletionCmd(c),
	} {
		cmd.AddCommand(sub)
	}

	cmd.SetArgs(args)
	return c, nil
}

// rootWorkingDir avoids repeated calls to [os.Getwd] in cmd/flatc.
var rootWorkingDir = func() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}()

// Main runs the flatc tool and returns the code for passing to os.Exit.
func Main() int {
	cmd, _ := New(os.Args[1:])
	if err := cmd.Run(context.Background()); err != nil {
		if err != ErrPrintedError {
			errors.Print(os.Stderr, err, &errors.Config{Cwd: rootWorkingDir})
		}
		return 1
	}
	return 0
}

// exit is called on a fatal, already-reported error. Overridable in tests.
var exit = func() { os.Exit(1) }

type Command struct {
	*cobra.Command

	root *cobra.Command

	hasErr bool
}

type errWriter Command

func (w *errWriter) Write(b []byte) (int, error) {
	c := (*Command)(w)
	c.hasErr = len(b) > 0
	return c.Command.OutOrStderr().Write(b)
}

// Stderr returns a writer that should be used for error messages. Writing to
// it will result in the command's exit code being 1.
func (c *Command) Stderr() io.Writer {
	return (*errWriter)(c)
}

func (c *Command) SetOutput(w io.Writer) {
	c.root.SetOut(w)
}

func (c *Command) SetInput(r io.Reader) {
	c.root.SetIn(r)
}

// ErrPrintedError indicates error messages have been printed directly to
// stderr, and can be used so that the returned error itself isn't printed
// as well.
var ErrPrintedError = errors.New("terminating because of errors")

func (c *Command) Run(ctx context.Context) (err error) {
	if err := c.root.ExecuteContext(ctx); err != nil {
		return err
	}
	if c.hasErr {
		return ErrPrintedError
	}
	return nil
}
