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
	"io"
	"os"
	"strings"
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/flatc-lang/flatc/internal/ir"
	"github.com/flatc-lang/flatc/internal/ir/translate"
	"github.com/flatc-lang/flatc/schema/build"
	"github.com/flatc-lang/flatc/schema/errors"
)

var inTest = false

func getLang() language.Tag {
	loc := os.Getenv("LC_ALL")
	if loc == "" {
		loc = os.Getenv("LANG")
	}
	loc = strings.Split(loc, ".")[0]
	return language.Make(loc)
}

// printError reports err to cmd's error writer, formatted and localized the
// way every subcommand reports frontend diagnostics.
func printError(cmd *Command, err error) {
	if err == nil {
		return
	}

	// Link x/text as our localizer.
	p := message.NewPrinter(getLang())
	format := func(w io.Writer, format string, args ...interface{}) {
		p.Fprintf(w, format, args...)
	}

	cwd, _ := os.Getwd()
	errors.Print(cmd.Stderr(), err, &errors.Config{
		Format:  format,
		Cwd:     cwd,
		ToSlash: inTest || testing.Testing(),
	})
}

// exitOnErr reports err, if non-nil, and optionally exits the process.
func exitOnErr(cmd *Command, err error, fatal bool) {
	if err == nil {
		return
	}
	printError(cmd, err)
	if fatal {
		exit()
	}
}

// loadDeclarations parses and translates every file named by args (following
// their include graphs), returning the resulting Declarations even when err
// is non-nil, so that callers which tolerate errors (--ignore-errors-style
// flows) can still inspect Declarations.HasErrors.
func loadDeclarations(args []string) (*ir.Declarations, error) {
	if len(args) == 0 {
		return nil, errors.New("no input files")
	}

	m := build.NewContext().NewMap()
	for _, filename := range args {
		if err := m.AddFilesRecursively(filename); err != nil {
			return nil, err
		}
	}
	if err := m.Err(); err != nil {
		return nil, err
	}
	return translate.Files(m)
}
