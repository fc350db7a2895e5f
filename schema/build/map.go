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

package build

import (
	"os"
	"path/filepath"

	"github.com/flatc-lang/flatc/schema/ast"
	"github.com/flatc-lang/flatc/schema/errors"
	"github.com/flatc-lang/flatc/schema/literal"
	"github.com/flatc-lang/flatc/schema/parser"
	"github.com/flatc-lang/flatc/schema/token"
)

// A Map holds the parsed files reachable from a root schema file, keyed
// by their normalized absolute path, along with any errors encountered
// while loading them.
//
// Unlike a CUE build.Instance, a Map has no notion of package or import
// path: a FlatBuffers schema identifies related files purely by the
// include graph rooted at the file the caller asks to load.
type Map struct {
	ctxt *Context

	// Files holds every loaded file, keyed by its normalized absolute path.
	Files map[string]*ast.File

	// Root is the absolute path of the first file passed to
	// AddFilesRecursively.
	Root string

	// order records the absolute paths of Files in the order they were
	// first reached by a depth-first walk of the include graph, root first.
	order []string

	errs errors.Error
}

// OrderedFiles returns the loaded files in the order they were first
// reached from the root, so that a file always appears after whichever
// file first included it.
func (m *Map) OrderedFiles() []*ast.File {
	files := make([]*ast.File, 0, len(m.order))
	for _, id := range m.order {
		files = append(files, m.Files[id])
	}
	return files
}

// Err returns a sanitized, deduplicated error summarizing every problem
// encountered while loading m, or nil if there were none.
func (m *Map) Err() error {
	if m.errs == nil {
		return nil
	}
	return errors.Sanitize(m.errs)
}

func (m *Map) addErr(err errors.Error) {
	m.errs = errors.Append(m.errs, err)
}

// AddFilesRecursively parses filename and every file it transitively
// includes, resolving each include path relative to the directory of the
// file that names it. Files are deduplicated by normalized absolute path,
// so a diamond of includes is parsed only once, and a cycle of includes
// is silently tolerated rather than causing non-termination.
//
// Parse errors on any one file do not stop the walk: AddFilesRecursively
// collects as many errors as it can before returning, available
// afterwards from m.Err.
func (m *Map) AddFilesRecursively(filename string) error {
	abs, err := filepath.Abs(filename)
	if err != nil {
		m.addErr(errors.Newf(token.NoPos, "cannot resolve path of %s: %v", filename, err))
		return m.Err()
	}
	if m.Root == "" {
		m.Root = abs
	}
	m.addFile(filename, abs, map[string]bool{})
	return m.Err()
}

// addFile loads a single file, identified by both its path as written
// (used for parse error messages and for reading from disk) and its
// already-resolved absolute form (used as the dedup key), then recurses
// into its includes.
//
// visiting holds the absolute paths currently on the stack of the
// depth-first walk; a path already in visiting marks an include cycle,
// which is tolerated in the same way cue/build.Instance tolerates import
// cycles by walking its parent chain.
func (m *Map) addFile(filename, abs string, visiting map[string]bool) {
	if _, ok := m.Files[abs]; ok {
		return
	}
	if visiting[abs] {
		return
	}
	visiting[abs] = true
	defer delete(visiting, abs)

	src, err := os.ReadFile(filename)
	if err != nil {
		m.addErr(errors.Newf(token.NoPos, "cannot read %s: %v", filename, err))
		return
	}

	var opts []parser.Option
	if m.ctxt != nil {
		opts = m.ctxt.parseOptions
	}
	f, err := parser.ParseFile(filename, src, opts...)
	if err != nil {
		if list, ok := err.(errors.Error); ok {
			m.addErr(list)
		} else {
			m.addErr(errors.Newf(token.NoPos, "%v", err))
		}
	}
	if f == nil {
		return
	}

	m.Files[abs] = f
	m.order = append(m.order, abs)

	dir := filepath.Dir(filename)
	for _, d := range f.Decls {
		inc, ok := d.(*ast.IncludeDecl)
		if !ok {
			continue
		}
		path, err := literal.Unquote(inc.Path.Value)
		if err != nil {
			m.addErr(errors.Newf(inc.Path.Pos(), "invalid include path %s: %v", inc.Path.Value, err))
			continue
		}
		incFilename := filepath.Join(dir, path)
		incAbs, err := filepath.Abs(incFilename)
		if err != nil {
			m.addErr(errors.Newf(inc.Path.Pos(), "cannot resolve include %s: %v", path, err))
			continue
		}
		m.addFile(incFilename, incAbs, visiting)
	}
}
