// Copyright 2022 CUE Authors
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

// Package path provides utilities for working with FlatBuffers dotted
// namespace paths ("a.b.c") as used by namespace declarations and type
// references in schema files.
package path

import "strings"

// Namespace is a dotted namespace path such as "Game.Sample", stored as
// its component identifiers.
type Namespace []string

// Parse splits a dotted namespace string into its components. An empty
// string denotes the root namespace.
func Parse(s string) Namespace {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

// String renders the namespace back to its dotted form.
func (n Namespace) String() string {
	return strings.Join(n, ".")
}

// Join appends a child namespace to the receiver and returns the result.
func (n Namespace) Join(child Namespace) Namespace {
	out := make(Namespace, 0, len(n)+len(child))
	out = append(out, n...)
	out = append(out, child...)
	return out
}

// IsRoot reports whether n is the root (unnamed) namespace.
func (n Namespace) IsRoot() bool {
	return len(n) == 0
}

// Equal reports whether n and m name the same namespace.
func (n Namespace) Equal(m Namespace) bool {
	if len(n) != len(m) {
		return false
	}
	for i := range n {
		if n[i] != m[i] {
			return false
		}
	}
	return true
}

// Qualify joins a namespace and a bare identifier into a fully qualified
// type name, e.g. Namespace{"Game","Sample"}.Qualify("Monster") ==
// "Game.Sample.Monster".
func (n Namespace) Qualify(ident string) string {
	if n.IsRoot() {
		return ident
	}
	return n.String() + "." + ident
}

// Ancestors returns every enclosing namespace of n, from the root
// namespace down to n's immediate parent, which is the search order used
// to resolve symbols declared in enclosing namespaces.
func (n Namespace) Ancestors() []Namespace {
	out := make([]Namespace, 0, len(n))
	for i := 0; i < len(n); i++ {
		out = append(out, append(Namespace{}, n[:i]...))
	}
	return out
}
