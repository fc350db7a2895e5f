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

package flatbuf

import "fmt"

// ErrorKind classifies a Reader failure. Every Reader method that can fail
// returns an error whose Kind is one of these; Reader never panics on
// malformed input and never reads outside the byte slice it was given.
type ErrorKind int

const (
	_ ErrorKind = iota

	// InvalidOffset is returned when a stored offset, once resolved, would
	// point outside the buffer.
	InvalidOffset
	// InvalidLength is returned when a vector or string's stored length
	// would make its data run past the end of the buffer.
	InvalidLength
	// InvalidVTable is returned when a table's vtable header is shorter
	// than the two mandatory fields (vtable size, table size).
	InvalidVTable
	// InvalidUnionTag is returned when a union's tag byte names a variant
	// the schema does not define.
	InvalidUnionTag
	// Utf8Error is returned when a string field's bytes are not valid
	// UTF-8.
	Utf8Error
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidOffset:
		return "invalid offset"
	case InvalidLength:
		return "invalid length"
	case InvalidVTable:
		return "invalid vtable"
	case InvalidUnionTag:
		return "invalid union tag"
	case Utf8Error:
		return "invalid UTF-8"
	}
	return "unknown error"
}

// Error is the concrete error type every Reader accessor returns.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return "flatbuf: " + e.Kind.String()
	}
	return fmt.Sprintf("flatbuf: %s: %s", e.Kind, e.Msg)
}

func errf(kind ErrorKind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
