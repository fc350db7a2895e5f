// Copyright 2024 The CUE Authors
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

package errors_test

import (
	"fmt"

	"github.com/flatc-lang/flatc/schema/errors"
	"github.com/flatc-lang/flatc/schema/parser"
)

func Example() {
	const src = `namespace a;
namespace b;
`
	_, err := parser.ParseFile("input.fbs", src)

	// The Error method only shows the message of the first error
	// encountered; it never includes position information.
	fmt.Printf("string via the Error method:\n  %q\n\n", err)

	// [errors.Errors] allows listing all the errors encountered.
	fmt.Printf("list via errors.Errors:\n")
	for _, e := range errors.Errors(err) {
		fmt.Printf("  * %s\n", e)
	}
	fmt.Printf("\n")

	// [errors.Positions] lists the positions of all errors encountered.
	fmt.Printf("positions via errors.Positions:\n")
	for _, pos := range errors.Positions(err) {
		fmt.Printf("  * %s\n", pos)
	}
	fmt.Printf("\n")

	// [errors.Details] renders a human-friendly description of all errors,
	// including the positions that the Error method omits.
	fmt.Printf("human-friendly string via errors.Details:\n")
	fmt.Println(errors.Details(err, nil))

	// Output:
	// string via the Error method:
	//   "only one namespace declaration is allowed per file"
	//
	// list via errors.Errors:
	//   * only one namespace declaration is allowed per file
	//
	// positions via errors.Positions:
	//   * input.fbs:2:1
	//
	// human-friendly string via errors.Details:
	// only one namespace declaration is allowed per file:
	//     input.fbs:2:1
}
