// Copyright 2020 CUE Authors
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

package literal

import (
	"math"
	"strconv"
	"strings"
)

// ParseInt interprets lit as a FlatBuffers integer literal: an optional
// leading '-', followed by a hexadecimal literal ("0x"/"0X" prefix), the
// single digit "0", or a decimal literal with no leading zero.
func ParseInt(lit string) (int64, error) {
	neg := false
	s := lit
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var v uint64
	var err error
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err = strconv.ParseUint(s[2:], 16, 64)
	default:
		if len(s) > 1 && s[0] == '0' {
			return 0, errSyntax
		}
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, errSyntax
	}
	if neg {
		return -int64(v), nil
	}
	return int64(v), nil
}

// ParseFloat interprets lit as a FlatBuffers floating point literal: an
// optional leading '-', followed by a decimal mantissa with an optional
// fractional part and exponent, or one of the keywords "inf"/"nan".
func ParseFloat(lit string) (float64, error) {
	neg := strings.HasPrefix(lit, "-")
	s := lit
	if neg {
		s = s[1:]
	}
	switch s {
	case "inf":
		if neg {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	case "nan":
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, errSyntax
	}
	return f, nil
}
