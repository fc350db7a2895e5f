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
	"fmt"
	"math"
	"testing"
)

func TestParseInt(t *testing.T) {
	testCases := []struct {
		lit string
		out int64
	}{
		{"0", 0},
		{"1", 1},
		{"-1", -1},
		{"123", 123},
		{"0x1234", 0x1234},
		{"0xABCD", 0xABCD},
		{"-0xABCD", -0xABCD},
	}
	for _, tc := range testCases {
		t.Run(tc.lit, func(t *testing.T) {
			got, err := ParseInt(tc.lit)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.out {
				t.Errorf("got %d; want %d", got, tc.out)
			}
		})
	}
}

func TestParseIntErrors(t *testing.T) {
	testCases := []string{"0x", "", "1.5", "1e10"}
	for _, lit := range testCases {
		t.Run(lit, func(t *testing.T) {
			if _, err := ParseInt(lit); err == nil {
				t.Fatalf("expected error for %q", lit)
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	testCases := []struct {
		lit string
		out float64
	}{
		{"0", 0},
		{"1.5", 1.5},
		{"-1.5", -1.5},
		{"1.3e+20", 1.3e+20},
		{"1.3e-5", 1.3e-5},
	}
	for _, tc := range testCases {
		t.Run(tc.lit, func(t *testing.T) {
			got, err := ParseFloat(tc.lit)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.out {
				t.Errorf("got %v; want %v", got, tc.out)
			}
		})
	}

	t.Run("inf", func(t *testing.T) {
		got, err := ParseFloat("inf")
		if err != nil || !math.IsInf(got, 1) {
			t.Errorf("got %v, %v; want +Inf", got, err)
		}
	})
	t.Run("-inf", func(t *testing.T) {
		got, err := ParseFloat("-inf")
		if err != nil || !math.IsInf(got, -1) {
			t.Errorf("got %v, %v; want -Inf", got, err)
		}
	})
	t.Run("nan", func(t *testing.T) {
		got, err := ParseFloat("nan")
		if err != nil || !math.IsNaN(got) {
			t.Errorf("got %v, %v; want NaN", got, err)
		}
	})
}

func TestParseFloatErrors(t *testing.T) {
	testCases := []string{"", "1.2.3", "e10"}
	for _, lit := range testCases {
		t.Run(fmt.Sprintf("%q", lit), func(t *testing.T) {
			if _, err := ParseFloat(lit); err == nil {
				t.Fatalf("expected error for %q", lit)
			}
		})
	}
}
