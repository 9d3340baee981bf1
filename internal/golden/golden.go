// Copyright 2023-2025 Macrotools Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package golden compares multi-line test output against expectations,
// reporting mismatches as unified diffs rather than two walls of text.
package golden

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff from want to got, or the empty string when
// they are equal.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	if err != nil {
		return "diff failed: " + err.Error()
	}
	return diff
}

// Assert reports a test error with a unified diff when got differs from
// want.
func Assert(t *testing.T, want, got string) bool {
	t.Helper()
	d := Diff(want, got)
	if d != "" {
		t.Errorf("output mismatch:\n%s", d)
	}
	return d == ""
}

// Require is [Assert], but fails the test immediately.
func Require(t *testing.T, want, got string) {
	t.Helper()
	if d := Diff(want, got); d != "" {
		t.Fatalf("output mismatch:\n%s", d)
	}
}
