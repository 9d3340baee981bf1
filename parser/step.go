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

// Package parser turns a flat token-kind sequence into a stream of
// structural events: enter a node, exit it, consume input tokens, split a
// glued float, or report an error.
//
// The parser never sees text or trees. Its input is kinds plus two bits of
// sideband per token (whether it is joint with its successor, and whether a
// float literal ends in a dot); its output is a [Step] sequence that a tree
// sink replays against the token tree the input was flattened from.
package parser

import (
	"fmt"

	"github.com/macrotools/tokenbridge/syntax"
)

// Step is one event of a parse: exactly one of [StepEnter], [StepExit],
// [StepToken], [StepFloatSplit], or [StepError].
type Step interface {
	isStep()
	fmt.Stringer
}

// StepEnter opens a syntax node of the given kind.
type StepEnter struct {
	Kind syntax.Kind
}

// StepExit closes the most recently opened syntax node.
type StepExit struct{}

// StepToken emits one output token of the given kind, consuming InputTokens
// input tokens. InputTokens exceeds 1 when the parser glues Joint-spaced
// punctuation back into a composite operator.
type StepToken struct {
	Kind        syntax.Kind
	InputTokens uint8
}

// StepFloatSplit consumes one float-literal input token that actually spans
// a field-access chain, like the 0.1 in a.0.1. EndsInDot means the right
// half is empty (a.0.).
type StepFloatSplit struct {
	EndsInDot bool
}

// StepError reports a parse error at the current position. It consumes
// nothing and does not stop the parse.
type StepError struct {
	Msg string
}

func (StepEnter) isStep()      {}
func (StepExit) isStep()       {}
func (StepToken) isStep()      {}
func (StepFloatSplit) isStep() {}
func (StepError) isStep()      {}

// String implements [fmt.Stringer].
func (s StepEnter) String() string { return fmt.Sprintf("Enter(%v)", s.Kind) }

// String implements [fmt.Stringer].
func (StepExit) String() string { return "Exit" }

// String implements [fmt.Stringer].
func (s StepToken) String() string { return fmt.Sprintf("Token(%v, %d)", s.Kind, s.InputTokens) }

// String implements [fmt.Stringer].
func (s StepFloatSplit) String() string { return fmt.Sprintf("FloatSplit(%v)", s.EndsInDot) }

// String implements [fmt.Stringer].
func (s StepError) String() string { return fmt.Sprintf("Error(%q)", s.Msg) }
