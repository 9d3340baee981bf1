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

package parser

import (
	"strings"

	"github.com/macrotools/tokenbridge/lex"
	"github.com/macrotools/tokenbridge/syntax"
)

// Input is the flat, trivia-free token sequence a parse runs over. Each
// token is a kind plus two sideband bits: whether the token is Joint with
// its successor (no space between them in the source), and, for float
// literals, whether the literal's text ends in a dot.
type Input struct {
	kinds     []syntax.Kind
	joint     []bool
	endsInDot []bool
}

// Push appends a token of the given kind.
func (in *Input) Push(kind syntax.Kind) {
	in.kinds = append(in.kinds, kind)
	in.joint = append(in.joint, false)
	in.endsInDot = append(in.endsInDot, false)
}

// MarkJoint marks the most recently pushed token as directly adjacent to
// the token that will follow it.
func (in *Input) MarkJoint() {
	if len(in.joint) > 0 {
		in.joint[len(in.joint)-1] = true
	}
}

// MarkEndsInDot marks the most recently pushed token, a float literal, as
// ending in a dot.
func (in *Input) MarkEndsInDot() {
	if len(in.endsInDot) > 0 {
		in.endsInDot[len(in.endsInDot)-1] = true
	}
}

// Len returns the number of tokens.
func (in *Input) Len() int {
	return len(in.kinds)
}

// Kind returns the kind of token i.
func (in *Input) Kind(i int) syntax.Kind {
	return in.kinds[i]
}

// IsJoint returns whether token i is directly adjacent to token i+1.
func (in *Input) IsJoint(i int) bool {
	return in.joint[i]
}

// EndsInDot returns whether float token i ends in a dot.
func (in *Input) EndsInDot(i int) bool {
	return in.endsInDot[i]
}

// FromLexed builds an Input from a lexed buffer, dropping trivia. Two
// tokens are joint when no trivia separated them in the source.
func FromLexed(l *lex.Lexed) *Input {
	in := new(Input)
	var lastEnd uint32
	for i := range l.Len() {
		kind := l.Kind(i)
		if kind.IsTrivia() {
			continue
		}
		if in.Len() > 0 && l.Range(i).Start == lastEnd {
			in.MarkJoint()
		}
		in.Push(kind)
		if kind == syntax.FloatNumber && strings.HasSuffix(l.Text(i), ".") {
			in.MarkEndsInDot()
		}
		lastEnd = l.Range(i).End
	}
	return in
}
