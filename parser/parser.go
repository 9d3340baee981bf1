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
	"slices"

	"github.com/macrotools/tokenbridge/syntax"
)

// EntryPoint selects what the parser should parse.
type EntryPoint uint8

const (
	// EntrySourceFile parses the whole input as a sequence of
	// semicolon-separated expressions under one SourceFile node.
	EntrySourceFile EntryPoint = iota

	// EntryExpr parses a single leading expression and stops, leaving the
	// rest of the input unconsumed. This is the prefix entry used to peel
	// fragments off a repetition.
	EntryExpr
)

// Parse runs the selected entry point over in and returns the resulting
// event stream. Errors are reported as [StepError] events in the stream;
// Parse itself never fails.
func Parse(in *Input, entry EntryPoint) []Step {
	p := &parser{in: in}
	switch entry {
	case EntrySourceFile:
		p.sourceFile()
	case EntryExpr:
		if !p.expr(0) {
			p.error("expected expression")
		}
	}
	return p.steps
}

// Prefix operators bind tighter than any binary operator.
const prefixPower = 11

type parser struct {
	in    *Input
	pos   int
	steps []Step
}

func (p *parser) eof() bool {
	return p.pos >= p.in.Len()
}

// cur returns the current token kind, or Unrecognized at end of input.
// Unrecognized never matches the grammar, so it doubles as an EOF sentinel.
func (p *parser) cur() syntax.Kind {
	return p.at(0)
}

func (p *parser) at(n int) syntax.Kind {
	if p.pos+n >= p.in.Len() {
		return syntax.Unrecognized
	}
	return p.in.Kind(p.pos + n)
}

func (p *parser) joint() bool {
	return p.pos < p.in.Len() && p.in.IsJoint(p.pos)
}

func (p *parser) enter(kind syntax.Kind) {
	p.steps = append(p.steps, StepEnter{Kind: kind})
}

// enterAt opens a node retroactively, wrapping every event emitted since
// steps had idx entries. This is how an already-parsed left operand ends up
// inside the expression node that consumes it.
func (p *parser) enterAt(idx int, kind syntax.Kind) {
	p.steps = slices.Insert(p.steps, idx, Step(StepEnter{Kind: kind}))
}

func (p *parser) exit() {
	p.steps = append(p.steps, StepExit{})
}

func (p *parser) bump(kind syntax.Kind) {
	p.glued(kind, 1)
}

func (p *parser) glued(kind syntax.Kind, n int) {
	p.steps = append(p.steps, StepToken{Kind: kind, InputTokens: uint8(n)})
	p.pos += n
}

func (p *parser) error(msg string) {
	p.steps = append(p.steps, StepError{Msg: msg})
}

func (p *parser) sourceFile() {
	p.enter(syntax.SourceFile)
	for !p.eof() {
		if p.expr(0) {
			if p.cur() == syntax.Semi {
				p.bump(syntax.Semi)
			}
			continue
		}

		// Not the start of an expression. Report it, swallow the token into
		// an error node, and keep going.
		p.error("expected expression")
		p.enter(syntax.ErrorNode)
		p.bump(p.cur())
		p.exit()
	}
	p.exit()
}

// expr parses one expression whose operators all bind at least as tightly
// as minPower. Returns false, consuming nothing, if the current token
// cannot start an expression.
func (p *parser) expr(minPower int) bool {
	lhsStart := len(p.steps)
	if !p.lhs() {
		return false
	}

	for {
		switch p.cur() {
		case syntax.Dot:
			p.postfixDot(lhsStart)
			continue
		case syntax.LParen:
			p.callArgs(lhsStart)
			continue
		}

		op, n, power, rightAssoc := p.binaryOp()
		if power == 0 || power < minPower {
			return true
		}
		p.enterAt(lhsStart, syntax.BinExpr)
		p.glued(op, n)
		next := power + 1
		if rightAssoc {
			next = power
		}
		if !p.expr(next) {
			p.error("expected expression")
		}
		p.exit()
	}
}

func (p *parser) lhs() bool {
	switch kind := p.cur(); kind {
	case syntax.IntNumber, syntax.FloatNumber, syntax.String, syntax.Char,
		syntax.TrueKw, syntax.FalseKw:
		p.enter(syntax.Literal)
		p.bump(kind)
		p.exit()
		return true

	case syntax.Ident:
		p.enter(syntax.PathExpr)
		p.enter(syntax.NameRef)
		p.bump(kind)
		p.exit()
		p.exit()
		return true

	case syntax.Minus, syntax.Bang, syntax.Star, syntax.Amp:
		p.enter(syntax.PrefixExpr)
		p.bump(kind)
		if !p.expr(prefixPower) {
			p.error("expected expression")
		}
		p.exit()
		return true

	case syntax.LParen:
		p.enter(syntax.ParenExpr)
		p.bump(kind)
		if !p.expr(0) {
			p.error("expected expression")
		}
		if p.cur() == syntax.RParen {
			p.bump(syntax.RParen)
		} else {
			p.error("expected )")
		}
		p.exit()
		return true

	default:
		return false
	}
}

// postfixDot parses a field access. The interesting case is a float
// literal in field position: a.0.1 lexes the 0.1 as one float token, which
// must come back apart into two field names. The parser opens both field
// nodes and emits a FloatSplit; the sink closes what the split covers.
func (p *parser) postfixDot(lhsStart int) {
	switch next := p.at(1); next {
	case syntax.Ident, syntax.IntNumber:
		p.enterAt(lhsStart, syntax.FieldExpr)
		p.bump(syntax.Dot)
		p.enter(syntax.NameRef)
		p.bump(next)
		p.exit()
		p.exit()

	case syntax.FloatNumber:
		endsInDot := p.in.EndsInDot(p.pos + 1)
		p.steps = slices.Insert(p.steps, lhsStart,
			Step(StepEnter{Kind: syntax.FieldExpr}), // Outer: closed by the sink, or below.
			Step(StepEnter{Kind: syntax.FieldExpr}), // Inner: always closed by the sink.
		)
		p.bump(syntax.Dot)
		p.steps = append(p.steps, StepFloatSplit{EndsInDot: endsInDot})
		p.pos++ // The float input token.
		if endsInDot {
			// No right half, so the sink only closes the inner node.
			p.exit()
		}

	default:
		p.enterAt(lhsStart, syntax.FieldExpr)
		p.bump(syntax.Dot)
		p.error("expected field name")
		p.exit()
	}
}

func (p *parser) callArgs(lhsStart int) {
	p.enterAt(lhsStart, syntax.CallExpr)
	p.enter(syntax.ArgList)
	p.bump(syntax.LParen)
	for p.cur() != syntax.RParen && !p.eof() {
		if !p.expr(0) {
			p.error("expected expression")
			break
		}
		if p.cur() != syntax.Comma {
			break
		}
		p.bump(syntax.Comma)
	}
	if p.cur() == syntax.RParen {
		p.bump(syntax.RParen)
	} else {
		p.error("expected )")
	}
	p.exit()
	p.exit()
}

// binaryOp inspects the current token (and, for Joint puncts, its
// successor) and classifies it as a binary operator. A zero power means
// the current token is not one.
func (p *parser) binaryOp() (op syntax.Kind, n, power int, rightAssoc bool) {
	one := func(op syntax.Kind, power int) (syntax.Kind, int, int, bool) {
		return op, 1, power, false
	}
	two := func(op syntax.Kind, power int) (syntax.Kind, int, int, bool) {
		return op, 2, power, false
	}

	switch p.cur() {
	case syntax.Star:
		return one(syntax.Star, 10)
	case syntax.Slash:
		return one(syntax.Slash, 10)
	case syntax.Percent:
		return one(syntax.Percent, 10)
	case syntax.Plus:
		return one(syntax.Plus, 9)
	case syntax.Minus:
		return one(syntax.Minus, 9)
	case syntax.LAngle:
		if p.joint() {
			switch p.at(1) {
			case syntax.LAngle:
				return two(syntax.Shl, 8)
			case syntax.Eq:
				return two(syntax.LtEq, 4)
			}
		}
		return one(syntax.LAngle, 4)
	case syntax.RAngle:
		if p.joint() {
			switch p.at(1) {
			case syntax.RAngle:
				return two(syntax.Shr, 8)
			case syntax.Eq:
				return two(syntax.GtEq, 4)
			}
		}
		return one(syntax.RAngle, 4)
	case syntax.Amp:
		if p.joint() && p.at(1) == syntax.Amp {
			return two(syntax.AmpAmp, 3)
		}
		return one(syntax.Amp, 7)
	case syntax.Caret:
		return one(syntax.Caret, 6)
	case syntax.Pipe:
		if p.joint() && p.at(1) == syntax.Pipe {
			return two(syntax.PipePipe, 2)
		}
		return one(syntax.Pipe, 5)
	case syntax.Eq:
		if p.joint() && p.at(1) == syntax.Eq {
			return two(syntax.EqEq, 4)
		}
		return syntax.Eq, 1, 1, true
	case syntax.Bang:
		if p.joint() && p.at(1) == syntax.Eq {
			return two(syntax.Neq, 4)
		}
	}
	return 0, 0, 0, false
}
