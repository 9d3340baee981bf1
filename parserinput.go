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

package tokenbridge

import (
	"fmt"
	"strings"

	"github.com/macrotools/tokenbridge/parser"
	"github.com/macrotools/tokenbridge/syntax"
	"github.com/macrotools/tokenbridge/tt"
)

// toParserInput flattens a token tree into the kind sequence the parser
// runs over. Visible delimiters contribute an open and a close token;
// invisible ones contribute nothing. A Joint quote punct followed by an
// ident fuses back into one Lifetime token.
func toParserInput[S comparable](root *tt.Subtree[S]) *parser.Input {
	in := new(parser.Input)
	c := tt.NewCursor(root)

	for !c.EOF() {
		if end := c.End(); end != nil {
			switch end.Delimiter.Kind {
			case tt.Paren:
				in.Push(syntax.RParen)
			case tt.Brace:
				in.Push(syntax.RBrace)
			case tt.Bracket:
				in.Push(syntax.RBrack)
			}
			c.Bump()
			continue
		}

		switch t := c.Tree().(type) {
		case tt.Punct[S]:
			if t.Char == '\'' {
				next := c.Fork()
				next.Bump()
				if _, ok := next.Tree().(tt.Ident[S]); !ok {
					panic(fmt.Sprintf("tokenbridge: quote punct must be followed by an ident, found %v", next.Tree()))
				}
				in.Push(syntax.Lifetime)
				c.Bump()
				c.Bump()
				continue
			}
			kind, ok := syntax.KindFromChar(t.Char)
			if !ok {
				panic(fmt.Sprintf("tokenbridge: punct %q has no token kind", t.Char))
			}
			in.Push(kind)
			if t.Spacing == tt.Joint {
				in.MarkJoint()
			}
			c.Bump()

		case tt.Ident[S]:
			if kind, ok := syntax.KindFromKeyword(t.Text); ok {
				in.Push(kind)
			} else if t.Text == "_" {
				in.Push(syntax.Underscore)
			} else {
				in.Push(syntax.Ident)
			}
			c.Bump()

		case tt.Literal[S]:
			kind := literalKind(t.Text)
			in.Push(kind)
			if kind == syntax.FloatNumber && strings.HasSuffix(t.Text, ".") {
				in.MarkEndsInDot()
			}
			c.Bump()

		case *tt.Subtree[S]:
			switch t.Delimiter.Kind {
			case tt.Paren:
				in.Push(syntax.LParen)
			case tt.Brace:
				in.Push(syntax.LBrace)
			case tt.Bracket:
				in.Push(syntax.LBrack)
			}
			c.Descend()
		}
	}
	return in
}

// literalKind sniffs the token kind of a literal leaf from its text. Token
// trees carry literals as bare text, so the kind must be rediscovered when
// flattening for the parser.
func literalKind(text string) syntax.Kind {
	text = strings.TrimPrefix(text, "-")
	switch {
	case strings.HasPrefix(text, `"`):
		return syntax.String
	case strings.HasPrefix(text, "'"):
		return syntax.Char
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0X"):
		return syntax.IntNumber
	case strings.ContainsRune(text, '.'), strings.ContainsAny(text, "eE"):
		return syntax.FloatNumber
	default:
		return syntax.IntNumber
	}
}
