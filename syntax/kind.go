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

package syntax

import "fmt"

// Kind identifies what kind of token or node an element of a syntax tree
// is. Token kinds and node kinds share one enum so that a parser's event
// stream can name either.
type Kind uint8

const (
	Unrecognized Kind = iota // Unrecognized garbage in the input text.

	Whitespace  // Non-comment contiguous whitespace.
	Comment     // A single comment, doc or not.
	Ident       // An identifier.
	Underscore  // A lone _.
	Lifetime    // A quote followed by an identifier, 'a.
	IntNumber   // An integer literal.
	FloatNumber // A float literal; may glue a field chain like 0.1.
	String      // A string literal.
	Char        // A character literal.

	kwBegin
	TrueKw
	FalseKw
	AsKw
	BreakKw
	ConstKw
	ContinueKw
	CrateKw
	DynKw
	ElseKw
	EnumKw
	FnKw
	ForKw
	IfKw
	ImplKw
	InKw
	LetKw
	LoopKw
	MatchKw
	ModKw
	MoveKw
	MutKw
	PubKw
	RefKw
	ReturnKw
	SelfKw
	StaticKw
	StructKw
	SuperKw
	TraitKw
	TypeKw
	UnsafeKw
	UseKw
	WhereKw
	WhileKw
	kwEnd

	punctBegin
	Semi     // ;
	Comma    // ,
	Dot      // .
	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBrack   // [
	RBrack   // ]
	LAngle   // <
	RAngle   // >
	At       // @
	Pound    // #
	Tilde    // ~
	Question // ?
	Dollar   // $
	Amp      // &
	Pipe     // |
	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	Caret    // ^
	Percent  // %
	Eq       // =
	Bang     // !
	Colon    // :

	// Composite operators. The lexer and the token-tree model only ever see
	// single-character punctuation; these are produced by the parser gluing
	// Joint-spaced puncts back together.
	EqEq     // ==
	Neq      // !=
	LtEq     // <=
	GtEq     // >=
	AmpAmp   // &&
	PipePipe // ||
	Shl      // <<
	Shr      // >>
	punctEnd

	// Node kinds.
	SourceFile
	Literal
	PathExpr
	NameRef
	BinExpr
	PrefixExpr
	ParenExpr
	CallExpr
	ArgList
	FieldExpr
	ErrorNode
)

// IsKeyword returns whether this is a keyword token kind. Boolean literals
// count as keywords, as in the surface syntax.
func (k Kind) IsKeyword() bool {
	return k > kwBegin && k < kwEnd
}

// IsPunct returns whether this is a punctuation token kind, composite
// operators included.
func (k Kind) IsPunct() bool {
	return k > punctBegin && k < punctEnd
}

// IsLiteral returns whether this is a literal token kind.
func (k Kind) IsLiteral() bool {
	return k >= IntNumber && k <= Char
}

// IsTrivia returns whether this token kind carries no syntactic weight.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Comment
}

var charKinds = map[rune]Kind{
	';': Semi, ',': Comma, '.': Dot,
	'(': LParen, ')': RParen,
	'{': LBrace, '}': RBrace,
	'[': LBrack, ']': RBrack,
	'<': LAngle, '>': RAngle,
	'@': At, '#': Pound, '~': Tilde, '?': Question, '$': Dollar,
	'&': Amp, '|': Pipe, '+': Plus, '-': Minus, '*': Star,
	'/': Slash, '^': Caret, '%': Percent, '=': Eq, '!': Bang, ':': Colon,
}

// KindFromChar returns the punctuation kind for a single character.
func KindFromChar(r rune) (Kind, bool) {
	k, ok := charKinds[r]
	return k, ok
}

var keywordKinds = map[string]Kind{
	"true": TrueKw, "false": FalseKw,
	"as": AsKw, "break": BreakKw, "const": ConstKw, "continue": ContinueKw,
	"crate": CrateKw, "dyn": DynKw, "else": ElseKw, "enum": EnumKw,
	"fn": FnKw, "for": ForKw, "if": IfKw, "impl": ImplKw, "in": InKw,
	"let": LetKw, "loop": LoopKw, "match": MatchKw, "mod": ModKw,
	"move": MoveKw, "mut": MutKw, "pub": PubKw, "ref": RefKw,
	"return": ReturnKw, "self": SelfKw, "static": StaticKw,
	"struct": StructKw, "super": SuperKw, "trait": TraitKw, "type": TypeKw,
	"unsafe": UnsafeKw, "use": UseKw, "where": WhereKw, "while": WhileKw,
}

// KindFromKeyword returns the keyword kind for the given identifier text.
func KindFromKeyword(text string) (Kind, bool) {
	k, ok := keywordKinds[text]
	return k, ok
}

var kindNames = map[Kind]string{
	Unrecognized: "Unrecognized",
	Whitespace:   "Whitespace",
	Comment:      "Comment",
	Ident:        "Ident",
	Underscore:   "Underscore",
	Lifetime:     "Lifetime",
	IntNumber:    "IntNumber",
	FloatNumber:  "FloatNumber",
	String:       "String",
	Char:         "Char",
	TrueKw:       "TrueKw",
	FalseKw:      "FalseKw",
	AsKw:         "AsKw",
	BreakKw:      "BreakKw",
	ConstKw:      "ConstKw",
	ContinueKw:   "ContinueKw",
	CrateKw:      "CrateKw",
	DynKw:        "DynKw",
	ElseKw:       "ElseKw",
	EnumKw:       "EnumKw",
	FnKw:         "FnKw",
	ForKw:        "ForKw",
	IfKw:         "IfKw",
	ImplKw:       "ImplKw",
	InKw:         "InKw",
	LetKw:        "LetKw",
	LoopKw:       "LoopKw",
	MatchKw:      "MatchKw",
	ModKw:        "ModKw",
	MoveKw:       "MoveKw",
	MutKw:        "MutKw",
	PubKw:        "PubKw",
	RefKw:        "RefKw",
	ReturnKw:     "ReturnKw",
	SelfKw:       "SelfKw",
	StaticKw:     "StaticKw",
	StructKw:     "StructKw",
	SuperKw:      "SuperKw",
	TraitKw:      "TraitKw",
	TypeKw:       "TypeKw",
	UnsafeKw:     "UnsafeKw",
	UseKw:        "UseKw",
	WhereKw:      "WhereKw",
	WhileKw:      "WhileKw",
	Semi:         "Semi",
	Comma:        "Comma",
	Dot:          "Dot",
	LParen:       "LParen",
	RParen:       "RParen",
	LBrace:       "LBrace",
	RBrace:       "RBrace",
	LBrack:       "LBrack",
	RBrack:       "RBrack",
	LAngle:       "LAngle",
	RAngle:       "RAngle",
	At:           "At",
	Pound:        "Pound",
	Tilde:        "Tilde",
	Question:     "Question",
	Dollar:       "Dollar",
	Amp:          "Amp",
	Pipe:         "Pipe",
	Plus:         "Plus",
	Minus:        "Minus",
	Star:         "Star",
	Slash:        "Slash",
	Caret:        "Caret",
	Percent:      "Percent",
	Eq:           "Eq",
	Bang:         "Bang",
	Colon:        "Colon",
	EqEq:         "EqEq",
	Neq:          "Neq",
	LtEq:         "LtEq",
	GtEq:         "GtEq",
	AmpAmp:       "AmpAmp",
	PipePipe:     "PipePipe",
	Shl:          "Shl",
	Shr:          "Shr",
	SourceFile:   "SourceFile",
	Literal:      "Literal",
	PathExpr:     "PathExpr",
	NameRef:      "NameRef",
	BinExpr:      "BinExpr",
	PrefixExpr:   "PrefixExpr",
	ParenExpr:    "ParenExpr",
	CallExpr:     "CallExpr",
	ArgList:      "ArgList",
	FieldExpr:    "FieldExpr",
	ErrorNode:    "ErrorNode",
}

// String implements [fmt.Stringer].
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("syntax.Kind(%d)", int(k))
}
