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

// Package tt defines the token-tree representation passed to and from a
// macro engine: a flat, delimiter-nested alternative to a full concrete
// syntax tree.
//
// The type parameter S is the span type attached to every leaf and
// delimiter; conversions instantiate it with [span.Span], but anything
// comparable will do.
package tt

import (
	"fmt"
	"strings"
)

// Spacing records whether a punctuation character is directly adjacent to
// the token that follows it. It is what lets multi-character operators
// survive being split into single-character leaves.
type Spacing uint8

const (
	// Alone means the next token is not part of this operator.
	Alone Spacing = iota
	// Joint means the next token follows with no implied space, so the two
	// may be glued back into one operator.
	Joint
)

// String implements [fmt.Stringer].
func (s Spacing) String() string {
	switch s {
	case Alone:
		return "Alone"
	case Joint:
		return "Joint"
	default:
		return fmt.Sprintf("tt.Spacing(%d)", int(s))
	}
}

// DelimiterKind identifies the bracket pair around a [Subtree].
type DelimiterKind uint8

const (
	// Invisible is a grouping with no textual representation. It is the
	// zero value, so a zero [Delimiter] is an unspecified grouping.
	Invisible DelimiterKind = iota
	Paren
	Brace
	Bracket
)

// OpenText returns the textual form of this delimiter's opening bracket.
// Invisible delimiters have none.
func (k DelimiterKind) OpenText() string {
	switch k {
	case Paren:
		return "("
	case Brace:
		return "{"
	case Bracket:
		return "["
	default:
		return ""
	}
}

// CloseText returns the textual form of this delimiter's closing bracket.
// Invisible delimiters have none.
func (k DelimiterKind) CloseText() string {
	switch k {
	case Paren:
		return ")"
	case Brace:
		return "}"
	case Bracket:
		return "]"
	default:
		return ""
	}
}

// String implements [fmt.Stringer].
func (k DelimiterKind) String() string {
	switch k {
	case Invisible:
		return "Invisible"
	case Paren:
		return "Paren"
	case Brace:
		return "Brace"
	case Bracket:
		return "Bracket"
	default:
		return fmt.Sprintf("tt.DelimiterKind(%d)", int(k))
	}
}

// Delimiter is the bracket pair of a [Subtree]. Open and Close carry
// independent spans, because the two brackets sit at different places in
// the source.
type Delimiter[S comparable] struct {
	Open, Close S
	Kind        DelimiterKind
}

// TokenTree is one element of a token tree: either a leaf ([Ident],
// [Literal], [Punct]) or a nested [*Subtree].
type TokenTree[S comparable] interface {
	isTokenTree()

	// render appends this tree's textual form to sb. Returns the spacing to
	// apply before the next sibling.
	render(sb *strings.Builder) Spacing
}

// Ident is an identifier or keyword leaf, carrying its source text
// verbatim.
type Ident[S comparable] struct {
	Text string
	Span S
}

// Literal is a literal leaf (number, string, character), carrying its
// source text verbatim.
type Literal[S comparable] struct {
	Text string
	Span S
}

// Punct is a single punctuation character leaf.
type Punct[S comparable] struct {
	Char    rune
	Spacing Spacing
	Span    S
}

// Subtree is an ordered sequence of token trees grouped by a delimiter.
type Subtree[S comparable] struct {
	Delimiter Delimiter[S]
	Children  []TokenTree[S]
}

func (Ident[S]) isTokenTree()    {}
func (Literal[S]) isTokenTree()  {}
func (Punct[S]) isTokenTree()    {}
func (*Subtree[S]) isTokenTree() {}

func (t Ident[S]) render(sb *strings.Builder) Spacing {
	sb.WriteString(t.Text)
	return Alone
}

func (t Literal[S]) render(sb *strings.Builder) Spacing {
	sb.WriteString(t.Text)
	return Alone
}

func (t Punct[S]) render(sb *strings.Builder) Spacing {
	sb.WriteRune(t.Char)
	return t.Spacing
}

func (t *Subtree[S]) render(sb *strings.Builder) Spacing {
	sb.WriteString(t.Delimiter.Kind.OpenText())
	renderTrees(sb, t.Children)
	sb.WriteString(t.Delimiter.Kind.CloseText())
	return Alone
}

func renderTrees[S comparable](sb *strings.Builder, trees []TokenTree[S]) {
	spacing := Joint // No space before the first child.
	for _, tree := range trees {
		if spacing == Alone {
			sb.WriteByte(' ')
		}
		spacing = tree.render(sb)
	}
}

// String renders this subtree as source-like text, for diagnostics and
// tests. Siblings are separated by a space except after a Joint punct.
func (t *Subtree[S]) String() string {
	var sb strings.Builder
	t.render(&sb)
	return sb.String()
}

// String implements [fmt.Stringer].
func (t Ident[S]) String() string { return t.Text }

// String implements [fmt.Stringer].
func (t Literal[S]) String() string { return t.Text }

// String implements [fmt.Stringer].
func (t Punct[S]) String() string { return string(t.Char) }

// Wrap wraps trees in an invisible-delimited subtree, unless trees is a
// single subtree already, in which case that subtree is returned as is.
func Wrap[S comparable](trees ...TokenTree[S]) *Subtree[S] {
	if len(trees) == 1 {
		if sub, ok := trees[0].(*Subtree[S]); ok {
			return sub
		}
	}
	return &Subtree[S]{Children: trees}
}
