package docanalyzer

import "strings"

// tokKind enumerates the punctuation and literal classes the doc-type
// grammar's raw TypeExpr text breaks into, grounded on funxy's own
// internal/lexer token-kind split (one const per punctuation/literal
// category) applied to the doc-comment type syntax instead of funxy's
// source language.
type tokKind int

const (
	tEOF tokKind = iota
	tIdent
	tInt
	tString
	tLBracket
	tRBracket
	tLParen
	tRParen
	tLBrace
	tRBrace
	tComma
	tColon
	tQuestion
	tPipe
	tAmp
	tDot
	tEllipsis
	tMinus
	tPlus
	tLT
	tGT
	tBacktick
)

type token struct {
	kind tokKind
	text string
}

// lexTypeExpr tokenizes one doc-type-grammar string (spec.md §4.5's
// type-expression text carried raw by astshape's DocTag structs).
func lexTypeExpr(src string) []token {
	runes := []rune(src)
	n := len(runes)
	var toks []token
	i := 0
	for i < n {
		c := runes[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '.' && i+2 < n && runes[i+1] == '.' && runes[i+2] == '.':
			toks = append(toks, token{tEllipsis, "..."})
			i += 3
		case c == '.':
			toks = append(toks, token{tDot, "."})
			i++
		case c == '[':
			toks = append(toks, token{tLBracket, "["})
			i++
		case c == ']':
			toks = append(toks, token{tRBracket, "]"})
			i++
		case c == '(':
			toks = append(toks, token{tLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tRParen, ")"})
			i++
		case c == '{':
			toks = append(toks, token{tLBrace, "{"})
			i++
		case c == '}':
			toks = append(toks, token{tRBrace, "}"})
			i++
		case c == ',':
			toks = append(toks, token{tComma, ","})
			i++
		case c == ':':
			toks = append(toks, token{tColon, ":"})
			i++
		case c == '?':
			toks = append(toks, token{tQuestion, "?"})
			i++
		case c == '|':
			toks = append(toks, token{tPipe, "|"})
			i++
		case c == '&':
			toks = append(toks, token{tAmp, "&"})
			i++
		case c == '-':
			toks = append(toks, token{tMinus, "-"})
			i++
		case c == '+':
			toks = append(toks, token{tPlus, "+"})
			i++
		case c == '<':
			toks = append(toks, token{tLT, "<"})
			i++
		case c == '>':
			toks = append(toks, token{tGT, ">"})
			i++
		case c == '`':
			toks = append(toks, token{tBacktick, "`"})
			i++
		case c == '"' || c == '\'':
			quote := c
			j := i + 1
			var sb strings.Builder
			for j < n && runes[j] != quote {
				sb.WriteRune(runes[j])
				j++
			}
			toks = append(toks, token{tString, sb.String()})
			i = j + 1
		case c >= '0' && c <= '9':
			j := i
			for j < n && ((runes[j] >= '0' && runes[j] <= '9') || runes[j] == '.') {
				j++
			}
			toks = append(toks, token{tInt, string(runes[i:j])})
			i = j
		case isIdentStart(c):
			j := i
			for j < n && isIdentPart(runes[j]) {
				j++
			}
			toks = append(toks, token{tIdent, string(runes[i:j])})
			i = j
		default:
			i++
		}
	}
	toks = append(toks, token{tEOF, ""})
	return toks
}

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
