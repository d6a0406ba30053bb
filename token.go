package logo

import (
	"math"
	"strconv"
	"strings"
)

// tokenKind classifies a surface token. The same kinds come out of the text
// scanner and the list re-tokenizer, so the evaluator never knows which one
// is feeding it.
type tokenKind uint8

const (
	tkNone tokenKind = iota
	tkEOF
	tkWord
	tkQuoted // "word literal
	tkColon  // :name variable reference
	tkNumber
	tkLeftBracket // carries the complete pending sublist
	tkRightBracket
	tkLeftParen
	tkRightParen
	tkPlus
	tkMinus // infix minus
	tkUnaryMinus
	tkStar
	tkSlash
	tkEquals
	tkLess
	tkGreater
)

// A token pairs a kind with its payload: the raw spelling for words and
// numbers (quoted/colon spellings have their prefix stripped), the parsed
// number, and for tkLeftBracket the already-built sublist node that the
// consumer must take instead of rescanning text.
type token struct {
	kind tokenKind
	text string
	num  float32
	list Node
}

// A tokenSource produces tokens one at a time with single-token lookahead.
// Two implementations exist: the text scanner, and a reader that walks a
// stored list and classifies its words back into token kinds with the same
// rules the scanner uses.
type tokenSource interface {
	next() (token, *Error)
	peek() (token, *Error)
}

// bindingPower returns the Pratt precedence of an infix operator token, or
// zero for anything that is not one.
func bindingPower(k tokenKind) int {
	switch k {
	case tkEquals, tkLess, tkGreater:
		return 10
	case tkPlus, tkMinus:
		return 20
	case tkStar, tkSlash:
		return 30
	}
	return 0
}

func opText(k tokenKind) string {
	switch k {
	case tkPlus:
		return "+"
	case tkMinus, tkUnaryMinus:
		return "-"
	case tkStar:
		return "*"
	case tkSlash:
		return "/"
	case tkEquals:
		return "="
	case tkLess:
		return "<"
	case tkGreater:
		return ">"
	case tkLeftBracket:
		return "["
	case tkRightBracket:
		return "]"
	case tkLeftParen:
		return "("
	case tkRightParen:
		return ")"
	}
	return ""
}

// endsValue reports whether a token can end a value, which is what decides
// that a following minus sign is infix rather than a negation.
func endsValue(k tokenKind) bool {
	switch k {
	case tkNumber, tkColon, tkRightParen, tkLeftBracket:
		return true
	}
	return false
}

func isOperatorByte(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '=', '<', '>':
		return true
	}
	return false
}

func isDelimiterByte(c byte) bool {
	switch c {
	case '[', ']', '(', ')', ';':
		return true
	}
	return isOperatorByte(c)
}

// parseNumber parses a numeric literal, accepting the usual decimal and
// E-exponent forms plus the N suffix for negative exponents: 1n4 is 0.0001.
func parseNumber(text string) (float32, bool) {
	if text == "" {
		return 0, false
	}
	if i := strings.IndexAny(text, "nN"); i > 0 {
		mant, exp := text[:i], text[i+1:]
		if exp == "" || !allDigits(exp) {
			return 0, false
		}
		m, err := strconv.ParseFloat(mant, 32)
		if err != nil {
			return 0, false
		}
		e, err := strconv.Atoi(exp)
		if err != nil {
			return 0, false
		}
		return float32(m * math.Pow(10, float64(-e))), true
	}
	f, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// classifyWord maps a stored word's spelling back onto the token kind the
// scanner would have produced for it, using prev for minus disambiguation.
func classifyWord(text string, prev tokenKind) token {
	switch text {
	case "+":
		return token{kind: tkPlus, text: text}
	case "-":
		if endsValue(prev) {
			return token{kind: tkMinus, text: text}
		}
		return token{kind: tkUnaryMinus, text: text}
	case "*":
		return token{kind: tkStar, text: text}
	case "/":
		return token{kind: tkSlash, text: text}
	case "=":
		return token{kind: tkEquals, text: text}
	case "<":
		return token{kind: tkLess, text: text}
	case ">":
		return token{kind: tkGreater, text: text}
	case "(":
		return token{kind: tkLeftParen, text: text}
	case ")":
		return token{kind: tkRightParen, text: text}
	}
	if text == "" {
		return token{kind: tkWord}
	}
	if text[0] == '"' {
		return token{kind: tkQuoted, text: text[1:]}
	}
	if text[0] == ':' && len(text) > 1 {
		return token{kind: tkColon, text: text[1:]}
	}
	if n, ok := parseNumber(text); ok {
		return token{kind: tkNumber, text: text, num: n}
	}
	return token{kind: tkWord, text: text}
}
