package token

import (
	"fmt"
)

const (
	EOF = -(iota + 1)
	EndOfStatement
	Error
	Identifier
	Reserved
	String
	Bytes
	Integer
	Float
	Formula

	BarBar
	LessEqual
	LessGreater
	GreaterEqual
	EqualEqual
	BangEqual
	AmpAmp
)

const (
	Comma  = ','
	Dot    = '.'
	LParen = '('
	RParen = ')'
)

const (
	Minus   = '-'
	Plus    = '+'
	Star    = '*'
	Slash   = '/'
	Percent = '%'
	Equal   = '='
	Less    = '<'
	Greater = '>'
	Bang    = '!'
)

var names = map[rune]string{
	EOF:            "end of input",
	EndOfStatement: "';'",
	Error:          "error",
	Identifier:     "identifier",
	Reserved:       "keyword",
	String:         "string",
	Bytes:          "bytes",
	Integer:        "integer",
	Float:          "float",
	Formula:        "formula",
	BarBar:         "||",
	LessEqual:      "<=",
	LessGreater:    "<>",
	GreaterEqual:   ">=",
	EqualEqual:     "==",
	BangEqual:      "!=",
	AmpAmp:         "&&",
}

// Operators maps two rune operators to their tokens.
var Operators = map[string]rune{
	"||": BarBar,
	"<=": LessEqual,
	"<>": LessGreater,
	">=": GreaterEqual,
	"==": EqualEqual,
	"!=": BangEqual,
	"&&": AmpAmp,
}

func IsOpRune(r rune) bool {
	switch r {
	case '-', '+', '*', '/', '%', '=', '<', '>', '!', '|', '&':
		return true
	}
	return false
}

func Format(r rune) string {
	if r > 0 {
		return fmt.Sprintf("'%c'", r)
	}
	if s, ok := names[r]; ok {
		return s
	}
	return fmt.Sprintf("token %d", r)
}
