package parser

import (
	"strings"
)

const codeFence = "```"

// Tokenize splits body into arguments. Text wrapped in double quotes, single
// quotes or triple backticks becomes one argument without its delimiters;
// everything else is split on whitespace. An opening delimiter with no match
// later in the text is treated as ordinary text.
func Tokenize(body string) []string {
	args := []string{}
	rest := strings.TrimSpace(body)

	for rest != "" {
		var arg string
		arg, rest = nextToken(rest)
		args = append(args, strings.TrimSpace(arg))
		rest = strings.TrimSpace(rest)
	}

	return args
}

// nextToken takes one token off the front of s, which must already be
// trimmed. It returns the token with delimiters stripped and the unconsumed
// remainder.
func nextToken(s string) (token, rest string) {
	if tok, rest, ok := delimited(s, `"`); ok {
		return tok, rest
	}
	if tok, rest, ok := delimited(s, `'`); ok {
		return tok, rest
	}
	if tok, rest, ok := delimited(s, codeFence); ok {
		return tok, rest
	}

	tok := firstField(s)
	return tok, s[len(tok):]
}

func delimited(s, delim string) (token, rest string, ok bool) {
	if !strings.HasPrefix(s, delim) {
		return "", s, false
	}
	end := strings.Index(s[len(delim):], delim)
	if end < 0 {
		return "", s, false
	}
	end += len(delim)
	return s[len(delim):end], s[end+len(delim):], true
}
