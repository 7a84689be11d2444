// Package parser turns prefixed chat messages into a command name and its
// arguments.
//
// A message like
//
//	?say "hello world" now
//
// parsed with the prefix "?" yields the command "say" and the arguments
// ["hello world", "now"]. Arguments may be grouped with double quotes, single
// quotes or triple-backtick code fences; the delimiters are never part of the
// resulting argument. The Reader returned with every successful parse gives
// typed, left-to-right access to the arguments.
//
// Parsing never panics and never returns an error value. Every failure is
// reported as data in a Result whose Success field is false, so that callers
// can decide per ErrorCode how loudly to complain.
package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrorCode identifies why a message could not be parsed as a command. Codes
// are ordered by the pipeline stage that detects them.
type ErrorCode int

const (
	None ErrorCode = iota
	BotAccountRejected
	EmptyContent
	NoPrefixMatch
	EmptyBodyAfterPrefix
	SpaceBeforeCommand
	NoCommandToken
)

func (c ErrorCode) String() string {
	switch c {
	case None:
		return "none"
	case BotAccountRejected:
		return "bot_account"
	case EmptyContent:
		return "empty_content"
	case NoPrefixMatch:
		return "no_prefix"
	case EmptyBodyAfterPrefix:
		return "no_body"
	case SpaceBeforeCommand:
		return "space_before_command"
	case NoCommandToken:
		return "no_command"
	default:
		return "unknown"
	}
}

// Message is the minimal view of a chat message the parser needs.
type Message struct {
	Content     string
	AuthorIsBot bool
}

// Options tune parsing.
type Options struct {
	// AllowBots accepts messages written by bot accounts.
	AllowBots bool

	// AllowSpaceBeforeCommand accepts "? help" as well as "?help".
	AllowSpaceBeforeCommand bool

	// IgnorePrefixCase compares prefixes case-insensitively.
	IgnorePrefixCase bool

	// FloatBound is handed to the Reader of every successful parse. Zero
	// means DefaultFloatBound.
	FloatBound float64
}

// Result is the outcome of Parse. When Success is true the Prefix, Command,
// Body, Arguments and Reader fields are set; otherwise Code and Error are.
type Result struct {
	Success bool

	// Prefix is the prefix the message matched, exactly as configured.
	Prefix string
	// Command is the first word after the prefix.
	Command string
	// Body is everything after the command, trimmed.
	Body string
	// Arguments is Body split into tokens.
	Arguments []string
	// Reader wraps Arguments with typed accessors.
	Reader *Reader

	Code  ErrorCode
	Error string
}

func fail(code ErrorCode, msg string) Result {
	return Result{Code: code, Error: msg}
}

// Parser holds a fixed set of Options. The zero value rejects bots, rejects a
// space before the command and matches prefixes case-sensitively.
type Parser struct {
	Options Options
}

// New returns a Parser using opts for every call to Parse.
func New(opts Options) *Parser {
	return &Parser{Options: opts}
}

// Parse parses msg against prefixes using the Parser's options.
func (p *Parser) Parse(msg Message, prefixes []string) Result {
	return Parse(msg, prefixes, p.Options)
}

// Parse matches the first prefix in prefixes that msg.Content starts with,
// splits off the command name and tokenizes the rest into arguments.
//
// Prefix order matters: when one prefix is a leading substring of another the
// earlier one in the slice wins.
func Parse(msg Message, prefixes []string, opts Options) Result {
	if msg.AuthorIsBot && !opts.AllowBots {
		return fail(BotAccountRejected, "message sent by a bot account")
	}

	if msg.Content == "" {
		return fail(EmptyContent, "message body empty")
	}

	prefix, ok := matchPrefix(msg.Content, prefixes, opts.IgnorePrefixCase)
	if !ok {
		return fail(NoPrefixMatch, "message does not start with prefix")
	}

	remaining := msg.Content[len(prefix):]
	if remaining == "" {
		return fail(EmptyBodyAfterPrefix, "no body after prefix")
	}

	if !opts.AllowSpaceBeforeCommand && startsWithSpace(remaining) {
		return fail(SpaceBeforeCommand, "space before command name")
	}

	remaining = strings.TrimSpace(remaining)

	command := firstField(remaining)
	if command == "" {
		return fail(NoCommandToken, "could not match a command")
	}

	body := strings.TrimSpace(remaining[len(command):])
	args := Tokenize(body)

	reader := NewReader(args, body)
	if opts.FloatBound > 0 {
		reader.FloatBound = opts.FloatBound
	}

	return Result{
		Success:   true,
		Prefix:    prefix,
		Command:   command,
		Body:      body,
		Arguments: args,
		Reader:    reader,
	}
}

func matchPrefix(content string, prefixes []string, ignoreCase bool) (string, bool) {
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		if strings.HasPrefix(content, p) {
			return p, true
		}
		if ignoreCase && len(content) >= len(p) && strings.EqualFold(content[:len(p)], p) {
			return p, true
		}
	}
	return "", false
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

// firstField returns the leading run of non-whitespace characters of s.
func firstField(s string) string {
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[:i]
	}
	return s
}

// Severity says how loudly a dispatcher should report a failed parse.
type Severity int

const (
	// SeverityIgnore is for ordinary chatter that was never meant as a
	// command.
	SeverityIgnore Severity = iota
	// SeverityDebug is for near misses the author may have meant as a
	// command.
	SeverityDebug
	// SeverityWarn is for anything unexpected.
	SeverityWarn
)

// SeverityOf classifies code.
func SeverityOf(code ErrorCode) Severity {
	switch code {
	case NoPrefixMatch, EmptyBodyAfterPrefix, EmptyContent:
		return SeverityIgnore
	case SpaceBeforeCommand, NoCommandToken, BotAccountRejected:
		return SeverityDebug
	default:
		return SeverityWarn
	}
}
