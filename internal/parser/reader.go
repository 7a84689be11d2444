package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultFloatBound is the largest magnitude Reader.Float accepts unless the
// Reader is configured otherwise.
const DefaultFloatBound = 703_687_441_776.64

// maxSafeInteger is the largest integer a float64 represents exactly.
const maxSafeInteger = 1<<53 - 1

var (
	intPattern   = regexp.MustCompile(`^-?\d+$`)
	floatPattern = regexp.MustCompile(`^-?\d*(\.\d+)?$`)

	snowflakePattern = regexp.MustCompile(`^\d{17,19}$`)
	userMention      = regexp.MustCompile(`^<@!?(\d{17,19})>$`)
	roleMention      = regexp.MustCompile(`^<@&(\d{17,19})>$`)
	channelMention   = regexp.MustCompile(`^<#(\d{17,19})>$`)
)

// Validator accepts or rejects a value read from a Reader.
type Validator[T any] func(T) bool

func valid[T any](v T, validators []Validator[T]) bool {
	for _, fn := range validators {
		if fn != nil && !fn(v) {
			return false
		}
	}
	return true
}

// Reader reads arguments one at a time. Every accessor consumes exactly one
// argument, except Remaining which consumes all of them, and none of them
// consume anything when called with peek set.
//
// A rejected or malformed argument is still consumed. Use Seek to step back.
type Reader struct {
	args  []string
	body  string
	index int

	// FloatBound limits the magnitude of values returned by Float.
	FloatBound float64
}

// NewReader returns a Reader over args. body is the raw text args were
// tokenized from; it is used by Remaining.
func NewReader(args []string, body string) *Reader {
	return &Reader{
		args:       append([]string(nil), args...),
		body:       body,
		FloatBound: DefaultFloatBound,
	}
}

// Args returns a copy of all arguments, consumed or not.
func (r *Reader) Args() []string { return append([]string(nil), r.args...) }

// Body returns the raw argument text.
func (r *Reader) Body() string { return r.body }

// Index returns the position of the next unread argument.
func (r *Reader) Index() int { return r.index }

// Len returns the number of arguments.
func (r *Reader) Len() int { return len(r.args) }

// String returns the next argument. ok is false when the arguments are
// exhausted or a validator rejects the value.
func (r *Reader) String(peek bool, validators ...Validator[string]) (string, bool) {
	if r.index >= len(r.args) {
		return "", false
	}
	value := r.args[r.index]
	if !peek {
		r.index++
	}
	if !valid(value, validators) {
		return "", false
	}
	return value, true
}

// Remaining returns the part of the body that has not been read yet, with
// the original spacing and quoting of unread arguments intact. Unless peek is
// set the Reader is moved to the end, so no further arguments can be read.
func (r *Reader) Remaining(peek bool) (string, bool) {
	if r.index >= len(r.args) {
		return "", false
	}

	remaining := strings.TrimSpace(r.body)
	for i := 0; i < r.index && remaining != ""; i++ {
		_, remaining = nextToken(remaining)
		remaining = strings.TrimSpace(remaining)
	}

	if !peek {
		r.index = len(r.args)
	}
	return remaining, true
}

// Int reads the next argument as a base-10 integer. Decimal points, signs
// other than a leading minus and values beyond ±(2^53-1) are rejected.
func (r *Reader) Int(peek bool, validators ...Validator[int64]) (int64, bool) {
	str, ok := r.String(peek)
	if !ok || !intPattern.MatchString(str) {
		return 0, false
	}

	n, err := strconv.ParseInt(str, 10, 64)
	if err != nil || n > maxSafeInteger || n < -maxSafeInteger {
		return 0, false
	}
	if !valid(n, validators) {
		return 0, false
	}
	return n, true
}

// Float reads the next argument as a decimal number like "3", "-0.5" or
// ".25". Exponents are rejected, as are values whose magnitude exceeds
// FloatBound.
func (r *Reader) Float(peek bool, validators ...Validator[float64]) (float64, bool) {
	str, ok := r.String(peek)
	if !ok || !floatPattern.MatchString(str) {
		return 0, false
	}

	f, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}

	bound := r.FloatBound
	if bound <= 0 {
		bound = DefaultFloatBound
	}
	if f > bound || f < -bound {
		return 0, false
	}
	if !valid(f, validators) {
		return 0, false
	}
	return f, true
}

// UserID reads the next argument as a user ID, given either bare or as a
// <@id> / <@!id> mention.
func (r *Reader) UserID(peek bool, validators ...Validator[string]) (string, bool) {
	return r.snowflake(peek, userMention, validators)
}

// RoleID reads the next argument as a role ID, given either bare or as a
// <@&id> mention.
func (r *Reader) RoleID(peek bool, validators ...Validator[string]) (string, bool) {
	return r.snowflake(peek, roleMention, validators)
}

// ChannelID reads the next argument as a channel ID, given either bare or as
// a <#id> mention.
func (r *Reader) ChannelID(peek bool, validators ...Validator[string]) (string, bool) {
	return r.snowflake(peek, channelMention, validators)
}

func (r *Reader) snowflake(peek bool, mention *regexp.Regexp, validators []Validator[string]) (string, bool) {
	str, ok := r.String(peek)
	if !ok {
		return "", false
	}

	var id string
	if snowflakePattern.MatchString(str) {
		id = str
	} else if m := mention.FindStringSubmatch(str); m != nil {
		id = m[1]
	} else {
		return "", false
	}

	if !valid(id, validators) {
		return "", false
	}
	return id, true
}

// Seek moves the Reader by amount arguments, backwards when amount is
// negative. The position is clamped to the argument range.
func (r *Reader) Seek(amount int) *Reader {
	r.index += amount
	if r.index < 0 {
		r.index = 0
	}
	if r.index > len(r.args) {
		r.index = len(r.args)
	}
	return r
}
