// Package filter normalises lookalike characters in chat messages, checks
// them against a word blocklist and picks canned replies and reactions.
package filter

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

//go:embed data/*.json
var defaults embed.FS

// Homoglyphs maps a plain letter to the characters that imitate it.
type Homoglyphs map[string][]string

type entry struct {
	word string
	re   *regexp.Regexp
}

// Filter is safe for concurrent use. Reload swaps its data atomically.
type Filter struct {
	homoglyphPath string
	blocklistPath string
	repliesPath   string

	mu       sync.RWMutex
	replacer *strings.Replacer
	glyphs   int
	entries  []entry
	replies  Replies
}

type Option func(*Filter)

// WithRepliesPath loads replies and reactions from path instead of the
// embedded default.
func WithRepliesPath(path string) Option {
	return func(f *Filter) { f.repliesPath = path }
}

// New loads the homoglyph table, the blocklist and the replies. An empty path
// selects the embedded default.
func New(homoglyphPath, blocklistPath string, opts ...Option) (*Filter, error) {
	f := &Filter{homoglyphPath: homoglyphPath, blocklistPath: blocklistPath}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Reload re-reads every data file.
func (f *Filter) Reload() error {
	glyphs, err := LoadHomoglyphs(f.homoglyphPath)
	if err != nil {
		return err
	}
	words, err := LoadBlocklist(f.blocklistPath)
	if err != nil {
		return err
	}

	replies, err := LoadReplies(f.repliesPath)
	if err != nil {
		return err
	}

	replacer, n := buildReplacer(glyphs)
	entries := compileBlocklist(words)

	f.mu.Lock()
	f.replacer = replacer
	f.glyphs = n
	f.entries = entries
	f.replies = replies
	f.mu.Unlock()
	return nil
}

// Replace applies compatibility normalisation to text and then swaps every
// known homoglyph for the letter it imitates.
func (f *Filter) Replace(text string) string {
	f.mu.RLock()
	r := f.replacer
	f.mu.RUnlock()

	text = norm.NFKC.String(text)
	if r == nil {
		return text
	}
	return r.Replace(text)
}

// Match reports the first blocklist entry that matches the whole of content,
// ignoring case.
func (f *Filter) Match(content string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, e := range f.entries {
		if e.re.MatchString(content) {
			return e.word, true
		}
	}
	return "", false
}

// Size returns the number of homoglyph substitutions and blocklist entries
// currently loaded.
func (f *Filter) Size() (glyphs, words int) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.glyphs, len(f.entries)
}

func LoadHomoglyphs(path string) (Homoglyphs, error) {
	data, err := readData(path, "data/homoglyphs.json")
	if err != nil {
		return nil, err
	}
	var h Homoglyphs
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode homoglyphs: %w", err)
	}
	return h, nil
}

// LoadBlocklist accepts either a JSON array of patterns or an object with a
// "blocklist" array.
func LoadBlocklist(path string) ([]string, error) {
	data, err := readData(path, "data/blocklist.json")
	if err != nil {
		return nil, err
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Blocklist []string `json:"blocklist"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode blocklist: %w", err)
	}
	return wrapped.Blocklist, nil
}

func readData(path, embedded string) ([]byte, error) {
	if path == "" {
		return defaults.ReadFile(embedded)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func buildReplacer(h Homoglyphs) (*strings.Replacer, int) {
	letters := make([]string, 0, len(h))
	for letter := range h {
		letters = append(letters, letter)
	}
	sort.Strings(letters)

	var pairs []string
	for _, letter := range letters {
		for _, glyph := range h[letter] {
			// Replace runs after NFKC, so match the normalised form.
			glyph = norm.NFKC.String(glyph)
			if glyph == "" || glyph == letter {
				continue
			}
			pairs = append(pairs, glyph, letter)
		}
	}
	return strings.NewReplacer(pairs...), len(pairs) / 2
}

// compileBlocklist anchors every entry. Entries that are not valid regular
// expressions are matched literally.
func compileBlocklist(words []string) []entry {
	entries := make([]entry, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w) == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)^(?:` + w + `)$`)
		if err != nil {
			re = regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(w) + `$`)
		}
		entries = append(entries, entry{word: w, re: re})
	}
	return entries
}
