// Package faq fetches the community FAQ document and searches it.
package faq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/keshon/support-bot/pkg/retrylimit"
	"github.com/keshon/support-bot/pkg/util"
	"github.com/rs/zerolog"
)

const (
	DefaultURL = "https://help.yessness.com/assets/json/faq.json"

	// Threshold is the highest fuzzy score a search hit may have.
	Threshold = 0.3

	cacheKey     = "faq"
	fetchTimeout = 15 * time.Second
	maxAttempts  = 3
)

var (
	ErrNoEntry   = errors.New("no question found")
	ErrNoResults = errors.New("no results found")
)

// Entry is one question; Answer holds HTML.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Result is a search hit. Index points into the full entry list.
type Result struct {
	Index int
	Entry Entry
	Score float64
}

type Client struct {
	url    string
	http   *http.Client
	cache  *expirable.LRU[string, []Entry]
	lim    *retrylimit.AdaptiveLimiter
	conv   *md.Converter
	logger zerolog.Logger
}

// New returns a client for the document at url. Fetched entries are kept
// for ttl. A nil httpClient means http.DefaultClient.
func New(url string, ttl time.Duration, httpClient *http.Client, logger zerolog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		url:    url,
		http:   httpClient,
		cache:  expirable.NewLRU[string, []Entry](1, nil, ttl),
		lim:    retrylimit.NewAdaptiveLimiter(2, 1, 5, 1, 0.5),
		conv:   md.NewConverter("", true, nil),
		logger: logger.With().Str("component", "faq").Logger(),
	}
}

// Entries returns the FAQ, from cache when fresh.
func (c *Client) Entries(ctx context.Context) ([]Entry, error) {
	if entries, ok := c.cache.Get(cacheKey); ok {
		return entries, nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var entries []Entry
	err := retrylimit.WithRetryMax(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return &retrylimit.FatalError{Err: err}
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if err := retrylimit.CheckResponse(resp); err != nil {
			return err
		}
		if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
			return &retrylimit.FatalError{Err: fmt.Errorf("decode faq: %w", err)}
		}
		return nil
	}, c.lim, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("fetch faq: %w", err)
	}

	c.cache.Add(cacheKey, entries)
	c.logger.Debug().Int("entries", len(entries)).Msg("faq refreshed")
	return entries, nil
}

// Get returns the entry at index, which is zero based.
func (c *Client) Get(ctx context.Context, index int) (Entry, error) {
	entries, err := c.Entries(ctx)
	if err != nil {
		return Entry{}, err
	}
	if index < 0 || index >= len(entries) {
		return Entry{}, ErrNoEntry
	}
	return entries[index], nil
}

// Search matches query against questions and answers, best hits first.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	entries, err := c.Entries(ctx)
	if err != nil {
		return nil, err
	}

	matches := util.FuzzySearch(entries, query, Threshold, func(e Entry) []string {
		return []string{e.Question, c.Markdown(e.Answer)}
	})
	if len(matches) == 0 {
		return nil, ErrNoResults
	}

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		results = append(results, Result{Index: m.Index, Entry: m.Item, Score: m.Score})
	}
	return results, nil
}

// Markdown converts an HTML answer for Discord. Unconvertible input is
// returned unchanged.
func (c *Client) Markdown(html string) string {
	out, err := c.conv.ConvertString(html)
	if err != nil {
		c.logger.Warn().Err(err).Msg("html conversion failed")
		return html
	}
	return strings.TrimSpace(out)
}

// Render formats an entry as a bold question followed by its answer.
func (c *Client) Render(e Entry) string {
	return "**" + e.Question + "**\n" + c.Markdown(e.Answer)
}

// Purge drops the cached document.
func (c *Client) Purge() {
	c.cache.Purge()
}
