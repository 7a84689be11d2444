// Package aoc reads an Advent of Code private leaderboard.
package aoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/keshon/support-bot/pkg/retrylimit"
)

const (
	DefaultBaseURL = "https://adventofcode.com"
	maxAttempts    = 3
)

var ErrNotConfigured = errors.New("advent of code leaderboard is not configured")

type Member struct {
	ID          json.Number `json:"id"`
	Name        string      `json:"name"`
	Stars       int         `json:"stars"`
	LocalScore  int         `json:"local_score"`
	GlobalScore int         `json:"global_score"`
}

// DisplayName falls back to the anonymous label the site itself uses.
func (m Member) DisplayName() string {
	if strings.TrimSpace(m.Name) != "" {
		return m.Name
	}
	return "(anonymous user #" + m.ID.String() + ")"
}

type Leaderboard struct {
	Event   string            `json:"event"`
	OwnerID json.Number       `json:"owner_id"`
	Members map[string]Member `json:"members"`
}

// Ranked orders members by stars, then local score, then name.
func (l *Leaderboard) Ranked() []Member {
	members := make([]Member, 0, len(l.Members))
	for _, m := range l.Members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if a.Stars != b.Stars {
			return a.Stars > b.Stars
		}
		if a.LocalScore != b.LocalScore {
			return a.LocalScore > b.LocalScore
		}
		return a.DisplayName() < b.DisplayName()
	})
	return members
}

// Format renders one "rank: name - N stars" line per member.
func (l *Leaderboard) Format() string {
	var sb strings.Builder
	for i, m := range l.Ranked() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		unit := "stars"
		if m.Stars == 1 {
			unit = "star"
		}
		fmt.Fprintf(&sb, "%d: %s - %d %s", i+1, m.DisplayName(), m.Stars, unit)
	}
	return sb.String()
}

type Client struct {
	BaseURL       string
	LeaderboardID string
	Session       string
	// Year defaults to the current event year.
	Year int

	HTTP *http.Client
	lim  *retrylimit.AdaptiveLimiter
}

func New(leaderboardID, session string, year int) *Client {
	return &Client{
		BaseURL:       DefaultBaseURL,
		LeaderboardID: leaderboardID,
		Session:       session,
		Year:          year,
		HTTP:          &http.Client{Timeout: 15 * time.Second},
		lim:           retrylimit.NewAdaptiveLimiter(1, 1, 2, 1, 0.5),
	}
}

func (c *Client) Configured() bool {
	return c.LeaderboardID != "" && c.Session != ""
}

// EventYear is the configured year, or the latest event that has started
// by now. Events start on December 1st.
func (c *Client) EventYear(now time.Time) int {
	if c.Year > 0 {
		return c.Year
	}
	if now.Month() < time.December {
		return now.Year() - 1
	}
	return now.Year()
}

func (c *Client) URL(now time.Time) string {
	base := strings.TrimRight(c.BaseURL, "/")
	return base + "/" + strconv.Itoa(c.EventYear(now)) + "/leaderboard/private/view/" + c.LeaderboardID + ".json"
}

func (c *Client) Leaderboard(ctx context.Context) (*Leaderboard, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var lb Leaderboard
	err := retrylimit.WithRetryMax(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(time.Now()), nil)
		if err != nil {
			return &retrylimit.FatalError{Err: err}
		}
		req.AddCookie(&http.Cookie{Name: "session", Value: c.Session})

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if err := retrylimit.CheckResponse(resp); err != nil {
			return err
		}
		if err := json.NewDecoder(resp.Body).Decode(&lb); err != nil {
			return &retrylimit.FatalError{Err: fmt.Errorf("decode leaderboard: %w", err)}
		}
		return nil
	}, c.lim, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	return &lb, nil
}
