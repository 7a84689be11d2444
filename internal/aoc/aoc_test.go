package aoc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const board = `{
	"event": "2023",
	"owner_id": 1,
	"members": {
		"1": {"id": 1, "name": "ada", "stars": 12, "local_score": 40, "global_score": 0},
		"2": {"id": 2, "name": "linus", "stars": 30, "local_score": 90, "global_score": 3},
		"3": {"id": 3, "name": null, "stars": 1, "local_score": 2, "global_score": 0},
		"4": {"id": 4, "name": "grace", "stars": 12, "local_score": 55, "global_score": 0}
	}
}`

func Test_Leaderboard(t *testing.T) {
	var gotPath, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if c, err := r.Cookie("session"); err == nil {
			gotCookie = c.Value
		}
		_, _ = w.Write([]byte(board))
	}))
	defer srv.Close()

	c := New("4242", "secret", 2023)
	c.BaseURL = srv.URL
	c.HTTP = srv.Client()

	lb, err := c.Leaderboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/2023/leaderboard/private/view/4242.json", gotPath)
	assert.Equal(t, "secret", gotCookie)
	assert.Equal(t, "1: linus - 30 stars\n2: grace - 12 stars\n3: ada - 12 stars\n4: (anonymous user #3) - 1 star", lb.Format())
}

func Test_Leaderboard_notConfigured(t *testing.T) {
	_, err := New("", "", 0).Leaderboard(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func Test_Leaderboard_badSession(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New("1", "expired", 2022)
	c.BaseURL = srv.URL

	_, err := c.Leaderboard(context.Background())
	assert.ErrorContains(t, err, "400")
	assert.Equal(t, 1, calls)
}

func Test_EventYear(t *testing.T) {
	testCases := []struct {
		name   string
		year   int
		now    time.Time
		expect int
	}{
		{name: "configured", year: 2019, now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), expect: 2019},
		{name: "december", now: time.Date(2024, 12, 3, 0, 0, 0, 0, time.UTC), expect: 2024},
		{name: "before december", now: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), expect: 2024},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Client{Year: tc.year}
			assert.Equal(t, tc.expect, c.EventYear(tc.now))
		})
	}
}

func Test_Format_empty(t *testing.T) {
	lb := &Leaderboard{}
	assert.Equal(t, "", lb.Format())
}
