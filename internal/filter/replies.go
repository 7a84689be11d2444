package filter

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Response is a canned reply to messages containing one of Search, or
// carrying an embed image whose URL contains one of EmbedSearch.Image. When Users
// is not empty only those authors get a reply.
type Response struct {
	Search      []string `json:"search"`
	Response    string   `json:"response"`
	Users       []string `json:"users"`
	EmbedSearch struct {
		Image []string `json:"image"`
	} `json:"embedSearch"`
}

type Replies struct {
	Responses []Response `json:"responses"`
	Reactions []string   `json:"reactions"`
}

func LoadReplies(path string) (Replies, error) {
	data, err := readData(path, "data/replies.json")
	if err != nil {
		return Replies{}, err
	}
	var r Replies
	if err := json.Unmarshal(data, &r); err != nil {
		return Replies{}, fmt.Errorf("decode replies: %w", err)
	}
	return r, nil
}

// Responses returns the replies due for a message by authorID. imageURLs are
// the image URLs of the message embeds.
func (f *Filter) Responses(content, authorID string, imageURLs ...string) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []string
	for _, r := range f.replies.Responses {
		if len(r.Users) > 0 && !slices.Contains(r.Users, authorID) {
			continue
		}
		if containsAny(content, r.Search) || anyContainsAny(imageURLs, r.EmbedSearch.Image) {
			out = append(out, r.Response)
		}
	}
	return out
}

// Reactions returns the emojis to react with, in configured order.
func (f *Filter) Reactions(content string) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []string
	for _, e := range f.replies.Reactions {
		if e != "" && strings.Contains(content, e) {
			out = append(out, e)
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func anyContainsAny(list, subs []string) bool {
	for _, s := range list {
		if containsAny(s, subs) {
			return true
		}
	}
	return false
}
