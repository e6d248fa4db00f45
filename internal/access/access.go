// Package access implements the allow-list that gates every incoming
// Telegram update before any other processing happens.
package access

import "strings"

// Filter holds the permitted chat IDs and usernames with O(1) lookups.
// Usernames are trimmed, lowercased, and stripped of a leading "@" at
// construction time so Allowed can use direct map lookups.
type Filter struct {
	chatIDs   map[int64]struct{}
	usernames map[string]struct{}
}

// NewFilter creates a Filter from the configured chat IDs and usernames.
// Empty username entries are dropped.
func NewFilter(chatIDs []int64, usernames []string) *Filter {
	f := &Filter{
		chatIDs:   make(map[int64]struct{}, len(chatIDs)),
		usernames: make(map[string]struct{}, len(usernames)),
	}

	for _, id := range chatIDs {
		f.chatIDs[id] = struct{}{}
	}

	for _, u := range usernames {
		if n := normalizeUsername(u); n != "" {
			f.usernames[n] = struct{}{}
		}
	}

	return f
}

// Open reports whether the filter permits everyone, which is the case
// when no chat IDs and no usernames are configured.
func (f *Filter) Open() bool {
	return len(f.chatIDs) == 0 && len(f.usernames) == 0
}

// Allowed reports whether a sender may use the bot.
//
// Rules:
//   - If no chat IDs and no usernames are configured, allow everyone.
//   - If the chat ID matches an entry, allow.
//   - If the sender's username matches an entry, allow.
//   - Otherwise deny.
//
// The username may be empty; Telegram users are not required to set one.
func (f *Filter) Allowed(chatID int64, username string) bool {
	if f.Open() {
		return true
	}

	if _, ok := f.chatIDs[chatID]; ok {
		return true
	}

	if username == "" {
		return false
	}

	_, ok := f.usernames[normalizeUsername(username)]

	return ok
}

func normalizeUsername(u string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(u), "@"))
}
