// Package history keeps per-chat conversation windows in memory. Each
// chat holds a rolling window of the most recent messages; nothing is
// persisted across restarts.
package history

import (
	"sync"
	"time"

	"github.com/agentgram/agentgram/internal/common/util"
)

// Role identifies which side of the conversation produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn. Tokens is computed once at append
// time so statistics never re-tokenize the window.
type Message struct {
	Role      Role
	Content   string
	Tokens    int
	Timestamp time.Time
}

// TokenCounter returns the token count for a piece of text.
type TokenCounter func(text string) int

// Store holds conversation windows keyed by chat ID. All methods are
// safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	max    int
	count  TokenCounter
	byChat map[int64][]Message
}

// NewStore creates a Store that keeps at most maxMessages per chat.
// A nil counter defaults to util.CountTokens.
func NewStore(maxMessages int, counter TokenCounter) *Store {
	if counter == nil {
		counter = util.CountTokens
	}

	return &Store{
		max:    maxMessages,
		count:  counter,
		byChat: make(map[int64][]Message),
	}
}

// Append records a message for the chat and trims the window to the
// most recent maxMessages entries.
func (s *Store) Append(chatID int64, role Role, content string) {
	tokens := s.count(content)

	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := append(s.byChat[chatID], Message{Role: role, Content: content, Tokens: tokens, Timestamp: time.Now()})
	if s.max > 0 && len(msgs) > s.max {
		msgs = msgs[len(msgs)-s.max:]
	}

	s.byChat[chatID] = msgs
}

// Get returns a copy of the chat's window in chronological order.
func (s *Store) Get(chatID int64) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.byChat[chatID]
	out := make([]Message, len(msgs))
	copy(out, msgs)

	return out
}

// Reset discards the chat's window.
func (s *Store) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byChat, chatID)
}

// Len returns the number of messages currently held for the chat.
func (s *Store) Len(chatID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byChat[chatID])
}

// Stats returns the message count and summed token count of the chat's
// window.
func (s *Store) Stats(chatID int64) (messages, tokens int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.byChat[chatID]
	for _, m := range msgs {
		tokens += m.Tokens
	}

	return len(msgs), tokens
}
