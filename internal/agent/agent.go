// Package agent defines the contract between the Telegram layer and
// the AI backend that answers messages.
package agent

import "context"

// Agent produces a reply for a fully rendered conversation prompt.
// Implementations own their model, retries, and safety handling; the
// caller only supplies text and a deadline.
type Agent interface {
	Run(ctx context.Context, prompt string) (string, error)
}
