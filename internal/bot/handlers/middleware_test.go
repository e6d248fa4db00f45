package handlers

import (
	"context"
	"testing"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/agentgram/agentgram/internal/access"
)

func TestAllowUpdate(t *testing.T) {
	tests := map[string]struct {
		chatIDs   []int64
		usernames []string
		update    *models.Update
		want      bool
	}{
		"open lists allow everyone": {
			update: textUpdate(99, 1, "hello"),
			want:   true,
		},
		"chat id match": {
			chatIDs: []int64{42},
			update:  textUpdate(42, 1, "hello"),
			want:    true,
		},
		"username match is case insensitive": {
			usernames: []string{"@Alice"},
			update:    textUpdate(99, 1, "hello"),
			want:      true,
		},
		"unlisted chat and user denied": {
			chatIDs:   []int64{42},
			usernames: []string{"bob"},
			update:    textUpdate(99, 1, "hello"),
			want:      false,
		},
		"missing username never matches the username list": {
			usernames: []string{"alice"},
			update: &models.Update{
				ID: 1,
				Message: &models.Message{
					ID:   1,
					From: &models.User{ID: 7},
					Chat: models.Chat{ID: 99},
					Text: "hello",
				},
			},
			want: false,
		},
		"non-message update passes through": {
			chatIDs: []int64{42},
			update:  &models.Update{ID: 1},
			want:    true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			env.deps.Access = access.NewFilter(tc.chatIDs, tc.usernames)

			got := allowUpdate(context.Background(), env.api, env.deps, tc.update)

			if got != tc.want {
				t.Fatalf("allowUpdate() = %v, want %v", got, tc.want)
			}

			if tc.want {
				if len(env.api.sent) != 0 {
					t.Errorf("allowed update triggered %d sends", len(env.api.sent))
				}
				return
			}

			sent := env.api.sentTexts()
			if len(sent) != 1 || sent[0] != env.deps.Config.Messages.NotAuthorized {
				t.Errorf("sent = %q, want single not-authorized reply", sent)
			}
			if rp := env.api.sent[0].ReplyParameters; rp == nil || rp.MessageID != tc.update.Message.ID {
				t.Errorf("denial reply parameters = %+v, want reply to the offending message", rp)
			}
		})
	}
}

func TestAuthorizedCallsNext(t *testing.T) {
	env := newTestEnv(t)

	called := false
	next := func(_ context.Context, _ *tgbot.Bot, _ *models.Update) {
		called = true
	}

	Authorized(env.deps)(next)(context.Background(), nil, textUpdate(1, 10, "hello"))

	if !called {
		t.Fatal("next handler not called for allowed update")
	}
}
