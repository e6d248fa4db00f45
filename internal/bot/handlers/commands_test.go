package handlers

import (
	"context"
	"fmt"
	"testing"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/agentgram/agentgram/internal/history"
)

func TestStartHandlerSendsWelcome(t *testing.T) {
	env := newTestEnv(t)

	startHandler{env.deps}.handle(context.Background(), env.api, textUpdate(5, 10, "/start"))

	if got := env.api.sentTexts(); len(got) != 1 || got[0] != env.deps.Config.Messages.Welcome {
		t.Errorf("sent = %q, want the welcome message", got)
	}
	if rp := env.api.sent[0].ReplyParameters; rp == nil || rp.MessageID != 10 {
		t.Errorf("reply parameters = %+v, want reply to message 10", rp)
	}
}

func TestHelpHandlerSendsHelp(t *testing.T) {
	env := newTestEnv(t)

	helpHandler{env.deps}.handle(context.Background(), env.api, textUpdate(5, 10, "/help"))

	if got := env.api.sentTexts(); len(got) != 1 || got[0] != env.deps.Config.Messages.Help {
		t.Errorf("sent = %q, want the help message", got)
	}
}

func TestResetHandlerClearsOnlyOwnChat(t *testing.T) {
	env := newTestEnv(t)
	env.store.Append(5, history.RoleUser, "hello")
	env.store.Append(5, history.RoleAssistant, "hi")
	env.store.Append(6, history.RoleUser, "other chat")

	resetHandler{env.deps}.handle(context.Background(), env.api, textUpdate(5, 10, "/reset"))

	if got := env.store.Len(5); got != 0 {
		t.Errorf("chat 5 history length = %d, want 0", got)
	}
	if got := env.store.Len(6); got != 1 {
		t.Errorf("chat 6 history length = %d, want 1", got)
	}
	if got := env.api.sentTexts(); len(got) != 1 || got[0] != env.deps.Config.Messages.HistoryReset {
		t.Errorf("sent = %q, want the reset confirmation", got)
	}
}

func TestTokensHandlerReportsStats(t *testing.T) {
	env := newTestEnv(t)
	env.store.Append(5, history.RoleUser, "hi")
	env.store.Append(5, history.RoleAssistant, "there")

	tokensHandler{env.deps}.handle(context.Background(), env.api, textUpdate(5, 10, "/tokens"))

	// The test env counts one token per byte.
	want := fmt.Sprintf(env.deps.Config.Messages.Stats, 2, 7)
	if got := env.api.sentTexts(); len(got) != 1 || got[0] != want {
		t.Errorf("sent = %q, want %q", got, want)
	}
}

func TestCommandHandlersIgnoreNilMessage(t *testing.T) {
	invocations := map[string]func(deps HandlerDeps, api chatAPI, update *models.Update){
		"start": func(deps HandlerDeps, api chatAPI, u *models.Update) {
			startHandler{deps}.handle(context.Background(), api, u)
		},
		"help": func(deps HandlerDeps, api chatAPI, u *models.Update) {
			helpHandler{deps}.handle(context.Background(), api, u)
		},
		"reset": func(deps HandlerDeps, api chatAPI, u *models.Update) {
			resetHandler{deps}.handle(context.Background(), api, u)
		},
		"tokens": func(deps HandlerDeps, api chatAPI, u *models.Update) {
			tokensHandler{deps}.handle(context.Background(), api, u)
		},
	}

	for name, invoke := range invocations {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)

			invoke(env.deps, env.api, &models.Update{ID: 1})

			if len(env.api.sent) != 0 {
				t.Errorf("handler sent %d messages for a nil-message update", len(env.api.sent))
			}
		})
	}
}

func TestRegisterAllCommands(t *testing.T) {
	env := newTestEnv(t)

	commands := RegisterAllCommands(env.deps)

	for _, name := range []string{"/start", "/help", "/reset", "/tokens"} {
		reg, ok := commands[name]
		if !ok {
			t.Errorf("command %s not registered", name)
			continue
		}
		if reg.Handler == nil {
			t.Errorf("command %s has a nil handler", name)
		}
		if reg.Pattern != name[1:] {
			t.Errorf("command %s pattern = %q, want %q", name, reg.Pattern, name[1:])
		}
		if reg.MatchType != tgbot.MatchTypeCommandStartOnly {
			t.Errorf("command %s match type = %v", name, reg.MatchType)
		}
	}

	if len(commands) != 4 {
		t.Errorf("registered %d commands, want 4", len(commands))
	}
}
