package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/petpal/pkg/agent/tool/core"
	"github.com/secmon-lab/petpal/pkg/cli"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/repository/memory"
	"github.com/secmon-lab/petpal/pkg/usecase"
)

func newAgent(t *testing.T) (*usecase.AgentUseCase, *memory.Memory) {
	t.Helper()
	repo := memory.New()
	registry, err := core.NewRegistry(repo, nil, nil)
	gt.NoError(t, err).Required()
	return usecase.New(repo, registry).Agent, repo
}

func TestChat(t *testing.T) {
	t.Run("slot dialog over one session", func(t *testing.T) {
		agent, repo := newAgent(t)
		user, err := repo.User().Create(context.Background(), &model.User{
			Username: "alice", Name: "Alice", Email: "alice@example.com",
		})
		gt.NoError(t, err).Required()

		in := strings.NewReader("add a pet\nMilo\ncat\nSiamese\n/quit\nignored after quit\n")
		var out bytes.Buffer
		gt.NoError(t, cli.RunChatForTest(context.Background(), agent, in, &out, user.ID)).Required()

		text := out.String()
		gt.String(t, text).Contains("🐾 What is your pet's name?")
		gt.String(t, text).Contains("🐾 What species is Milo?")
		gt.String(t, text).Contains("🐾 What is the breed of Milo?")
		gt.String(t, text).Contains("🦴 Added pet Milo (cat) for alice.")
		gt.Bool(t, strings.Contains(text, "ignored after quit")).False()

		pets, err := repo.Pet().ListByOwner(context.Background(), user.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, pets).Length(1)
	})

	t.Run("anonymous request is deferred until login and resume", func(t *testing.T) {
		agent, repo := newAgent(t)
		user, err := repo.User().Create(context.Background(), &model.User{
			Username: "bob", Name: "Bob", Email: "bob@example.com",
		})
		gt.NoError(t, err).Required()

		in := strings.NewReader("please analyze my food\n/login " + user.ID.String() + "\n/resume\n")
		var out bytes.Buffer
		gt.NoError(t, cli.RunChatForTest(context.Background(), agent, in, &out, "")).Required()

		text := out.String()
		gt.String(t, text).Contains(usecase.LoginPromptMessage)
		gt.String(t, text).Contains("Talking as " + user.ID.String())
		gt.String(t, text).Contains("user: please analyze my food")
		gt.String(t, text).Contains("📸 Please upload the food label on the main page.")
	})

	t.Run("login without id prints usage", func(t *testing.T) {
		agent, _ := newAgent(t)
		var out bytes.Buffer
		gt.NoError(t, cli.RunChatForTest(context.Background(), agent, strings.NewReader("/login\n"), &out, "")).Required()
		gt.String(t, out.String()).Contains("Usage: /login <user-id>")
	})
}

func TestIndexConfig(t *testing.T) {
	cfg := cli.IndexConfigForTest("")
	gt.Value(t, len(cfg.Collections)).Equal(1).Required()
	gt.Value(t, cfg.Collections[0].Name).Equal("cases")
	gt.Value(t, len(cfg.Collections[0].Indexes)).Equal(2)

	prefixed := cli.IndexConfigForTest("test")
	gt.Value(t, prefixed.Collections[0].Name).Equal("test_cases")
}
