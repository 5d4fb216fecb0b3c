package cli

import (
	"context"
	"io"

	"github.com/m-mizutani/fireconf"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/usecase"
)

// RunChatForTest runs a chat session over the given streams
func RunChatForTest(ctx context.Context, agent *usecase.AgentUseCase, in io.Reader, out io.Writer, caller model.UserID) error {
	return newChatSession(agent, in, out, caller).Run(ctx)
}

// IndexConfigForTest exposes the Firestore index layout
func IndexConfigForTest(prefix string) *fireconf.Config {
	return getIndexConfig(prefix)
}
