package foodlabel

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
)

const analystSystemPrompt = "You are a helpful pet food analyst. Do not make medical recommendations."

// Generator answers prompts with a one-shot LLM session
type Generator struct {
	llmClient gollem.LLMClient
}

var _ interfaces.TextGenerator = &Generator{}

// NewGenerator creates a Generator with the provided LLM client
func NewGenerator(llmClient gollem.LLMClient) (*Generator, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &Generator{llmClient: llmClient}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	session, err := g.llmClient.NewSession(ctx, gollem.WithSessionSystemPrompt(analystSystemPrompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(prompt)})
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.New("empty LLM response")
	}

	return strings.TrimSpace(strings.Join(resp.Texts, "")), nil
}
