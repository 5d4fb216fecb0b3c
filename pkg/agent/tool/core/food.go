package core

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/agent/tool"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
)

//go:embed prompt/food_query.md
var foodQueryPromptTmpl string

var foodQueryPrompt = template.Must(template.New("food_query").Parse(foodQueryPromptTmpl))

// analyzeFoodTool points the user to the label upload flow
type analyzeFoodTool struct{}

func (t *analyzeFoodTool) Spec() tool.Spec {
	return tool.Spec{
		Name:             types.IntentAnalyzeFood,
		Description:      "Analyze a pet food label",
		RequiresIdentity: true,
	}
}

func (t *analyzeFoodTool) Run(_ context.Context, _ model.UserID, _ model.IntentRequest) (*model.ActionResult, error) {
	return model.Succeeded("📸 Please upload the food label on the main page."), nil
}

// foodQueryTool answers questions from indexed food labels
type foodQueryTool struct {
	searcher  interfaces.DocumentSearcher
	generator interfaces.TextGenerator
}

func (t *foodQueryTool) Spec() tool.Spec {
	return tool.Spec{
		Name:             types.IntentFoodQuery,
		Description:      "Answer a question about scanned pet food labels",
		Params:           []string{"query"},
		RequiresIdentity: true,
	}
}

func (t *foodQueryTool) Run(ctx context.Context, _ model.UserID, req model.IntentRequest) (*model.ActionResult, error) {
	p, ok := req.Params.(model.FoodQueryParams)
	if !ok {
		return nil, goerr.New("unexpected params for food_query", goerr.V("params", req.Params))
	}

	query := strings.TrimSpace(p.Query)
	if query == "" {
		return model.Declined("Please provide a query about pet food."), nil
	}
	if t.searcher == nil || t.generator == nil {
		return model.Declined("Food label search is not available right now."), nil
	}

	tool.Update(ctx, "Searching food labels...")
	docs, err := t.searcher.Search(ctx, query, FoodQueryLimit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search food labels", goerr.V("query", query))
	}
	if len(docs) == 0 {
		return model.Succeeded("I couldn't find any food labels matching that query.").
			WithExtra(ExtraMatches, 0), nil
	}

	prompt, err := buildFoodQueryPrompt(query, docs)
	if err != nil {
		return nil, err
	}

	tool.Update(ctx, "Analyzing matching labels...")
	answer, err := t.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate food answer", goerr.V("query", query))
	}

	return model.Succeeded(strings.TrimSpace(answer)).WithExtra(ExtraMatches, len(docs)), nil
}

func buildFoodQueryPrompt(query string, docs []model.Document) (string, error) {
	contents := make([]string, len(docs))
	for i, d := range docs {
		contents[i] = d.Content
	}

	var buf bytes.Buffer
	if err := foodQueryPrompt.Execute(&buf, map[string]any{
		"Context": strings.Join(contents, "\n---\n"),
		"Query":   query,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to render food query prompt")
	}
	return buf.String(), nil
}
