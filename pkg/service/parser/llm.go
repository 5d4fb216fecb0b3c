package parser

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
)

//go:embed prompt/system.md
var systemPromptTmpl string

var systemPrompt = template.Must(template.New("parser_system").Parse(systemPromptTmpl))

// IntentSpec describes an intent the parser may extract
type IntentSpec struct {
	Name        types.IntentName
	Description string
	Params      []string
}

// DefaultIntentSpecs are used when no specs are given
var DefaultIntentSpecs = []IntentSpec{
	{Name: types.IntentRegisterUser, Description: "Register a new user account", Params: []string{"name", "email"}},
	{Name: types.IntentCreatePet, Description: "Add a pet to the user's account", Params: []string{"name", "species", "breed", "gender", "weight_lbs", "birth_date"}},
	{Name: types.IntentFoodQuery, Description: "Answer a question about scanned pet food labels", Params: []string{"query"}},
	{Name: types.IntentAnalyzeFood, Description: "Analyze a pet food label"},
}

// LLM extracts intents with a JSON-mode LLM session
type LLM struct {
	llmClient gollem.LLMClient
	specs     []IntentSpec
}

var _ interfaces.IntentParser = &LLM{}

// Option is a functional option for LLM configuration
type Option func(*LLM)

// WithIntentSpecs replaces the intents listed in the system prompt
func WithIntentSpecs(specs ...IntentSpec) Option {
	return func(p *LLM) {
		p.specs = specs
	}
}

// NewLLM creates an LLM parser with the provided client
func NewLLM(llmClient gollem.LLMClient, opts ...Option) (*LLM, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	p := &LLM{
		llmClient: llmClient,
		specs:     DefaultIntentSpecs,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// llmResponse is the structured output from the LLM
type llmResponse struct {
	Intents []llmIntent `json:"intents"`
}

type llmIntent struct {
	Intent string         `json:"intent"`
	Params map[string]any `json:"params"`
}

// Parse returns the intents found in text, in the order the user stated them.
// Entries the model labels unknown are dropped so the fallback parser can take over.
func (p *LLM) Parse(ctx context.Context, text string) ([]model.IntentRequest, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	prompt, err := p.buildSystemPrompt()
	if err != nil {
		return nil, err
	}

	session, err := p.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(prompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(text)})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return nil, goerr.New("empty LLM response")
	}

	var out llmResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &out); err != nil {
		return nil, goerr.Wrap(err, "failed to parse LLM response", goerr.V("response", resp.Texts[0]))
	}

	var intents []model.IntentRequest
	for _, item := range out.Intents {
		name := types.IntentName(strings.TrimSpace(item.Intent))
		if name == "" || name == types.IntentUnknown {
			continue
		}
		intents = append(intents, model.NewIntentRequest(name, stringifyParams(item.Params)))
	}
	return intents, nil
}

func (p *LLM) buildSystemPrompt() (string, error) {
	var buf bytes.Buffer
	if err := systemPrompt.Execute(&buf, map[string]any{"Intents": p.specs}); err != nil {
		return "", goerr.Wrap(err, "failed to render parser system prompt")
	}
	return buf.String(), nil
}

// stringifyParams flattens model output; numbers such as weight_lbs may arrive unquoted
func stringifyParams(params map[string]any) map[string]string {
	values := make(map[string]string, len(params))
	for k, v := range params {
		switch x := v.(type) {
		case nil:
			continue
		case string:
			if s := strings.TrimSpace(x); s != "" {
				values[k] = s
			}
		case float64:
			values[k] = fmt.Sprintf("%g", x)
		default:
			values[k] = fmt.Sprint(x)
		}
	}
	return values
}

// buildResponseSchema creates the JSON schema for structured output
func buildResponseSchema() *gollem.Parameter {
	param := func(desc string) *gollem.Parameter {
		return &gollem.Parameter{Type: gollem.TypeString, Description: desc}
	}

	return &gollem.Parameter{
		Title:       "IntentExtractionResponse",
		Description: "Intents requested in the user's message",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"intents": {
				Type:        gollem.TypeArray,
				Required:    true,
				Description: "Requested actions in the order the user stated them. Empty when nothing matches.",
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"intent": {
							Type:        gollem.TypeString,
							Description: "Name of a supported intent",
							Required:    true,
						},
						"params": {
							Type:        gollem.TypeObject,
							Description: "Parameters stated by the user. Omit anything not stated.",
							Properties: map[string]*gollem.Parameter{
								"name":       param("Person or pet name"),
								"email":      param("Email address"),
								"species":    param("Pet species, e.g. dog, cat, bird"),
								"breed":      param("Pet breed, e.g. poodle, domestic shorthair"),
								"gender":     param("Pet gender, e.g. neutered male"),
								"weight_lbs": param("Pet weight in pounds"),
								"birth_date": param("Pet birth date as MM/DD/YYYY"),
								"query":      param("The user's question about pet food"),
							},
						},
					},
				},
			},
		},
	}
}
