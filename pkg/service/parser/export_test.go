package parser

// BuildSystemPrompt exposes the rendered system prompt for tests
func (p *LLM) BuildSystemPrompt() (string, error) {
	return p.buildSystemPrompt()
}
