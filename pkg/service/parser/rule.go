package parser

import (
	"regexp"
	"strings"

	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	registerPattern = regexp.MustCompile(`register me as ([\w\s]+?) with email (\S+@\S+)`)
	petNamePattern  = regexp.MustCompile(`\bnamed ([a-z][\w-]*)`)
)

// Rule is the deterministic fallback parser. It always yields exactly one intent.
type Rule struct{}

var _ interfaces.FallbackParser = Rule{}

// NewRule creates a Rule parser
func NewRule() Rule {
	return Rule{}
}

// Parse matches text against fixed phrases and returns unknown when nothing matches
func (Rule) Parse(text string) model.IntentRequest {
	msg := strings.ToLower(strings.TrimSpace(text))
	title := cases.Title(language.English)

	if m := registerPattern.FindStringSubmatch(msg); m != nil {
		email := strings.TrimRight(m[2], ".,;!?")
		return model.RegisterUserIntent(title.String(strings.TrimSpace(m[1])), email)
	}

	if strings.Contains(msg, "add a pet") || strings.Contains(msg, "create my pet") {
		var slots model.PetSlots
		if m := petNamePattern.FindStringSubmatch(msg); m != nil {
			slots.Name = title.String(m[1])
		}
		return model.CreatePetIntent(slots)
	}

	if strings.Contains(msg, "analyze") && strings.Contains(msg, "food") {
		return model.AnalyzeFoodIntent()
	}

	return model.UnknownIntent(text)
}
