package usecase

import (
	"fmt"
	"slices"
	"strings"

	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
)

// breedExampleCount is how many breeds a clarification lists
const breedExampleCount = 5

var helpPhrases = []string{"examples", "give me examples", "not sure", "sample"}

// isHelpPhrase reports whether a slot answer is a request for examples
func isHelpPhrase(text string) bool {
	return slices.Contains(helpPhrases, strings.ToLower(strings.TrimSpace(text)))
}

func petLabel(slots model.PetSlots) string {
	if slots.Name != "" {
		return slots.Name
	}
	return "your pet"
}

// followUpQuestion returns the fixed question asking for field
func followUpQuestion(field types.SlotField, slots model.PetSlots) string {
	switch field {
	case types.SlotFieldName:
		return "🐾 What is your pet's name?"
	case types.SlotFieldSpecies:
		return fmt.Sprintf("🐾 What species is %s? (e.g., Dog, Cat, Bird)", petLabel(slots))
	case types.SlotFieldBreed:
		return fmt.Sprintf("🐾 What is the breed of %s?", petLabel(slots))
	default:
		return fmt.Sprintf("🐾 Could you provide the %s of your pet?", field)
	}
}

// clarification answers a help phrase for the question tagged with field
func clarification(field types.SlotField, slots model.PetSlots, species *model.SpeciesRegistry) string {
	switch field {
	case types.SlotFieldBreed:
		examples := species.BreedExamples(slots.Species, breedExampleCount)
		return "Sure! Examples of breeds include: " + strings.Join(examples, ", ") + "."
	case types.SlotFieldSpecies:
		return speciesClarification
	default:
		return generalClarification
	}
}
