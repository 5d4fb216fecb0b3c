package model

import (
	"strings"
)

// Species is one entry of the species registry
type Species struct {
	Name   string
	Breeds []string
}

// SpeciesRegistry knows which species the agent handles and example breeds for each
type SpeciesRegistry struct {
	order  []string
	breeds map[string][]string
}

// DefaultBreedExamples is used when the species is unknown
var DefaultBreedExamples = []string{"Domestic shorthair", "Labrador", "German Shepherd", "Siamese", "Poodle"}

// NewSpeciesRegistry builds a registry. Species names are matched case-insensitively.
func NewSpeciesRegistry(entries []Species) *SpeciesRegistry {
	r := &SpeciesRegistry{breeds: make(map[string][]string, len(entries))}
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if _, exists := r.breeds[key]; !exists {
			r.order = append(r.order, key)
		}
		breeds := make([]string, len(e.Breeds))
		copy(breeds, e.Breeds)
		r.breeds[key] = breeds
	}
	return r
}

// DefaultSpeciesRegistry returns the built-in species list
func DefaultSpeciesRegistry() *SpeciesRegistry {
	return NewSpeciesRegistry([]Species{
		{Name: "dog", Breeds: []string{"German Shepherd", "Labrador Retriever", "Poodle", "Beagle", "Bulldog", "Golden Retriever", "Dachshund"}},
		{Name: "cat", Breeds: []string{"Domestic Shorthair", "Domestic Longhair", "Siamese", "Persian", "Maine Coon", "Bengal"}},
		{Name: "bird", Breeds: []string{"Budgerigar", "Cockatiel", "African Grey", "Canary"}},
		{Name: "rabbit", Breeds: []string{"Holland Lop", "Netherland Dwarf", "Lionhead"}},
	})
}

// Names returns the registered species in registration order
func (r *SpeciesRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// IsKnown reports whether the species is registered
func (r *SpeciesRegistry) IsKnown(species string) bool {
	_, ok := r.breeds[strings.ToLower(strings.TrimSpace(species))]
	return ok
}

// BreedExamples returns up to n example breeds for the species, falling back
// to DefaultBreedExamples when the species is unknown or has none.
func (r *SpeciesRegistry) BreedExamples(species string, n int) []string {
	breeds := r.breeds[strings.ToLower(strings.TrimSpace(species))]
	if len(breeds) == 0 {
		breeds = DefaultBreedExamples
	}
	if n > 0 && len(breeds) > n {
		breeds = breeds[:n]
	}
	out := make([]string, len(breeds))
	copy(out, breeds)
	return out
}
