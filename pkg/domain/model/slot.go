package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/types"
)

// SlotSet accumulates the fields of a partially specified entity
type SlotSet interface {
	Fill(field types.SlotField, value string) error
	IsComplete() bool
	FirstMissing() (types.SlotField, bool)
	ToMapping() map[string]string
}

// PetSlots is the slot set of the create_pet intent
type PetSlots struct {
	Name      string
	Species   string
	Breed     string
	Gender    string
	WeightLbs string
	BirthDate string
}

var _ SlotSet = (*PetSlots)(nil)

// PetSlotsFromMapping builds PetSlots from a flat mapping, ignoring unknown keys
func PetSlotsFromMapping(values map[string]string) PetSlots {
	var s PetSlots
	for _, f := range types.AllPetSlots() {
		if v, ok := values[f.String()]; ok {
			_ = s.Fill(f, v)
		}
	}
	return s
}

// Fill sets a field. The value is stored verbatim; format checks belong to the tool.
func (s *PetSlots) Fill(field types.SlotField, value string) error {
	switch field {
	case types.SlotFieldName:
		s.Name = value
	case types.SlotFieldSpecies:
		s.Species = value
	case types.SlotFieldBreed:
		s.Breed = value
	case types.SlotFieldGender:
		s.Gender = value
	case types.SlotFieldWeightLbs:
		s.WeightLbs = value
	case types.SlotFieldBirthDate:
		s.BirthDate = value
	default:
		return goerr.New("unknown pet slot", goerr.V("field", field))
	}
	return nil
}

// Get returns the value of a field, or empty if unknown
func (s *PetSlots) Get(field types.SlotField) string {
	switch field {
	case types.SlotFieldName:
		return s.Name
	case types.SlotFieldSpecies:
		return s.Species
	case types.SlotFieldBreed:
		return s.Breed
	case types.SlotFieldGender:
		return s.Gender
	case types.SlotFieldWeightLbs:
		return s.WeightLbs
	case types.SlotFieldBirthDate:
		return s.BirthDate
	default:
		return ""
	}
}

// IsComplete reports whether every required field has a value
func (s *PetSlots) IsComplete() bool {
	_, missing := s.FirstMissing()
	return !missing
}

// FirstMissing returns the first unfilled required field in asking order
func (s *PetSlots) FirstMissing() (types.SlotField, bool) {
	for _, f := range types.RequiredPetSlots() {
		if s.Get(f) == "" {
			return f, true
		}
	}
	return "", false
}

// ToMapping returns the non-empty fields keyed by slot name
func (s *PetSlots) ToMapping() map[string]string {
	out := map[string]string{}
	for _, f := range types.AllPetSlots() {
		if v := s.Get(f); v != "" {
			out[f.String()] = v
		}
	}
	return out
}
