package types

// SlotField names one field of the pet slot set. It is also the tag attached
// to a pending follow-up question so the next reply fills the right field.
type SlotField string

const (
	SlotFieldName      SlotField = "name"
	SlotFieldSpecies   SlotField = "species"
	SlotFieldBreed     SlotField = "breed"
	SlotFieldGender    SlotField = "gender"
	SlotFieldWeightLbs SlotField = "weight_lbs"
	SlotFieldBirthDate SlotField = "birth_date"
)

// RequiredPetSlots returns the required pet fields in the order they are asked.
func RequiredPetSlots() []SlotField {
	return []SlotField{
		SlotFieldName,
		SlotFieldSpecies,
		SlotFieldBreed,
	}
}

// AllPetSlots returns every pet field, required ones first.
func AllPetSlots() []SlotField {
	return []SlotField{
		SlotFieldName,
		SlotFieldSpecies,
		SlotFieldBreed,
		SlotFieldGender,
		SlotFieldWeightLbs,
		SlotFieldBirthDate,
	}
}

// IsValid checks if the field is a known pet slot
func (f SlotField) IsValid() bool {
	for _, s := range AllPetSlots() {
		if s == f {
			return true
		}
	}
	return false
}

func (f SlotField) String() string {
	return string(f)
}
