package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
)

func TestPetSlots_FirstMissing(t *testing.T) {
	tests := []struct {
		name     string
		slots    model.PetSlots
		missing  types.SlotField
		complete bool
	}{
		{name: "empty asks name first", slots: model.PetSlots{}, missing: types.SlotFieldName},
		{name: "name only asks species", slots: model.PetSlots{Name: "Rex"}, missing: types.SlotFieldSpecies},
		{name: "species without name asks name", slots: model.PetSlots{Species: "dog"}, missing: types.SlotFieldName},
		{name: "name and species asks breed", slots: model.PetSlots{Name: "Rex", Species: "dog"}, missing: types.SlotFieldBreed},
		{name: "optional fields do not count", slots: model.PetSlots{Name: "Rex", Gender: "male", WeightLbs: "10"}, missing: types.SlotFieldSpecies},
		{name: "all required filled", slots: model.PetSlots{Name: "Rex", Species: "dog", Breed: "Poodle"}, complete: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, missing := tt.slots.FirstMissing()
			gt.Value(t, missing).Equal(!tt.complete)
			gt.Value(t, tt.slots.IsComplete()).Equal(tt.complete)
			if !tt.complete {
				gt.Value(t, field).Equal(tt.missing)
			}
		})
	}
}

func TestPetSlots_Fill(t *testing.T) {
	var s model.PetSlots
	gt.NoError(t, s.Fill(types.SlotFieldSpecies, "  a fluffy Cat "))
	gt.Value(t, s.Species).Equal("  a fluffy Cat ")

	gt.NoError(t, s.Fill(types.SlotFieldBirthDate, "01/02/2020"))
	gt.Value(t, s.Get(types.SlotFieldBirthDate)).Equal("01/02/2020")

	gt.Error(t, s.Fill(types.SlotField("color"), "brown"))
}

func TestPetSlots_ToMapping(t *testing.T) {
	s := model.PetSlots{Name: "Rex", Breed: "Poodle", WeightLbs: "12.5"}
	gt.Value(t, s.ToMapping()).Equal(map[string]string{
		"name":       "Rex",
		"breed":      "Poodle",
		"weight_lbs": "12.5",
	})

	restored := model.PetSlotsFromMapping(s.ToMapping())
	gt.Value(t, restored).Equal(s)
}
