package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
)

func TestNewIntentRequest(t *testing.T) {
	t.Run("register_user is typed", func(t *testing.T) {
		req := model.NewIntentRequest(types.IntentRegisterUser, map[string]string{
			"name":  "John Doe",
			"email": "john@example.com",
		})
		gt.Value(t, req.Name).Equal(types.IntentRegisterUser)
		p, ok := req.Params.(model.RegisterUserParams)
		gt.B(t, ok).True()
		gt.Value(t, p.Name).Equal("John Doe")
		gt.Value(t, p.Email).Equal("john@example.com")
	})

	t.Run("create_pet keeps only known slots", func(t *testing.T) {
		req := model.NewIntentRequest(types.IntentCreatePet, map[string]string{
			"name":  "Rex",
			"color": "brown",
		})
		p, ok := req.Params.(model.CreatePetParams)
		gt.B(t, ok).True()
		gt.Value(t, p.Slots.Name).Equal("Rex")
		gt.Value(t, req.Values()).Equal(map[string]string{"name": "Rex"})
	})

	t.Run("food_query", func(t *testing.T) {
		req := model.NewIntentRequest(types.IntentFoodQuery, map[string]string{"query": "grain free"})
		p, ok := req.Params.(model.FoodQueryParams)
		gt.B(t, ok).True()
		gt.Value(t, p.Query).Equal("grain free")
	})

	t.Run("analyze_food has no params", func(t *testing.T) {
		req := model.NewIntentRequest(types.IntentAnalyzeFood, nil)
		_, ok := req.Params.(model.AnalyzeFoodParams)
		gt.B(t, ok).True()
		gt.Value(t, len(req.Values())).Equal(0)
	})

	t.Run("unrecognized name keeps name with unknown params", func(t *testing.T) {
		req := model.NewIntentRequest("provide_followup", map[string]string{
			"text":     "a dog",
			"raw_text": "it is a dog",
		})
		gt.Value(t, req.Name).Equal(types.IntentName("provide_followup"))
		p, ok := req.Params.(model.UnknownParams)
		gt.B(t, ok).True()
		gt.Value(t, p.RawText).Equal("it is a dog")
		gt.Value(t, p.Extra).Equal(map[string]string{"text": "a dog"})
	})

	t.Run("empty name becomes unknown", func(t *testing.T) {
		req := model.NewIntentRequest("", nil)
		gt.Value(t, req.Name).Equal(types.IntentUnknown)
	})
}

func TestIntentRequest_ValuesRoundTrip(t *testing.T) {
	intents := []model.IntentRequest{
		model.RegisterUserIntent("John Doe", "john@example.com"),
		model.CreatePetIntent(model.PetSlots{Name: "Rex", Species: "dog", WeightLbs: "40"}),
		model.FoodQueryIntent("low fat"),
		model.AnalyzeFoodIntent(),
		model.UnknownIntent("hello there"),
	}

	for _, in := range intents {
		t.Run(in.Name.String(), func(t *testing.T) {
			out := model.NewIntentRequest(in.Name, in.Values())
			gt.Value(t, out).Equal(in)
		})
	}
}

func TestIntentRequest_ZeroValue(t *testing.T) {
	var req model.IntentRequest
	gt.Value(t, len(req.Values())).Equal(0)
}
