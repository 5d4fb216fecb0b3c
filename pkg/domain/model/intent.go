package model

import (
	"github.com/secmon-lab/petpal/pkg/domain/types"
)

// IntentParams is the typed parameter set of an intent. The concrete types
// below are the only implementations.
type IntentParams interface {
	// Values returns the parameters as a flat string mapping, omitting empty values.
	Values() map[string]string
	isIntentParams()
}

// RegisterUserParams are the parameters of register_user
type RegisterUserParams struct {
	Name  string
	Email string
}

// CreatePetParams are the parameters of create_pet
type CreatePetParams struct {
	Slots PetSlots
}

// FoodQueryParams are the parameters of food_query
type FoodQueryParams struct {
	Query string
}

// AnalyzeFoodParams are the (empty) parameters of analyze_food
type AnalyzeFoodParams struct{}

// UnknownParams carry an intent nobody knows how to route
type UnknownParams struct {
	RawText string
	Extra   map[string]string
}

func (RegisterUserParams) isIntentParams() {}
func (CreatePetParams) isIntentParams()    {}
func (FoodQueryParams) isIntentParams()    {}
func (AnalyzeFoodParams) isIntentParams()  {}
func (UnknownParams) isIntentParams()      {}

func (p RegisterUserParams) Values() map[string]string {
	return compactValues(map[string]string{"name": p.Name, "email": p.Email})
}

func (p CreatePetParams) Values() map[string]string {
	return p.Slots.ToMapping()
}

func (p FoodQueryParams) Values() map[string]string {
	return compactValues(map[string]string{"query": p.Query})
}

func (AnalyzeFoodParams) Values() map[string]string {
	return map[string]string{}
}

func (p UnknownParams) Values() map[string]string {
	values := make(map[string]string, len(p.Extra)+1)
	for k, v := range p.Extra {
		values[k] = v
	}
	values["raw_text"] = p.RawText
	return compactValues(values)
}

func compactValues(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// IntentRequest is one parsed action request
type IntentRequest struct {
	Name   types.IntentName
	Params IntentParams
}

// NewIntentRequest builds a typed IntentRequest from a name and flat values.
// Names outside the routed set keep their name and carry UnknownParams.
func NewIntentRequest(name types.IntentName, values map[string]string) IntentRequest {
	get := func(key string) string {
		if values == nil {
			return ""
		}
		return values[key]
	}

	switch name {
	case types.IntentRegisterUser:
		return RegisterUserIntent(get("name"), get("email"))
	case types.IntentCreatePet:
		return CreatePetIntent(PetSlotsFromMapping(values))
	case types.IntentFoodQuery:
		return FoodQueryIntent(get("query"))
	case types.IntentAnalyzeFood:
		return AnalyzeFoodIntent()
	default:
		extra := make(map[string]string, len(values))
		for k, v := range values {
			if k != "raw_text" {
				extra[k] = v
			}
		}
		if len(extra) == 0 {
			extra = nil
		}
		if name == "" {
			name = types.IntentUnknown
		}
		return IntentRequest{
			Name:   name,
			Params: UnknownParams{RawText: get("raw_text"), Extra: extra},
		}
	}
}

// RegisterUserIntent creates a register_user request
func RegisterUserIntent(name, email string) IntentRequest {
	return IntentRequest{Name: types.IntentRegisterUser, Params: RegisterUserParams{Name: name, Email: email}}
}

// CreatePetIntent creates a create_pet request
func CreatePetIntent(slots PetSlots) IntentRequest {
	return IntentRequest{Name: types.IntentCreatePet, Params: CreatePetParams{Slots: slots}}
}

// FoodQueryIntent creates a food_query request
func FoodQueryIntent(query string) IntentRequest {
	return IntentRequest{Name: types.IntentFoodQuery, Params: FoodQueryParams{Query: query}}
}

// AnalyzeFoodIntent creates an analyze_food request
func AnalyzeFoodIntent() IntentRequest {
	return IntentRequest{Name: types.IntentAnalyzeFood, Params: AnalyzeFoodParams{}}
}

// UnknownIntent creates the catch-all request carrying the raw user text
func UnknownIntent(rawText string) IntentRequest {
	return IntentRequest{Name: types.IntentUnknown, Params: UnknownParams{RawText: rawText}}
}

// Values returns the flat parameter mapping of the request
func (r IntentRequest) Values() map[string]string {
	if r.Params == nil {
		return map[string]string{}
	}
	return r.Params.Values()
}
