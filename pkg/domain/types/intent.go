package types

// IntentName identifies the kind of action a user asked for
type IntentName string

const (
	IntentRegisterUser IntentName = "register_user"
	IntentCreatePet    IntentName = "create_pet"
	IntentAnalyzeFood  IntentName = "analyze_food"
	IntentFoodQuery    IntentName = "food_query"
	IntentUnknown      IntentName = "unknown"
)

// AllIntentNames returns every intent the system knows how to route
func AllIntentNames() []IntentName {
	return []IntentName{
		IntentRegisterUser,
		IntentCreatePet,
		IntentAnalyzeFood,
		IntentFoodQuery,
		IntentUnknown,
	}
}

// IsKnown checks if the name is one of the routed intents
func (n IntentName) IsKnown() bool {
	switch n {
	case IntentRegisterUser,
		IntentCreatePet,
		IntentAnalyzeFood,
		IntentFoodQuery,
		IntentUnknown:
		return true
	default:
		return false
	}
}

func (n IntentName) String() string {
	return string(n)
}
