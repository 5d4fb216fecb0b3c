package usecase

// Fixed replies of the agent
const (
	FailureMessage     = "❌ Failed to complete your request. Please try again or rephrase."
	LoginPromptMessage = "🔐 Please log in to complete the remaining tasks."
	NotedMessage       = "✅ Noted."
	GreetingMessage    = "👋 Hi! I'm PAAI – your PetPalAI Agent. Please note: your interactions may be reviewed for quality and improvement purposes."
	ResumingMessage    = "Resuming pending tasks."
	ConflictMessage    = "⏳ Another message for this conversation is still being processed. Please try again."

	speciesClarification = "I can help with dogs, cats, birds, and more! What species is your pet?"
	generalClarification = "I can help you add a pet, create a user account, and more!"
)

// Internal log entries
const (
	logDeferredSaved = "💾 Saved deferred intents."
	logResumedPrefix = "🔁 Resumed: "
)
