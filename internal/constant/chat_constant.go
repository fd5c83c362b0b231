package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// DefaultChatSessionName is the placeholder label a session is created
	// with; the title consumer only overwrites it while it is unchanged.
	DefaultChatSessionName = "New Chat"
)

// TitlePromptTemplate asks the model for a short label based on the first
// exchange. Two %s verbs: user prompt, assistant reply.
const TitlePromptTemplate = `Suggest a short title (at most five words, no quotes, no trailing punctuation) for a conversation that starts like this:

User: %s
Assistant: %s

Title:`
