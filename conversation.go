package librarian

import "github.com/w-h-a/librarian/completer"

const defaultSystemPrompt = "You are a friendly assistant specializing in book recommendations."

// Conversation is the caller-owned history for one logical conversation.
// Ask mutates it in place: one turn appends the augmented user prompt, the
// model's first reply, and the tool result. A Conversation must not be
// shared by concurrent Ask calls.
type Conversation struct {
	Messages []completer.Message
}

func (c *Conversation) append(msg completer.Message) {
	c.Messages = append(c.Messages, msg)
}

func NewConversation() *Conversation {
	return &Conversation{
		Messages: []completer.Message{
			{Role: completer.RoleSystem, Content: defaultSystemPrompt},
		},
	}
}
