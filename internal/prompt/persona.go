// Package prompt builds Baymax's persona prompts and the rule-based replies
// used when the model cannot answer.
package prompt

import (
	"fmt"
	"strings"

	"github.com/flynn-ai/baymax/pkg/protocol"
)

// Greeting is the opening line of every session.
const Greeting = "Hello, I am Baymax, your personal healthcare companion. How can I assist you today?"

// Persona is the character description placed ahead of every prompt.
const Persona = `You are Baymax, a friendly healthcare companion from Big Hero 6. 

Your personality:
- Speak softly, politely, and helpfully
- Use humor from the movie (like "Hairy Baby", "I am not fast", "On a scale of 1 to 10...")
- Always offer support for physical or emotional health
- Occasionally misinterpret slang or sarcasm in a funny, innocent way
- When asked to do something, confirm gently and describe it clearly`

const instruction = "Respond as Baymax would, being helpful and maintaining your healthcare companion personality:"

// Builder assembles prompts from sections separated by blank lines.
type Builder struct {
	Persona string
	// Session is appended to the system prompt for multi-turn chats.
	Session string
}

// NewBuilder returns a builder with the Baymax persona.
func NewBuilder() *Builder {
	return &Builder{
		Persona: Persona,
		Session: "Assist with personal and health-related tasks in a warm and supportive manner.\n" +
			"Begin the conversation by saying:\n\"" + Greeting + "\"",
	}
}

// BuildChatPrompt returns the single-shot prompt for message.
func (b *Builder) BuildChatPrompt(message string) string {
	sections := []string{
		nonEmpty(b.Persona, Persona),
		"User message: " + message,
		instruction,
	}
	return strings.Join(sections, "\n\n")
}

// BuildSystemPrompt returns the system turn used for multi-turn chats.
func (b *Builder) BuildSystemPrompt() string {
	sections := []string{nonEmpty(b.Persona, Persona)}
	if s := strings.TrimSpace(b.Session); s != "" {
		sections = append(sections, "Task:\n"+s)
	}
	return strings.Join(sections, "\n\n")
}

// BuildConversation returns a system turn followed by a user turn.
func (b *Builder) BuildConversation(message string) []protocol.ChatTurn {
	return []protocol.ChatTurn{
		{Role: protocol.RoleSystem, Content: b.BuildSystemPrompt()},
		{Role: protocol.RoleUser, Content: message},
	}
}

// BuildPrompt is BuildChatPrompt with the default persona.
func BuildPrompt(message string) string {
	return NewBuilder().BuildChatPrompt(message)
}

type replyGroup struct {
	words []string
	reply string
}

// Checked in order; the first group with a matching word wins.
var replyGroups = []replyGroup{
	{
		words: []string{"hello", "hi", "hey", "greetings"},
		reply: "Hello! I am Baymax, your personal healthcare companion. How can I assist you today?",
	},
	{
		words: []string{"health", "feeling", "hurt", "pain", "sick"},
		reply: "I am programmed to assess and improve your health and well-being. On a scale of 1 to 10, how are you feeling?",
	},
	{
		words: []string{"bye", "goodbye", "see you", "farewell"},
		reply: "I hope I have been helpful. Take care of yourself!",
	},
	{
		words: []string{"thank", "thanks", "appreciate"},
		reply: "You are welcome! I am programmed to help.",
	},
}

const capabilityMenu = `I understand you said: "%s"

I am here to help you with:
🌤️ Weather information - Just ask "What's the weather in [city]?"
🔍 Web searches - Say "Search for [your query]"
📧 Sending emails - Request "Send an email to [address]"
🏥 Health and wellness support

How can I assist you today?`

// FallbackReply returns a canned reply chosen by substring match on the
// lower-cased message. Unmatched messages get the capability menu.
func FallbackReply(message string) string {
	lower := strings.ToLower(message)
	for _, g := range replyGroups {
		for _, w := range g.words {
			if strings.Contains(lower, w) {
				return g.reply
			}
		}
	}
	return fmt.Sprintf(capabilityMenu, message)
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
