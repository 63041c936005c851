package configuration

import (
	"strings"
)

// EntityType names a scalar configuration row.
type EntityType string

const (
	TeamID             EntityType = "TeamId"
	KnowledgeBaseID    EntityType = "KnowledgeBaseId"
	WelcomeMessageText EntityType = "WelcomeMessageText"
	HelpTabText        EntityType = "HelpTabText"
	SupportedLanguages EntityType = "SupportedLanguages"
)

const (
	// ScalarPartitionKey holds the scalar rows keyed by entity type.
	ScalarPartitionKey = "ConfigurationInfo"
	// LanguagePartitionKey holds one row per language code.
	LanguagePartitionKey = "LanguageKBConfiguration"
)

const DefaultWelcomeMessage = "Hi! I'm FAQ Plus, a friendly bot that answers questions from the knowledge base. " +
	"Ask me a question, and if I can't help, select **Ask an expert** to reach a person on the expert team."

const DefaultHelpTabText = `**How it works**

- Ask the bot a question in a personal chat. It looks up the answer in the knowledge base.
- If the answer doesn't help, select **Ask an expert**. Your question becomes a ticket for the expert team.
- You will get a notification in the chat once an expert answers.

**Tips**

- Keep questions short and specific.
- Use **Change language** to switch the language the bot answers in.`

// LanguageKBConfiguration binds a language to its knowledge base and expert team.
type LanguageKBConfiguration struct {
	LanguageCode              string
	KnowledgeBaseID           string
	QnAMakerEndpointKey       string
	TeamID                    string
	ChangeLanguageMessageText string
	HelpTabText               string
}

// NormalizeLanguageCode is the row key form of a language code.
func NormalizeLanguageCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
