package usecases

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
)

// KnowledgeBaseCatalog lists the configured languages and checks knowledge base ids against them.
type KnowledgeBaseCatalog interface {
	IsKnowledgeBaseValid(ctx context.Context, languageCode, kbID string) (bool, error)
	Languages() []sharedConfig.LanguageQnAMakerKey
	Default() (string, bool)
}

// HTMLRenderer turns admin Markdown into sanitized HTML.
type HTMLRenderer interface {
	ToSafeHTML(markdown string) (string, error)
}

const (
	welcomeMessageMinLength = 2
	welcomeMessageMaxLength = 300
	helpTabTextMinLength    = 2
	helpTabTextMaxLength    = 3000

	msgInvalidTeamID          = "The provided team id is not valid."
	msgInvalidKnowledgeBaseID = "The provided knowledgebase id is not valid."
)

var teamDeepLink = regexp.MustCompile(`teams\.microsoft\.com/l/team/(\S+?)/`)

// ParseTeamID extracts the team id from a Teams deep link. A bare thread id
// such as "19:abc@thread.skype" is accepted as is.
func ParseTeamID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if m := teamDeepLink.FindStringSubmatch(input); m != nil {
		id, err := url.PathUnescape(m[1])
		if err != nil || id == "" {
			return "", false
		}
		return id, true
	}
	if strings.HasPrefix(input, "19:") && strings.Contains(input, "@thread") && !strings.ContainsAny(input, " \t\r\n/") {
		return input, true
	}
	return "", false
}

func saveFailedMessage(thing string) string {
	return fmt.Sprintf("Sorry, unable to save the %s due to an internal error. Try again.", thing)
}
