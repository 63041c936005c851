package cards

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	dateLayout = "Mon, Jan 2, 2006 3:04 PM"

	DescriptionMaxDisplayLength         = 500
	KnowledgeBaseAnswerMaxDisplayLength = 500
	TitleMaxLength                      = 50
	DescriptionMaxLength                = 500
	AnswerMaxLength                     = 500
)

// FormatDate renders t in the viewer's offset, or in UTC when the offset is unknown.
func FormatDate(t time.Time, localOffset *time.Duration) string {
	if localOffset == nil {
		return t.UTC().Format(dateLayout) + " UTC"
	}
	zone := time.FixedZone("", int(localOffset.Seconds()))
	return t.In(zone).Format(dateLayout)
}

// Truncate shortens s to max runes, ending with an ellipsis when cut.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

// escapeDataString escapes like a URI data component: spaces become %20.
func escapeDataString(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ChatLink opens a 1:1 chat with upn, optionally prefilled with message.
func ChatLink(upn, message string) string {
	link := "https://teams.microsoft.com/l/chat/0/0?users=" + escapeDataString(upn)
	if message != "" {
		link += "&message=" + escapeDataString(message)
	}
	return link
}

// MyQuestionsLink deep links to the My questions tab, optionally focused on one ticket.
func MyQuestionsLink(manifestAppID, ticketID string) string {
	context := ""
	if ticketID != "" {
		context = "context=" + escapeDataString(fmt.Sprintf(`{"subEntityId":%q}`, ticketID))
	}
	return fmt.Sprintf("https://teams.microsoft.com/l/entity/%s/MyQuestions?%s", manifestAppID, context)
}

func infoIconURL(appBaseURI string) string {
	return strings.TrimRight(appBaseURI, "/") + "/content/RedInfoIcon.png"
}
