// Package botframework speaks the Bot Framework connector protocol used by
// Microsoft Teams: inbound activity types, token validation and the REST
// connector for outbound messages.
package botframework

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	ActivityTypeMessage            = "message"
	ActivityTypeConversationUpdate = "conversationUpdate"
	ActivityTypeInvoke             = "invoke"
)

// Invoke names handled by the bot.
const (
	InvokeComposeExtensionQuery = "composeExtension/query"
)

// Conversation types reported by Teams.
const (
	ConversationTypePersonal = "personal"
	ConversationTypeChannel  = "channel"
)

type ChannelAccount struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	AadObjectID string `json:"aadObjectId,omitempty"`
	Role        string `json:"role,omitempty"`
}

type ConversationAccount struct {
	ID               string `json:"id"`
	Name             string `json:"name,omitempty"`
	ConversationType string `json:"conversationType,omitempty"`
	TenantID         string `json:"tenantId,omitempty"`
	IsGroup          bool   `json:"isGroup,omitempty"`
}

type Attachment struct {
	ContentType string      `json:"contentType"`
	Content     any         `json:"content,omitempty"`
	ContentURL  string      `json:"contentUrl,omitempty"`
	Name        string      `json:"name,omitempty"`
	Preview     *Attachment `json:"preview,omitempty"`
}

// Activity is the Bot Framework message envelope. Only the fields the bot
// reads or writes are modelled.
type Activity struct {
	Type           string               `json:"type"`
	ID             string               `json:"id,omitempty"`
	Timestamp      *time.Time           `json:"timestamp,omitempty"`
	LocalTimestamp *time.Time           `json:"localTimestamp,omitempty"`
	ServiceURL     string               `json:"serviceUrl,omitempty"`
	ChannelID      string               `json:"channelId,omitempty"`
	From           *ChannelAccount      `json:"from,omitempty"`
	Conversation   *ConversationAccount `json:"conversation,omitempty"`
	Recipient      *ChannelAccount      `json:"recipient,omitempty"`
	TextFormat     string               `json:"textFormat,omitempty"`
	Text           string               `json:"text,omitempty"`
	Summary        string               `json:"summary,omitempty"`
	Locale         string               `json:"locale,omitempty"`
	Attachments    []Attachment         `json:"attachments,omitempty"`
	ChannelData    json.RawMessage      `json:"channelData,omitempty"`
	ReplyToID      string               `json:"replyToId,omitempty"`
	Value          json.RawMessage      `json:"value,omitempty"`
	Name           string               `json:"name,omitempty"`
	MembersAdded   []ChannelAccount     `json:"membersAdded,omitempty"`
}

// LocalOffset is the sender's UTC offset, when the client reported a local timestamp.
func (a *Activity) LocalOffset() *time.Duration {
	if a.LocalTimestamp == nil {
		return nil
	}
	_, seconds := a.LocalTimestamp.Zone()
	offset := time.Duration(seconds) * time.Second
	return &offset
}

// BotAdded reports whether a conversationUpdate announces the bot itself joining.
func (a *Activity) BotAdded() bool {
	if a.Type != ActivityTypeConversationUpdate || a.Recipient == nil {
		return false
	}
	for _, m := range a.MembersAdded {
		if m.ID == a.Recipient.ID {
			return true
		}
	}
	return false
}

// IsPersonal reports a one-to-one chat with the bot.
func (a *Activity) IsPersonal() bool {
	return a.Conversation != nil && strings.EqualFold(a.Conversation.ConversationType, ConversationTypePersonal)
}

// IsChannel reports a team channel conversation.
func (a *Activity) IsChannel() bool {
	return a.Conversation != nil && strings.EqualFold(a.Conversation.ConversationType, ConversationTypeChannel)
}

type TeamInfo struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type TenantInfo struct {
	ID string `json:"id"`
}

type ChannelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// TeamsChannelData is the Teams specific part of an activity.
type TeamsChannelData struct {
	Team    *TeamInfo    `json:"team,omitempty"`
	Tenant  *TenantInfo  `json:"tenant,omitempty"`
	Channel *ChannelInfo `json:"channel,omitempty"`
}

// TeamsData decodes the channel data. Malformed data yields an empty value.
func (a *Activity) TeamsData() TeamsChannelData {
	var data TeamsChannelData
	if len(a.ChannelData) > 0 {
		_ = json.Unmarshal(a.ChannelData, &data)
	}
	return data
}

// TeamsChannelAccount is a conversation member with its directory details.
type TeamsChannelAccount struct {
	ID                string `json:"id"`
	Name              string `json:"name,omitempty"`
	GivenName         string `json:"givenName,omitempty"`
	Surname           string `json:"surname,omitempty"`
	Email             string `json:"email,omitempty"`
	UserPrincipalName string `json:"userPrincipalName,omitempty"`
	AadObjectID       string `json:"aadObjectId,omitempty"`
	TenantID          string `json:"tenantId,omitempty"`
}

// ConversationParameters starts a new conversation or channel thread.
type ConversationParameters struct {
	IsGroup     bool            `json:"isGroup"`
	Bot         *ChannelAccount `json:"bot,omitempty"`
	TenantID    string          `json:"tenantId,omitempty"`
	Activity    *Activity       `json:"activity,omitempty"`
	ChannelData any             `json:"channelData,omitempty"`
}

type ResourceResponse struct {
	ID string `json:"id"`
}

type ConversationResourceResponse struct {
	ID         string `json:"id"`
	ActivityID string `json:"activityId"`
	ServiceURL string `json:"serviceUrl,omitempty"`
}

// MessagingExtensionQuery is the value of a composeExtension/query invoke.
type MessagingExtensionQuery struct {
	CommandID  string `json:"commandId"`
	Parameters []struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
	} `json:"parameters"`
	QueryOptions struct {
		Skip  int `json:"skip"`
		Count int `json:"count"`
	} `json:"queryOptions"`
}

// Parameter returns the string value of a named parameter.
func (q *MessagingExtensionQuery) Parameter(name string) string {
	for _, p := range q.Parameters {
		if p.Name == name {
			if s, ok := p.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

type MessagingExtensionResult struct {
	Type             string       `json:"type"`
	AttachmentLayout string       `json:"attachmentLayout"`
	Attachments      []Attachment `json:"attachments"`
}

// MessagingExtensionResponse is the body returned to a composeExtension/query invoke.
type MessagingExtensionResponse struct {
	ComposeExtension MessagingExtensionResult `json:"composeExtension"`
}

// NewMessage creates an outbound message activity with the given attachments.
func NewMessage(text string, attachments ...Attachment) *Activity {
	return &Activity{Type: ActivityTypeMessage, Text: text, Attachments: attachments}
}
