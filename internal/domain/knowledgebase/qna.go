package knowledgebase

import (
	"context"
	"time"
)

// MetadataPair is a name/value tag attached to a QnA pair.
type MetadataPair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// QnADocument is one question/answer pair of a published knowledge base.
type QnADocument struct {
	ID        int            `json:"id"`
	Answer    string         `json:"answer"`
	Source    string         `json:"source"`
	Questions []string       `json:"questions"`
	Metadata  []MetadataPair `json:"metadata"`
}

// Details describes a knowledge base as reported by the authoring API.
type Details struct {
	ID                     string
	Name                   string
	HostName               string
	LastChangedTimestamp   time.Time
	LastPublishedTimestamp time.Time
}

// HasPendingChanges reports whether edits were made after the last publish.
// A knowledge base that was never published is pending.
func (d Details) HasPendingChanges() bool {
	if d.LastPublishedTimestamp.IsZero() {
		return true
	}
	return d.LastChangedTimestamp.After(d.LastPublishedTimestamp)
}

// Answer is the best match returned by the runtime endpoint.
type Answer struct {
	ID        int
	Answer    string
	Score     float64
	Questions []string
	Source    string
	Metadata  []MetadataPair
}

// Client is the per-language knowledge base service.
type Client interface {
	LanguageCode() string
	GetKnowledgeBase(ctx context.Context, kbID string) (*Details, error)
	HasPendingChanges(ctx context.Context, kbID string) (bool, error)
	Publish(ctx context.Context, kbID string) error
	Download(ctx context.Context, kbID string) ([]QnADocument, error)
	AddQnA(ctx context.Context, kbID, question, answer string, metadata []MetadataPair) error
	UpdateQnA(ctx context.Context, kbID string, qnaID int, question, answer string, metadata []MetadataPair) error
	GenerateAnswer(ctx context.Context, kbID, endpointKey, question string) (*Answer, error)
}
