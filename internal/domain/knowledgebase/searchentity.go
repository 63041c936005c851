package knowledgebase

import (
	"strconv"
	"strings"
	"time"
)

const (
	MetadataCreatedAt = "CreatedAt"
	MetadataUpdatedAt = "UpdatedAt"
	MetadataCreatedBy = "CreatedBy"
	MetadataUpdatedBy = "UpdatedBy"
	MetadataTicketID  = "TicketId"
)

// MinTime is the date used when a QnA pair carries no timestamp metadata.
var MinTime = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// unixEpochTicks is 1970-01-01 expressed in 100ns ticks since 0001-01-01.
const unixEpochTicks int64 = 621355968000000000

const ticksPerSecond int64 = 10_000_000

// SearchEntity is the search projection of one QnA pair.
type SearchEntity struct {
	LanguageCode string         `json:"languageCode"`
	ID           string         `json:"id"`
	Source       string         `json:"source"`
	Questions    []string       `json:"questions"`
	Answer       string         `json:"answer"`
	CreatedDate  time.Time      `json:"createdDate"`
	UpdatedDate  time.Time      `json:"updatedDate"`
	Metadata     []MetadataPair `json:"metadata"`
}

// ProjectDocuments maps a downloaded knowledge base into search entities.
// The result is never nil so an empty knowledge base serialises as [].
func ProjectDocuments(languageCode string, docs []QnADocument) []SearchEntity {
	entities := make([]SearchEntity, 0, len(docs))
	for _, d := range docs {
		questions := d.Questions
		if questions == nil {
			questions = []string{}
		}
		metadata := d.Metadata
		if metadata == nil {
			metadata = []MetadataPair{}
		}
		entities = append(entities, SearchEntity{
			LanguageCode: languageCode,
			ID:           strconv.Itoa(d.ID),
			Source:       d.Source,
			Questions:    questions,
			Answer:       d.Answer,
			CreatedDate:  metadataTime(d.Metadata, MetadataCreatedAt),
			UpdatedDate:  metadataTime(d.Metadata, MetadataUpdatedAt),
			Metadata:     metadata,
		})
	}
	return entities
}

// metadataTime reads a tick-encoded timestamp by name. Names are matched
// case-insensitively because the service lower-cases metadata keys.
func metadataTime(metadata []MetadataPair, name string) time.Time {
	for _, m := range metadata {
		if !strings.EqualFold(m.Name, name) {
			continue
		}
		ticks, err := strconv.ParseInt(strings.TrimSpace(m.Value), 10, 64)
		if err != nil {
			return MinTime
		}
		return FromTicks(ticks)
	}
	return MinTime
}

// FromTicks converts 100ns ticks since 0001-01-01 UTC into a time.
func FromTicks(ticks int64) time.Time {
	delta := ticks - unixEpochTicks
	return time.Unix(delta/ticksPerSecond, (delta%ticksPerSecond)*100).UTC()
}

// ToTicks is the inverse of FromTicks.
func ToTicks(t time.Time) int64 {
	t = t.UTC()
	return t.Unix()*ticksPerSecond + int64(t.Nanosecond())/100 + unixEpochTicks
}
