package knowledgebase

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTicks(t *testing.T) {
	assert.Equal(t, time.Unix(0, 0).UTC(), FromTicks(unixEpochTicks))
	assert.Equal(t, MinTime, FromTicks(0))

	at := time.Date(2023, 11, 5, 14, 30, 15, 123456700, time.UTC)
	assert.Equal(t, at, FromTicks(ToTicks(at)))
}

func TestProjectDocuments(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	docs := []QnADocument{
		{
			ID:        7,
			Answer:    "Restart the print spooler service",
			Source:    "Editorial",
			Questions: []string{"Printer broken", "Cannot print"},
			Metadata: []MetadataPair{
				{Name: "createdat", Value: strconv.FormatInt(ToTicks(created), 10)},
				{Name: "UpdatedAt", Value: "not-a-number"},
			},
		},
		{ID: 8, Answer: "No metadata"},
	}

	entities := ProjectDocuments("en", docs)
	require.Len(t, entities, 2)

	first := entities[0]
	assert.Equal(t, "en", first.LanguageCode)
	assert.Equal(t, "7", first.ID)
	assert.Equal(t, []string{"Printer broken", "Cannot print"}, first.Questions)
	assert.Equal(t, created, first.CreatedDate)
	assert.Equal(t, MinTime, first.UpdatedDate)

	second := entities[1]
	assert.Equal(t, MinTime, second.CreatedDate)
	assert.Equal(t, MinTime, second.UpdatedDate)
	assert.NotNil(t, second.Questions)
	assert.NotNil(t, second.Metadata)
}

func TestProjectDocumentsEmpty(t *testing.T) {
	entities := ProjectDocuments("fr", nil)
	assert.NotNil(t, entities)
	assert.Empty(t, entities)
}

func TestDetailsHasPendingChanges(t *testing.T) {
	now := time.Now()
	assert.True(t, Details{LastChangedTimestamp: now}.HasPendingChanges())
	assert.True(t, Details{LastChangedTimestamp: now, LastPublishedTimestamp: now.Add(-time.Minute)}.HasPendingChanges())
	assert.False(t, Details{LastChangedTimestamp: now.Add(-time.Minute), LastPublishedTimestamp: now}.HasPendingChanges())
}
