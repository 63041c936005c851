package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/domain/langpref"
	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	sharedlogger "github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	// Every connection to :memory: is its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func createTestTicket(t *testing.T, id, requesterUPN string) *ticket.Ticket {
	tk, err := ticket.NewTicket(ticket.NewTicketParams{
		TicketID:     id,
		Title:        "How do I reset my password?",
		Description:  "The self-service page returns an error",
		LanguageCode: "en",
		Requester: ticket.Person{
			Name:              "Alex Wilber",
			ObjectID:          "obj-alex",
			UserPrincipalName: requesterUPN,
			GivenName:         "Alex",
		},
		RequesterConversationID: "conv-1",
		UserQuestion:            "reset password",
		CreatedAt:               time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return tk
}

func TestTicketRepository_UpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTicketRepository(db, sharedlogger.NewNop())
	ctx := context.Background()

	t.Run("round trip preserves fields", func(t *testing.T) {
		tk := createTestTicket(t, "10000", "alex@contoso.com")
		require.NoError(t, repo.Upsert(ctx, tk))

		found, err := repo.Get(ctx, "10000")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, tk.Title(), found.Title())
		assert.Equal(t, tk.Description(), found.Description())
		assert.Equal(t, ticket.StatusUnAnswered, found.Status())
		assert.Equal(t, "alex@contoso.com", found.RequesterUserPrincipalName())
		assert.WithinDuration(t, tk.DateCreated(), found.DateCreated(), time.Second)
		assert.Nil(t, found.DateAssigned())
	})

	t.Run("upsert replaces existing row", func(t *testing.T) {
		tk := createTestTicket(t, "10001", "alex@contoso.com")
		require.NoError(t, repo.Upsert(ctx, tk))

		expert := ticket.Person{Name: "Megan Bowen", ObjectID: "obj-megan", UserPrincipalName: "megan@contoso.com"}
		require.NoError(t, tk.Answer("Use the reset portal", expert, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)))
		tk.AttachSMECard("activity-1", "thread-1")
		require.NoError(t, repo.Upsert(ctx, tk))

		found, err := repo.Get(ctx, "10001")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.IsAnswered())
		assert.Equal(t, "Use the reset portal", found.AnswerBySME())
		assert.Equal(t, "megan@contoso.com", found.AssignedToUserPrincipalName())
		assert.Equal(t, "activity-1", found.SMECardActivityID())
		assert.Equal(t, "thread-1", found.SMEThreadConversationID())
		require.NotNil(t, found.DateAssigned())

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("empty and unknown ids return nil", func(t *testing.T) {
		found, err := repo.Get(ctx, "")
		assert.NoError(t, err)
		assert.Nil(t, found)

		found, err = repo.Get(ctx, "99999")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestTicketRepository_ListAndSoftDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTicketRepository(db, sharedlogger.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, createTestTicket(t, "10000", "alex@contoso.com")))
	require.NoError(t, repo.Upsert(ctx, createTestTicket(t, "10001", "alex@contoso.com")))
	require.NoError(t, repo.Upsert(ctx, createTestTicket(t, "10002", "lee@contoso.com")))

	mine, err := repo.ListByRequester(ctx, "alex@contoso.com")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	tk, err := repo.Get(ctx, "10001")
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(ctx, tk))

	mine, err = repo.ListByRequester(ctx, "alex@contoso.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "10000", mine[0].TicketID())

	deleted, err := repo.Get(ctx, "10001")
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.True(t, deleted.IsDeleted())

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "10003", ticket.NextID(len(all)))
}

func TestTicketRepository_ListByRequesterIgnoresUPNCase(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTicketRepository(db, sharedlogger.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, createTestTicket(t, "10000", "Alex.Wilber@Contoso.com")))
	require.NoError(t, repo.Upsert(ctx, createTestTicket(t, "10001", "lee@contoso.com")))

	for _, upn := range []string{"alex.wilber@contoso.com", "ALEX.WILBER@CONTOSO.COM", "Alex.Wilber@Contoso.com"} {
		mine, err := repo.ListByRequester(ctx, upn)
		require.NoError(t, err)
		require.Len(t, mine, 1, upn)
		assert.Equal(t, "10000", mine[0].TicketID())
		assert.Equal(t, "Alex.Wilber@Contoso.com", mine[0].RequesterUserPrincipalName())
	}
}

func TestTicketRepository_ConcurrentFirstUse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTicketRepository(db, sharedlogger.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Upsert(ctx, createTestTicket(t, fmt.Sprintf("%d", 10000+i), "alex@contoso.com"))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(errs), n)
}

func TestTicketRepository_StorageFailure(t *testing.T) {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	repo := NewTicketRepository(db, sharedlogger.NewNop())
	_, err = repo.ListAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsUnavailableError(err))

	// The failed initialization is remembered.
	_, err = repo.Get(context.Background(), "10000")
	assert.True(t, errors.IsUnavailableError(err))
}

func TestConfigurationRepository_Scalars(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConfigurationRepository(db, sharedlogger.NewNop())
	ctx := context.Background()

	value, err := repo.GetScalar(ctx, configuration.WelcomeMessageText)
	require.NoError(t, err)
	assert.Empty(t, value)

	assert.True(t, repo.UpsertScalar(ctx, configuration.WelcomeMessageText, "Hello"))
	assert.True(t, repo.UpsertScalar(ctx, configuration.WelcomeMessageText, "Hello again"))

	value, err = repo.GetScalar(ctx, configuration.WelcomeMessageText)
	require.NoError(t, err)
	assert.Equal(t, "Hello again", value)

	value, err = repo.GetScalar(ctx, configuration.TeamID)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestConfigurationRepository_UpsertScalarFailureReportsFalse(t *testing.T) {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	repo := NewConfigurationRepository(db, sharedlogger.NewNop())
	assert.False(t, repo.UpsertScalar(context.Background(), configuration.TeamID, "19:abc@thread.skype"))
}

func TestConfigurationRepository_LanguageConfigs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConfigurationRepository(db, sharedlogger.NewNop())
	ctx := context.Background()

	en := &configuration.LanguageKBConfiguration{
		LanguageCode:              "en-US",
		KnowledgeBaseID:           "kb-en",
		QnAMakerEndpointKey:       "endpoint-key",
		TeamID:                    "19:en@thread.skype",
		ChangeLanguageMessageText: "Switch to English",
		HelpTabText:               "Help",
	}
	fr := &configuration.LanguageKBConfiguration{LanguageCode: "fr", KnowledgeBaseID: "kb-fr"}
	require.NoError(t, repo.UpsertLanguageConfig(ctx, en))
	require.NoError(t, repo.UpsertLanguageConfig(ctx, fr))

	found, err := repo.GetLanguageConfig(ctx, "EN-us")
	require.NoError(t, err)
	assert.Equal(t, en, found)

	missing, err := repo.GetLanguageConfig(ctx, "de")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := repo.ListLanguageConfigs(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "en-US", all[0].LanguageCode)
	assert.Equal(t, "fr", all[1].LanguageCode)

	// Scalars share the table but never leak into the language listing.
	assert.True(t, repo.UpsertScalar(ctx, configuration.KnowledgeBaseID, "kb-scalar"))
	all, err = repo.ListLanguageConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLanguagePreferenceRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLanguagePreferenceRepository(db, sharedlogger.NewNop())
	ctx := context.Background()

	found, err := repo.Get(ctx, "obj-alex")
	require.NoError(t, err)
	assert.Nil(t, found)

	pref, err := langpref.NewPreference("obj-alex", "FR")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, pref))

	pref, err = langpref.NewPreference("obj-alex", "es")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, pref))

	found, err = repo.Get(ctx, "obj-alex")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "es", found.LanguageCode)
}
