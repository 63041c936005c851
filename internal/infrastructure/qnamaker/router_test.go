package qnamaker

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

type mockClient struct {
	knowledgebase.Client
	language             string
	GetKnowledgeBaseFunc func(ctx context.Context, kbID string) (*knowledgebase.Details, error)
}

func (m *mockClient) LanguageCode() string { return m.language }

func (m *mockClient) GetKnowledgeBase(ctx context.Context, kbID string) (*knowledgebase.Details, error) {
	return m.GetKnowledgeBaseFunc(ctx, kbID)
}

func testLanguages() []sharedConfig.LanguageQnAMakerKey {
	return []sharedConfig.LanguageQnAMakerKey{
		{LanguageCode: "en", LanguageName: "English"},
		{LanguageCode: "fr-FR", LanguageName: "Français", Default: true},
	}
}

func TestRouter_Resolve(t *testing.T) {
	en := &mockClient{language: "en"}
	fr := &mockClient{language: "fr-FR"}
	router := NewRouterWithClients(testLanguages(), []knowledgebase.Client{en, fr}, logger.NewNop())

	tests := []struct {
		code string
		want knowledgebase.Client
		ok   bool
	}{
		{"en", en, true},
		{"EN", en, true},
		{"fr-fr", fr, true},
		{" FR-FR ", fr, true},
		{"fr", nil, false},
		{"de", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("code %q", tt.code), func(t *testing.T) {
			got, ok := router.Resolve(tt.code)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Same(t, tt.want, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestRouter_DefaultAndLanguages(t *testing.T) {
	router := NewRouterWithClients(testLanguages(), []knowledgebase.Client{&mockClient{}, &mockClient{}}, logger.NewNop())

	code, ok := router.Default()
	require.True(t, ok)
	assert.Equal(t, "fr-FR", code)
	assert.Len(t, router.Languages(), 2)
	assert.True(t, router.IsConfigured("FR-fr"))
	assert.False(t, router.IsConfigured("fr"))

	empty := NewRouterWithClients(nil, nil, logger.NewNop())
	_, ok = empty.Default()
	assert.False(t, ok)
}

func TestRouter_IsKnowledgeBaseValid(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    bool
		wantErr bool
	}{
		{"exists", nil, true, false},
		{"not found", &KnowledgeBaseError{Operation: "get knowledge base", StatusCode: http.StatusNotFound}, false, false},
		{"bad request", &KnowledgeBaseError{Operation: "get knowledge base", StatusCode: http.StatusBadRequest}, false, false},
		{"service failure", &KnowledgeBaseError{Operation: "get knowledge base", StatusCode: http.StatusServiceUnavailable}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{
				language: "en",
				GetKnowledgeBaseFunc: func(ctx context.Context, kbID string) (*knowledgebase.Details, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &knowledgebase.Details{ID: kbID}, nil
				},
			}
			router := NewRouterWithClients(testLanguages()[:1], []knowledgebase.Client{client}, logger.NewNop())

			valid, err := router.IsKnowledgeBaseValid(context.Background(), "en", "kb-1")
			assert.Equal(t, tt.want, valid)
			if tt.wantErr {
				assert.True(t, IsKnowledgeBaseError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("unknown language", func(t *testing.T) {
		router := NewRouterWithClients(nil, nil, logger.NewNop())
		valid, err := router.IsKnowledgeBaseValid(context.Background(), "de", "kb-1")
		assert.NoError(t, err)
		assert.False(t, valid)
	})
}

func TestNewRouter_BuildsClientPerLanguage(t *testing.T) {
	router := NewRouter(sharedConfig.QnAMakerConfig{
		Endpoint:  "https://westus.api.cognitive.microsoft.com",
		Languages: testLanguages(),
	}, logger.NewNop())

	client, ok := router.Resolve("EN")
	require.True(t, ok)
	assert.Equal(t, "en", client.LanguageCode())
}
