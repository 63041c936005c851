package usecases

import (
	"context"
	"sync"

	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
)

type mockRepository struct {
	mu        sync.Mutex
	scalars   map[configuration.EntityType]string
	languages map[string]*configuration.LanguageKBConfiguration

	UpsertScalarFunc         func(key configuration.EntityType, value string) bool
	UpsertLanguageConfigFunc func(cfg *configuration.LanguageKBConfiguration) error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		scalars:   map[configuration.EntityType]string{},
		languages: map[string]*configuration.LanguageKBConfiguration{},
	}
}

func (m *mockRepository) UpsertScalar(_ context.Context, key configuration.EntityType, value string) bool {
	if m.UpsertScalarFunc != nil && !m.UpsertScalarFunc(key, value) {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scalars[key] = value
	return true
}

func (m *mockRepository) GetScalar(_ context.Context, key configuration.EntityType) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scalars[key], nil
}

func (m *mockRepository) UpsertLanguageConfig(_ context.Context, cfg *configuration.LanguageKBConfiguration) error {
	if m.UpsertLanguageConfigFunc != nil {
		if err := m.UpsertLanguageConfigFunc(cfg); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cfg
	m.languages[configuration.NormalizeLanguageCode(cfg.LanguageCode)] = &cp
	return nil
}

func (m *mockRepository) GetLanguageConfig(_ context.Context, code string) (*configuration.LanguageKBConfiguration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, ok := m.languages[configuration.NormalizeLanguageCode(code)]
	if !ok {
		return nil, nil
	}
	cp := *cfg
	return &cp, nil
}

func (m *mockRepository) ListLanguageConfigs(context.Context) ([]*configuration.LanguageKBConfiguration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*configuration.LanguageKBConfiguration, 0, len(m.languages))
	for _, cfg := range m.languages {
		cp := *cfg
		out = append(out, &cp)
	}
	return out, nil
}

type mockCatalog struct {
	languages []sharedConfig.LanguageQnAMakerKey
	// valid lists the accepted "language/kbID" pairs.
	valid map[string]bool

	IsKnowledgeBaseValidFunc func(languageCode, kbID string) (bool, error)
}

func (m *mockCatalog) IsKnowledgeBaseValid(_ context.Context, languageCode, kbID string) (bool, error) {
	if m.IsKnowledgeBaseValidFunc != nil {
		return m.IsKnowledgeBaseValidFunc(languageCode, kbID)
	}
	return m.valid[languageCode+"/"+kbID], nil
}

func (m *mockCatalog) Languages() []sharedConfig.LanguageQnAMakerKey {
	return m.languages
}

func (m *mockCatalog) Default() (string, bool) {
	for _, l := range m.languages {
		if l.Default {
			return l.LanguageCode, true
		}
	}
	if len(m.languages) > 0 {
		return m.languages[0].LanguageCode, true
	}
	return "", false
}

func newCatalog() *mockCatalog {
	return &mockCatalog{
		languages: []sharedConfig.LanguageQnAMakerKey{
			{LanguageCode: "en", LanguageName: "English", Default: true},
			{LanguageCode: "fr", LanguageName: "Français"},
		},
		valid: map[string]bool{"en/kb-en": true, "fr/kb-fr": true},
	}
}
