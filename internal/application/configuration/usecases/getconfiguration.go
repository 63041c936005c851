package usecases

import (
	"context"
	"encoding/json"

	"github.com/faqplusplus/faqplusplus/internal/application/configuration/dto"
	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// GetConfigurationUseCase reads the admin settings.
type GetConfigurationUseCase struct {
	repo     configuration.Repository
	catalog  KnowledgeBaseCatalog
	renderer HTMLRenderer
	logger   logger.Interface
}

func NewGetConfigurationUseCase(
	repo configuration.Repository,
	catalog KnowledgeBaseCatalog,
	renderer HTMLRenderer,
	logger logger.Interface,
) *GetConfigurationUseCase {
	return &GetConfigurationUseCase{
		repo:     repo,
		catalog:  catalog,
		renderer: renderer,
		logger:   logger,
	}
}

func (uc *GetConfigurationUseCase) GetTeamID(ctx context.Context) (string, error) {
	return uc.repo.GetScalar(ctx, configuration.TeamID)
}

func (uc *GetConfigurationUseCase) GetKnowledgeBaseID(ctx context.Context) (string, error) {
	return uc.repo.GetScalar(ctx, configuration.KnowledgeBaseID)
}

// GetWelcomeMessage returns the saved welcome text, saving the default first when none exists.
func (uc *GetConfigurationUseCase) GetWelcomeMessage(ctx context.Context) (string, error) {
	return uc.getOrSeed(ctx, configuration.WelcomeMessageText, configuration.DefaultWelcomeMessage)
}

// GetHelpTabText returns the saved help text, saving the default first when none exists.
func (uc *GetConfigurationUseCase) GetHelpTabText(ctx context.Context) (string, error) {
	return uc.getOrSeed(ctx, configuration.HelpTabText, configuration.DefaultHelpTabText)
}

// GetHelpTabHTML renders the help text for the help tab.
func (uc *GetConfigurationUseCase) GetHelpTabHTML(ctx context.Context) (string, error) {
	text, err := uc.GetHelpTabText(ctx)
	if err != nil {
		return "", err
	}
	return uc.renderer.ToSafeHTML(text)
}

func (uc *GetConfigurationUseCase) getOrSeed(ctx context.Context, key configuration.EntityType, fallback string) (string, error) {
	value, err := uc.repo.GetScalar(ctx, key)
	if err != nil {
		return "", err
	}
	if value != "" {
		return value, nil
	}

	if !uc.repo.UpsertScalar(ctx, key, fallback) {
		uc.logger.Warnw("failed to save default setting", "key", key)
		return fallback, nil
	}
	value, err = uc.repo.GetScalar(ctx, key)
	if err != nil {
		return "", err
	}
	if value == "" {
		return fallback, nil
	}
	return value, nil
}

// ListLanguages returns every configured language joined with its saved binding.
func (uc *GetConfigurationUseCase) ListLanguages(ctx context.Context) ([]*dto.LanguageDTO, error) {
	bindings, err := uc.repo.ListLanguageConfigs(ctx)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]*configuration.LanguageKBConfiguration, len(bindings))
	for _, b := range bindings {
		byCode[configuration.NormalizeLanguageCode(b.LanguageCode)] = b
	}

	languages := uc.catalog.Languages()
	out := make([]*dto.LanguageDTO, 0, len(languages))
	for _, lang := range languages {
		out = append(out, &dto.LanguageDTO{
			LanguageCode: lang.LanguageCode,
			LanguageName: lang.LanguageName,
			Default:      lang.Default,
			Binding:      dto.ToLanguageBindingDTO(byCode[configuration.NormalizeLanguageCode(lang.LanguageCode)]),
		})
	}
	return out, nil
}

func (uc *GetConfigurationUseCase) GetLanguageBinding(ctx context.Context, languageCode string) (*dto.LanguageBindingDTO, error) {
	cfg, err := uc.repo.GetLanguageConfig(ctx, languageCode)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.NewNotFoundError("language binding not found", languageCode)
	}
	return dto.ToLanguageBindingDTO(cfg), nil
}

// GetSupportedLanguages returns the saved language codes; nil when none were saved.
func (uc *GetConfigurationUseCase) GetSupportedLanguages(ctx context.Context) ([]string, error) {
	raw, err := uc.repo.GetScalar(ctx, configuration.SupportedLanguages)
	if err != nil || raw == "" {
		return nil, err
	}
	var codes []string
	if err := json.Unmarshal([]byte(raw), &codes); err != nil {
		uc.logger.Warnw("stored supported languages are not a JSON array", "error", err)
		return nil, nil
	}
	return codes, nil
}
