package configuration

import (
	"context"

	"github.com/faqplusplus/faqplusplus/internal/application/configuration/dto"
	"github.com/faqplusplus/faqplusplus/internal/application/configuration/usecases"
	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// Service aggregates the admin configuration use cases.
type Service struct {
	getUC    *usecases.GetConfigurationUseCase
	updateUC *usecases.UpdateConfigurationUseCase
}

func NewService(
	repo configuration.Repository,
	catalog usecases.KnowledgeBaseCatalog,
	renderer usecases.HTMLRenderer,
	logger logger.Interface,
) *Service {
	return &Service{
		getUC:    usecases.NewGetConfigurationUseCase(repo, catalog, renderer, logger),
		updateUC: usecases.NewUpdateConfigurationUseCase(repo, catalog, logger),
	}
}

func (s *Service) GetTeamID(ctx context.Context) (string, error) {
	return s.getUC.GetTeamID(ctx)
}

func (s *Service) SaveTeamID(ctx context.Context, input string) (string, error) {
	return s.updateUC.SaveTeamID(ctx, input)
}

func (s *Service) GetKnowledgeBaseID(ctx context.Context) (string, error) {
	return s.getUC.GetKnowledgeBaseID(ctx)
}

func (s *Service) SaveKnowledgeBaseID(ctx context.Context, kbID string) error {
	return s.updateUC.SaveKnowledgeBaseID(ctx, kbID)
}

func (s *Service) GetWelcomeMessage(ctx context.Context) (string, error) {
	return s.getUC.GetWelcomeMessage(ctx)
}

func (s *Service) SaveWelcomeMessage(ctx context.Context, text string) error {
	return s.updateUC.SaveWelcomeMessage(ctx, text)
}

func (s *Service) GetHelpTabText(ctx context.Context) (string, error) {
	return s.getUC.GetHelpTabText(ctx)
}

func (s *Service) GetHelpTabHTML(ctx context.Context) (string, error) {
	return s.getUC.GetHelpTabHTML(ctx)
}

func (s *Service) SaveHelpTabText(ctx context.Context, text string) error {
	return s.updateUC.SaveHelpTabText(ctx, text)
}

func (s *Service) ListLanguages(ctx context.Context) ([]*dto.LanguageDTO, error) {
	return s.getUC.ListLanguages(ctx)
}

func (s *Service) GetLanguageBinding(ctx context.Context, languageCode string) (*dto.LanguageBindingDTO, error) {
	return s.getUC.GetLanguageBinding(ctx, languageCode)
}

func (s *Service) SaveLanguageBinding(ctx context.Context, languageCode string, req dto.LanguageBindingRequest) (*dto.LanguageBindingDTO, error) {
	return s.updateUC.SaveLanguageBinding(ctx, languageCode, req)
}

func (s *Service) GetSupportedLanguages(ctx context.Context) ([]string, error) {
	return s.getUC.GetSupportedLanguages(ctx)
}

func (s *Service) SaveSupportedLanguages(ctx context.Context, req dto.SupportedLanguagesRequest) ([]string, error) {
	return s.updateUC.SaveSupportedLanguages(ctx, req)
}
