package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/faqplusplus/faqplusplus/internal/application/configuration/dto"
	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/domain/langpref"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
	"github.com/faqplusplus/faqplusplus/internal/shared/utils"
)

// UpdateConfigurationUseCase validates and saves the admin settings.
type UpdateConfigurationUseCase struct {
	repo    configuration.Repository
	catalog KnowledgeBaseCatalog
	logger  logger.Interface
}

func NewUpdateConfigurationUseCase(
	repo configuration.Repository,
	catalog KnowledgeBaseCatalog,
	logger logger.Interface,
) *UpdateConfigurationUseCase {
	return &UpdateConfigurationUseCase{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

// SaveTeamID stores the expert team id and returns the id that was saved.
func (uc *UpdateConfigurationUseCase) SaveTeamID(ctx context.Context, input string) (string, error) {
	teamID, ok := ParseTeamID(input)
	if !ok {
		return "", errors.NewValidationError(msgInvalidTeamID)
	}
	if !uc.repo.UpsertScalar(ctx, configuration.TeamID, teamID) {
		return "", errors.NewInternalError(saveFailedMessage("team id"))
	}
	uc.logger.Infow("expert team id saved", "team_id", teamID)
	return teamID, nil
}

// SaveKnowledgeBaseID stores the global knowledge base id once the default language's service knows it.
func (uc *UpdateConfigurationUseCase) SaveKnowledgeBaseID(ctx context.Context, kbID string) error {
	kbID = strings.TrimSpace(kbID)
	lang, ok := uc.catalog.Default()
	if !ok {
		return errors.NewValidationError(msgInvalidKnowledgeBaseID, "no knowledge base language is configured")
	}
	if err := uc.checkKnowledgeBase(ctx, lang, kbID); err != nil {
		return err
	}
	if !uc.repo.UpsertScalar(ctx, configuration.KnowledgeBaseID, kbID) {
		return errors.NewInternalError(saveFailedMessage("knowledge base id"))
	}
	uc.logger.Infow("knowledge base id saved", "knowledge_base_id", kbID, "language", lang)
	return nil
}

func (uc *UpdateConfigurationUseCase) SaveWelcomeMessage(ctx context.Context, text string) error {
	return uc.saveText(ctx, configuration.WelcomeMessageText, "welcome message", text, welcomeMessageMinLength, welcomeMessageMaxLength)
}

func (uc *UpdateConfigurationUseCase) SaveHelpTabText(ctx context.Context, text string) error {
	return uc.saveText(ctx, configuration.HelpTabText, "help tab text", text, helpTabTextMinLength, helpTabTextMaxLength)
}

func (uc *UpdateConfigurationUseCase) saveText(ctx context.Context, key configuration.EntityType, thing, text string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	if n < minLen || n > maxLen {
		return errors.NewValidationError(fmt.Sprintf("The %s must be between %d and %d characters.", thing, minLen, maxLen))
	}
	if !uc.repo.UpsertScalar(ctx, key, text) {
		return errors.NewInternalError(saveFailedMessage(thing))
	}
	return nil
}

// SaveLanguageBinding binds a configured language to its knowledge base and expert team.
func (uc *UpdateConfigurationUseCase) SaveLanguageBinding(ctx context.Context, languageCode string, req dto.LanguageBindingRequest) (*dto.LanguageBindingDTO, error) {
	code := configuration.NormalizeLanguageCode(languageCode)
	if !uc.isConfigured(code) {
		return nil, errors.NewNotFoundError("language is not configured", languageCode)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	teamID := ""
	if strings.TrimSpace(req.TeamID) != "" {
		var ok bool
		if teamID, ok = ParseTeamID(req.TeamID); !ok {
			return nil, errors.NewValidationError(msgInvalidTeamID)
		}
	}
	if err := uc.checkKnowledgeBase(ctx, code, req.KnowledgeBaseID); err != nil {
		return nil, err
	}

	cfg := &configuration.LanguageKBConfiguration{
		LanguageCode:              code,
		KnowledgeBaseID:           req.KnowledgeBaseID,
		QnAMakerEndpointKey:       req.QnAMakerEndpointKey,
		TeamID:                    teamID,
		ChangeLanguageMessageText: req.ChangeLanguageMessageText,
		HelpTabText:               req.HelpTabText,
	}
	if cfg.QnAMakerEndpointKey == "" {
		existing, err := uc.repo.GetLanguageConfig(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			cfg.QnAMakerEndpointKey = existing.QnAMakerEndpointKey
		}
	}

	if err := uc.repo.UpsertLanguageConfig(ctx, cfg); err != nil {
		uc.logger.Errorw("failed to save language binding", "language", code, "error", err)
		return nil, errors.NewInternalError(saveFailedMessage("language configuration"))
	}
	uc.logger.Infow("language binding saved", "language", code, "knowledge_base_id", cfg.KnowledgeBaseID)
	return dto.ToLanguageBindingDTO(cfg), nil
}

// SaveSupportedLanguages stores the language codes offered in the language picker.
func (uc *UpdateConfigurationUseCase) SaveSupportedLanguages(ctx context.Context, req dto.SupportedLanguagesRequest) ([]string, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(req.LanguageCodes))
	codes := make([]string, 0, len(req.LanguageCodes))
	for _, c := range req.LanguageCodes {
		code, err := langpref.CanonicalCode(c)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	raw, err := json.Marshal(codes)
	if err != nil {
		return nil, err
	}
	if !uc.repo.UpsertScalar(ctx, configuration.SupportedLanguages, string(raw)) {
		return nil, errors.NewInternalError(saveFailedMessage("supported languages"))
	}
	return codes, nil
}

func (uc *UpdateConfigurationUseCase) checkKnowledgeBase(ctx context.Context, languageCode, kbID string) error {
	if strings.TrimSpace(kbID) == "" {
		return errors.NewValidationError(msgInvalidKnowledgeBaseID)
	}
	valid, err := uc.catalog.IsKnowledgeBaseValid(ctx, languageCode, kbID)
	if err != nil {
		uc.logger.Errorw("failed to validate knowledge base id", "language", languageCode, "knowledge_base_id", kbID, "error", err)
		return err
	}
	if !valid {
		return errors.NewValidationError(msgInvalidKnowledgeBaseID)
	}
	return nil
}

func (uc *UpdateConfigurationUseCase) isConfigured(code string) bool {
	for _, lang := range uc.catalog.Languages() {
		if strings.EqualFold(lang.LanguageCode, code) {
			return true
		}
	}
	return false
}
