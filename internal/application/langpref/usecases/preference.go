package usecases

import (
	"context"
	"strings"

	"github.com/faqplusplus/faqplusplus/internal/domain/langpref"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// LanguageCatalog reports which languages have a knowledge base.
type LanguageCatalog interface {
	Default() (string, bool)
	IsConfigured(languageCode string) bool
}

// GetPreferredLanguageUseCase resolves the language a user is answered in.
type GetPreferredLanguageUseCase struct {
	repo    langpref.Repository
	catalog LanguageCatalog
	logger  logger.Interface
}

func NewGetPreferredLanguageUseCase(repo langpref.Repository, catalog LanguageCatalog, logger logger.Interface) *GetPreferredLanguageUseCase {
	return &GetPreferredLanguageUseCase{repo: repo, catalog: catalog, logger: logger}
}

// Execute returns the saved language, or the default language when the user
// has no preference or prefers a language that is no longer configured.
// hasPreference reports whether a usable preference was found.
func (uc *GetPreferredLanguageUseCase) Execute(ctx context.Context, userObjectID string) (code string, hasPreference bool, err error) {
	defaultCode, _ := uc.catalog.Default()
	if strings.TrimSpace(userObjectID) == "" {
		return defaultCode, false, nil
	}

	pref, err := uc.repo.Get(ctx, userObjectID)
	if err != nil {
		uc.logger.Errorw("failed to load language preference", "user_object_id", userObjectID, "error", err)
		return "", false, err
	}
	if pref == nil {
		return defaultCode, false, nil
	}
	if !uc.catalog.IsConfigured(pref.LanguageCode) {
		uc.logger.Warnw("preferred language is not configured", "user_object_id", userObjectID, "language", pref.LanguageCode)
		return defaultCode, false, nil
	}
	return pref.LanguageCode, true, nil
}

// SetPreferredLanguageUseCase saves a user's language choice.
type SetPreferredLanguageUseCase struct {
	repo    langpref.Repository
	catalog LanguageCatalog
	logger  logger.Interface
}

func NewSetPreferredLanguageUseCase(repo langpref.Repository, catalog LanguageCatalog, logger logger.Interface) *SetPreferredLanguageUseCase {
	return &SetPreferredLanguageUseCase{repo: repo, catalog: catalog, logger: logger}
}

func (uc *SetPreferredLanguageUseCase) Execute(ctx context.Context, userObjectID, languageCode string) (*langpref.Preference, error) {
	pref, err := langpref.NewPreference(userObjectID, languageCode)
	if err != nil {
		return nil, err
	}
	if !uc.catalog.IsConfigured(pref.LanguageCode) {
		return nil, errors.NewValidationError("language is not configured", pref.LanguageCode)
	}
	if err := uc.repo.Upsert(ctx, pref); err != nil {
		uc.logger.Errorw("failed to save language preference", "user_object_id", userObjectID, "error", err)
		return nil, err
	}
	uc.logger.Infow("language preference saved", "user_object_id", userObjectID, "language", pref.LanguageCode)
	return pref, nil
}
