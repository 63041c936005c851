package http

import (
	"gorm.io/gorm"

	"github.com/faqplusplus/faqplusplus/internal/infrastructure/repository"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// repositories holds the gorm-backed stores.
type repositories struct {
	ticketRepo        *repository.TicketRepository
	configurationRepo *repository.ConfigurationRepository
	languagePrefRepo  *repository.LanguagePreferenceRepository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		ticketRepo:        repository.NewTicketRepository(db, log),
		configurationRepo: repository.NewConfigurationRepository(db, log),
		languagePrefRepo:  repository.NewLanguagePreferenceRepository(db, log),
	}
}
