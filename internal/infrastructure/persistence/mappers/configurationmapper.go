package mappers

import (
	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/persistence/models"
)

func LanguageConfigToModel(c *configuration.LanguageKBConfiguration) *models.ConfigurationModel {
	return &models.ConfigurationModel{
		PartitionKey:              configuration.LanguagePartitionKey,
		RowKey:                    configuration.NormalizeLanguageCode(c.LanguageCode),
		Data:                      c.LanguageCode,
		KnowledgeBaseID:           c.KnowledgeBaseID,
		QnAMakerEndpointKey:       c.QnAMakerEndpointKey,
		TeamID:                    c.TeamID,
		ChangeLanguageMessageText: c.ChangeLanguageMessageText,
		HelpTabText:               c.HelpTabText,
	}
}

// LanguageConfigToDomain returns the language code as last written; the row key is only its lookup form.
func LanguageConfigToDomain(m *models.ConfigurationModel) *configuration.LanguageKBConfiguration {
	code := m.Data
	if code == "" {
		code = m.RowKey
	}
	return &configuration.LanguageKBConfiguration{
		LanguageCode:              code,
		KnowledgeBaseID:           m.KnowledgeBaseID,
		QnAMakerEndpointKey:       m.QnAMakerEndpointKey,
		TeamID:                    m.TeamID,
		ChangeLanguageMessageText: m.ChangeLanguageMessageText,
		HelpTabText:               m.HelpTabText,
	}
}
