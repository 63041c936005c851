package dto

import (
	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
)

// TeamIDRequest accepts either a raw team id or a Teams deep link to the team.
type TeamIDRequest struct {
	TeamID string `json:"teamId" binding:"required"`
}

type KnowledgeBaseIDRequest struct {
	KnowledgeBaseID string `json:"knowledgeBaseId" binding:"required"`
}

type WelcomeMessageRequest struct {
	WelcomeMessage string `json:"welcomeMessage" binding:"required"`
}

type HelpTabTextRequest struct {
	HelpTabText string `json:"helpTabText" binding:"required"`
}

// LanguageBindingRequest binds a configured language to its knowledge base and expert team.
type LanguageBindingRequest struct {
	KnowledgeBaseID           string `json:"knowledgeBaseId" validate:"required,nospace"`
	QnAMakerEndpointKey       string `json:"qnaMakerEndpointKey" validate:"omitempty,nospace"`
	TeamID                    string `json:"teamId" validate:"omitempty,max=1000"`
	ChangeLanguageMessageText string `json:"changeLanguageMessageText" validate:"max=300"`
	HelpTabText               string `json:"helpTabText" validate:"max=3000"`
}

type SupportedLanguagesRequest struct {
	LanguageCodes []string `json:"languageCodes" validate:"required,dive,bcp47_language_tag"`
}

// ValueResponse wraps a single scalar setting.
type ValueResponse struct {
	Value string `json:"value"`
}

// LanguageBindingDTO is a saved language binding. The endpoint key is never returned.
type LanguageBindingDTO struct {
	LanguageCode              string `json:"languageCode"`
	KnowledgeBaseID           string `json:"knowledgeBaseId"`
	TeamID                    string `json:"teamId"`
	ChangeLanguageMessageText string `json:"changeLanguageMessageText"`
	HelpTabText               string `json:"helpTabText"`
	HasEndpointKey            bool   `json:"hasEndpointKey"`
}

// LanguageDTO is a language served by the bot with its saved binding, if any.
type LanguageDTO struct {
	LanguageCode string              `json:"languageCode"`
	LanguageName string              `json:"languageName"`
	Default      bool                `json:"default"`
	Binding      *LanguageBindingDTO `json:"binding,omitempty"`
}

func ToLanguageBindingDTO(cfg *configuration.LanguageKBConfiguration) *LanguageBindingDTO {
	if cfg == nil {
		return nil
	}
	return &LanguageBindingDTO{
		LanguageCode:              cfg.LanguageCode,
		KnowledgeBaseID:           cfg.KnowledgeBaseID,
		TeamID:                    cfg.TeamID,
		ChangeLanguageMessageText: cfg.ChangeLanguageMessageText,
		HelpTabText:               cfg.HelpTabText,
		HasEndpointKey:            cfg.QnAMakerEndpointKey != "",
	}
}
