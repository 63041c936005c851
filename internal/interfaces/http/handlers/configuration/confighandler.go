package configuration

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/faqplusplus/faqplusplus/internal/application/configuration/dto"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
	"github.com/faqplusplus/faqplusplus/internal/shared/utils"
)

// Service is the admin configuration surface the handler drives.
type Service interface {
	GetTeamID(ctx context.Context) (string, error)
	SaveTeamID(ctx context.Context, input string) (string, error)
	GetKnowledgeBaseID(ctx context.Context) (string, error)
	SaveKnowledgeBaseID(ctx context.Context, kbID string) error
	GetWelcomeMessage(ctx context.Context) (string, error)
	SaveWelcomeMessage(ctx context.Context, text string) error
	GetHelpTabText(ctx context.Context) (string, error)
	GetHelpTabHTML(ctx context.Context) (string, error)
	SaveHelpTabText(ctx context.Context, text string) error
	ListLanguages(ctx context.Context) ([]*dto.LanguageDTO, error)
	GetLanguageBinding(ctx context.Context, languageCode string) (*dto.LanguageBindingDTO, error)
	SaveLanguageBinding(ctx context.Context, languageCode string, req dto.LanguageBindingRequest) (*dto.LanguageBindingDTO, error)
	GetSupportedLanguages(ctx context.Context) ([]string, error)
	SaveSupportedLanguages(ctx context.Context, req dto.SupportedLanguagesRequest) ([]string, error)
}

type ConfigHandler struct {
	service Service
	logger  logger.Interface
}

func NewConfigHandler(service Service, logger logger.Interface) *ConfigHandler {
	return &ConfigHandler{
		service: service,
		logger:  logger,
	}
}

// GetTeamID handles GET /api/config/teamid
//
//	@Summary	Get the expert team id
//	@Tags		configuration
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	utils.APIResponse{data=dto.ValueResponse}
//	@Router		/api/config/teamid [get]
func (h *ConfigHandler) GetTeamID(c *gin.Context) {
	h.respondValue(c, h.service.GetTeamID)
}

// SaveTeamID handles POST /api/config/teamid
//
//	@Summary	Save the expert team id
//	@Description	Accepts a raw team id or a Teams deep link to the team.
//	@Tags		configuration
//	@Accept		json
//	@Produce	json
//	@Security	Bearer
//	@Param		body	body		dto.TeamIDRequest	true	"team id or deep link"
//	@Success	200		{object}	utils.APIResponse{data=dto.ValueResponse}
//	@Failure	400		{object}	utils.APIResponse
//	@Router		/api/config/teamid [post]
func (h *ConfigHandler) SaveTeamID(c *gin.Context) {
	var req dto.TeamIDRequest
	if !h.bind(c, &req) {
		return
	}
	teamID, err := h.service.SaveTeamID(c.Request.Context(), req.TeamID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Team id saved", dto.ValueResponse{Value: teamID})
}

// GetKnowledgeBaseID handles GET /api/config/knowledgebaseid
//
//	@Summary	Get the global knowledge base id
//	@Tags		configuration
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	utils.APIResponse{data=dto.ValueResponse}
//	@Router		/api/config/knowledgebaseid [get]
func (h *ConfigHandler) GetKnowledgeBaseID(c *gin.Context) {
	h.respondValue(c, h.service.GetKnowledgeBaseID)
}

// SaveKnowledgeBaseID handles POST /api/config/knowledgebaseid
//
//	@Summary	Save the global knowledge base id
//	@Tags		configuration
//	@Accept		json
//	@Produce	json
//	@Security	Bearer
//	@Param		body	body		dto.KnowledgeBaseIDRequest	true	"knowledge base id"
//	@Success	200		{object}	utils.APIResponse{data=dto.ValueResponse}
//	@Failure	400		{object}	utils.APIResponse
//	@Router		/api/config/knowledgebaseid [post]
func (h *ConfigHandler) SaveKnowledgeBaseID(c *gin.Context) {
	var req dto.KnowledgeBaseIDRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.service.SaveKnowledgeBaseID(c.Request.Context(), req.KnowledgeBaseID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Knowledge base id saved", dto.ValueResponse{Value: req.KnowledgeBaseID})
}

// GetWelcomeMessage handles GET /api/config/welcomemessage
//
//	@Summary	Get the welcome message
//	@Tags		configuration
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	utils.APIResponse{data=dto.ValueResponse}
//	@Router		/api/config/welcomemessage [get]
func (h *ConfigHandler) GetWelcomeMessage(c *gin.Context) {
	h.respondValue(c, h.service.GetWelcomeMessage)
}

// SaveWelcomeMessage handles POST /api/config/welcomemessage
//
//	@Summary	Save the welcome message
//	@Tags		configuration
//	@Accept		json
//	@Produce	json
//	@Security	Bearer
//	@Param		body	body		dto.WelcomeMessageRequest	true	"welcome text"
//	@Success	200		{object}	utils.APIResponse{data=dto.ValueResponse}
//	@Failure	400		{object}	utils.APIResponse
//	@Router		/api/config/welcomemessage [post]
func (h *ConfigHandler) SaveWelcomeMessage(c *gin.Context) {
	var req dto.WelcomeMessageRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.service.SaveWelcomeMessage(c.Request.Context(), req.WelcomeMessage); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Welcome message saved", dto.ValueResponse{Value: req.WelcomeMessage})
}

// GetHelpTabText handles GET /api/config/helptabtext
//
//	@Summary	Get the help tab Markdown
//	@Tags		configuration
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	utils.APIResponse{data=dto.ValueResponse}
//	@Router		/api/config/helptabtext [get]
func (h *ConfigHandler) GetHelpTabText(c *gin.Context) {
	h.respondValue(c, h.service.GetHelpTabText)
}

// GetHelpTabHTML handles GET /api/config/helptabtext/html
//
//	@Summary	Render the help tab text as sanitized HTML
//	@Tags		configuration
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	utils.APIResponse{data=dto.ValueResponse}
//	@Router		/api/config/helptabtext/html [get]
func (h *ConfigHandler) GetHelpTabHTML(c *gin.Context) {
	h.respondValue(c, h.service.GetHelpTabHTML)
}

// SaveHelpTabText handles POST /api/config/helptabtext
//
//	@Summary	Save the help tab Markdown
//	@Tags		configuration
//	@Accept		json
//	@Produce	json
//	@Security	Bearer
//	@Param		body	body		dto.HelpTabTextRequest	true	"help text"
//	@Success	200		{object}	utils.APIResponse{data=dto.ValueResponse}
//	@Failure	400		{object}	utils.APIResponse
//	@Router		/api/config/helptabtext [post]
func (h *ConfigHandler) SaveHelpTabText(c *gin.Context) {
	var req dto.HelpTabTextRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.service.SaveHelpTabText(c.Request.Context(), req.HelpTabText); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Help tab text saved", dto.ValueResponse{Value: req.HelpTabText})
}

// ListLanguages handles GET /api/config/languages
//
//	@Summary	List configured languages with their bindings
//	@Tags		configuration
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	utils.APIResponse{data=[]dto.LanguageDTO}
//	@Router		/api/config/languages [get]
func (h *ConfigHandler) ListLanguages(c *gin.Context) {
	languages, err := h.service.ListLanguages(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", languages)
}

// GetLanguageBinding handles GET /api/config/languages/:code
//
//	@Summary	Get a language binding
//	@Tags		configuration
//	@Produce	json
//	@Security	Bearer
//	@Param		code	path		string	true	"language code"
//	@Success	200		{object}	utils.APIResponse{data=dto.LanguageBindingDTO}
//	@Failure	404		{object}	utils.APIResponse
//	@Router		/api/config/languages/{code} [get]
func (h *ConfigHandler) GetLanguageBinding(c *gin.Context) {
	binding, err := h.service.GetLanguageBinding(c.Request.Context(), c.Param("code"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", binding)
}

// SaveLanguageBinding handles POST /api/config/languages/:code
//
//	@Summary	Bind a language to its knowledge base and expert team
//	@Tags		configuration
//	@Accept		json
//	@Produce	json
//	@Security	Bearer
//	@Param		code	path		string						true	"language code"
//	@Param		body	body		dto.LanguageBindingRequest	true	"binding"
//	@Success	200		{object}	utils.APIResponse{data=dto.LanguageBindingDTO}
//	@Failure	400		{object}	utils.APIResponse
//	@Failure	404		{object}	utils.APIResponse
//	@Router		/api/config/languages/{code} [post]
func (h *ConfigHandler) SaveLanguageBinding(c *gin.Context) {
	var req dto.LanguageBindingRequest
	if !h.bind(c, &req) {
		return
	}
	binding, err := h.service.SaveLanguageBinding(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Language configuration saved", binding)
}

// GetSupportedLanguages handles GET /api/config/supportedlanguages
//
//	@Summary	Get the languages offered in the language picker
//	@Tags		configuration
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	utils.APIResponse{data=[]string}
//	@Router		/api/config/supportedlanguages [get]
func (h *ConfigHandler) GetSupportedLanguages(c *gin.Context) {
	codes, err := h.service.GetSupportedLanguages(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if codes == nil {
		codes = []string{}
	}
	utils.SuccessResponse(c, http.StatusOK, "", codes)
}

// SaveSupportedLanguages handles POST /api/config/supportedlanguages
//
//	@Summary	Save the languages offered in the language picker
//	@Tags		configuration
//	@Accept		json
//	@Produce	json
//	@Security	Bearer
//	@Param		body	body		dto.SupportedLanguagesRequest	true	"language codes"
//	@Success	200		{object}	utils.APIResponse{data=[]string}
//	@Failure	400		{object}	utils.APIResponse
//	@Router		/api/config/supportedlanguages [post]
func (h *ConfigHandler) SaveSupportedLanguages(c *gin.Context) {
	var req dto.SupportedLanguagesRequest
	if !h.bind(c, &req) {
		return
	}
	codes, err := h.service.SaveSupportedLanguages(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Supported languages saved", codes)
}

func (h *ConfigHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warnw("invalid configuration request body", "path", c.Request.URL.Path, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return false
	}
	return true
}

func (h *ConfigHandler) respondValue(c *gin.Context, get func(context.Context) (string, error)) {
	value, err := get(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", dto.ValueResponse{Value: value})
}
