package qnamaker

import (
	"context"
	"net/http"
	"strings"

	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

type route struct {
	language sharedConfig.LanguageQnAMakerKey
	client   knowledgebase.Client
}

// Router maps a language code to the knowledge base client serving it.
// It is read-only after construction and safe for concurrent use.
type Router struct {
	routes []route
	logger logger.Interface
}

// NewRouter builds one client per configured language.
func NewRouter(cfg sharedConfig.QnAMakerConfig, logger logger.Interface) *Router {
	routes := make([]route, 0, len(cfg.Languages))
	for _, lang := range cfg.Languages {
		client := NewClient(ClientConfig{
			LanguageCode:    lang.LanguageCode,
			SubscriptionKey: lang.QnASubscriptionKey,
			Endpoint:        cfg.Endpoint,
			HostURL:         lang.QnAHostURL,
			ScoreThreshold:  cfg.ScoreThreshold,
			Timeout:         cfg.RequestTimeout,
		}, logger.With("language", lang.LanguageCode))
		routes = append(routes, route{language: lang, client: client})
	}
	return &Router{routes: routes, logger: logger}
}

// NewRouterWithClients builds a router over prebuilt clients, in order.
func NewRouterWithClients(languages []sharedConfig.LanguageQnAMakerKey, clients []knowledgebase.Client, logger logger.Interface) *Router {
	routes := make([]route, 0, len(languages))
	for i, lang := range languages {
		if i >= len(clients) {
			break
		}
		routes = append(routes, route{language: lang, client: clients[i]})
	}
	return &Router{routes: routes, logger: logger}
}

// Resolve returns the client for code. Matching is case-insensitive and exact;
// there is no fallback to the default language.
func (r *Router) Resolve(code string) (knowledgebase.Client, bool) {
	code = strings.TrimSpace(code)
	for _, rt := range r.routes {
		if strings.EqualFold(rt.language.LanguageCode, code) {
			return rt.client, true
		}
	}
	return nil, false
}

// IsKnowledgeBaseValid reports whether kbID exists for the language.
// A rejected id (404 or 400) is not an error.
func (r *Router) IsKnowledgeBaseValid(ctx context.Context, code, kbID string) (bool, error) {
	if strings.TrimSpace(kbID) == "" {
		return false, nil
	}
	client, ok := r.Resolve(code)
	if !ok {
		r.logger.Warnw("no knowledge base configured for language", "language", code)
		return false, nil
	}

	if _, err := client.GetKnowledgeBase(ctx, kbID); err != nil {
		switch GetStatusCode(err) {
		case http.StatusNotFound, http.StatusBadRequest:
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Languages returns the configured languages in configuration order.
func (r *Router) Languages() []sharedConfig.LanguageQnAMakerKey {
	out := make([]sharedConfig.LanguageQnAMakerKey, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, rt.language)
	}
	return out
}

// Default returns the language flagged as default, else the first one.
func (r *Router) Default() (string, bool) {
	for _, rt := range r.routes {
		if rt.language.Default {
			return rt.language.LanguageCode, true
		}
	}
	if len(r.routes) > 0 {
		return r.routes[0].language.LanguageCode, true
	}
	return "", false
}

// IsConfigured reports whether a knowledge base serves code.
func (r *Router) IsConfigured(code string) bool {
	_, ok := r.Resolve(code)
	return ok
}
