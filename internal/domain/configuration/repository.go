package configuration

import "context"

// Repository stores scalar settings and per-language bindings.
//
// UpsertScalar reports failure through its boolean and never returns an error;
// callers must check it. Getters return empty values for absent rows.
type Repository interface {
	UpsertScalar(ctx context.Context, key EntityType, value string) bool
	GetScalar(ctx context.Context, key EntityType) (string, error)
	UpsertLanguageConfig(ctx context.Context, cfg *LanguageKBConfiguration) error
	GetLanguageConfig(ctx context.Context, languageCode string) (*LanguageKBConfiguration, error)
	ListLanguageConfigs(ctx context.Context) ([]*LanguageKBConfiguration, error)
}
