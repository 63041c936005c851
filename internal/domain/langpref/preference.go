package langpref

import (
	"context"
	"strings"

	"golang.org/x/text/language"

	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
)

// PartitionKey is the fixed partition of preference rows.
const PartitionKey = "LanguagePreference"

// Preference is a user's sticky language choice.
type Preference struct {
	UserObjectID string
	LanguageCode string
}

// NewPreference validates the language tag and stores it in canonical lower-case form.
func NewPreference(userObjectID, languageCode string) (*Preference, error) {
	if strings.TrimSpace(userObjectID) == "" {
		return nil, errors.NewValidationError("user object id is required")
	}
	code, err := CanonicalCode(languageCode)
	if err != nil {
		return nil, err
	}
	return &Preference{UserObjectID: userObjectID, LanguageCode: code}, nil
}

// CanonicalCode validates a BCP 47 tag such as "EN", "en-us" or "zh-Hans"
// and returns it lower-cased with "-" separators. Deprecated subtags are
// kept as written ("iw" stays "iw") so stored rows match configured codes.
func CanonicalCode(code string) (string, error) {
	trimmed := strings.TrimSpace(code)
	if _, err := language.Parse(trimmed); err != nil {
		return "", errors.NewValidationError("invalid language code", code)
	}
	return strings.ToLower(strings.ReplaceAll(trimmed, "_", "-")), nil
}

// Repository stores one preference per user. Get returns (nil, nil) when absent.
type Repository interface {
	Upsert(ctx context.Context, p *Preference) error
	Get(ctx context.Context, userObjectID string) (*Preference, error)
}
