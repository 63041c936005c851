package langpref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
)

func TestCanonicalCode(t *testing.T) {
	tests := map[string]string{
		"EN":      "en",
		"en-us":   "en-us",
		" fr ":    "fr",
		"de-DE":   "de-de",
		"zh-Hans": "zh-hans",
		"en_US":   "en-us",
		"iw":      "iw",
		"IN":      "in",
		"tl":      "tl",
	}
	for in, want := range tests {
		got, err := CanonicalCode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNewPreferenceValidation(t *testing.T) {
	_, err := NewPreference("", "en")
	assert.True(t, errors.IsValidationError(err))

	_, err = NewPreference("oid", "not a language!")
	assert.True(t, errors.IsValidationError(err))

	p, err := NewPreference("oid", "ES")
	require.NoError(t, err)
	assert.Equal(t, "es", p.LanguageCode)
}
