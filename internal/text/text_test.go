package text_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cadence/internal/config"
	"github.com/tartampluch/go-cadence/internal/text"
)

func TestTranslator_English(t *testing.T) {
	tr := text.NewTranslator(config.DefaultLanguage)

	assert.Equal(t, "Time to reach out to Ada", tr.NotifTitle("Ada"))
	assert.Equal(t, "Keep in touch with Ada", tr.NotifBody("Ada"))
	assert.Equal(t, "Reach out: Ada", tr.EventReminder("Ada"))
}

func TestTranslator_French(t *testing.T) {
	tr := text.NewTranslator("fr")

	assert.Equal(t, "Prenez des nouvelles de Ada", tr.NotifTitle("Ada"))
	assert.Equal(t, "Anniversaire : Ada (30 ans)", tr.EventBirthday("Ada", 30, true))
}

func TestTranslator_UnknownLanguageFallsBack(t *testing.T) {
	tr := text.NewTranslator("xx")

	assert.Equal(t, "Time to reach out to Ada", tr.NotifTitle("Ada"))
}

func TestDigestTitle_Plural(t *testing.T) {
	tr := text.NewTranslator(config.DefaultLanguage)

	assert.Equal(t, "1 connection to catch up with", tr.DigestTitle(1))
	assert.Equal(t, "4 connections to catch up with", tr.DigestTitle(4))
}

func TestDigestBody(t *testing.T) {
	tr := text.NewTranslator(config.DefaultLanguage)

	assert.Equal(t, "Ada, Blaise", tr.DigestBody("Ada, Blaise", 0))
	assert.Equal(t, "Ada, Blaise and 2 more", tr.DigestBody("Ada, Blaise", 2))
}

func TestEventBirthday_Variants(t *testing.T) {
	tr := text.NewTranslator(config.DefaultLanguage)

	assert.Equal(t, "Birthday: Ada", tr.EventBirthday("Ada", 0, false))
	assert.Equal(t, "Birthday: Ada (36)", tr.EventBirthday("Ada", 36, true))
	assert.Equal(t, "Birth of Ada", tr.EventBirthday("Ada", 0, true))
}

func TestDetectedLanguages(t *testing.T) {
	tr := text.NewTranslator(config.DefaultLanguage)

	assert.Contains(t, tr.SupportedLanguages, "en")
	assert.Contains(t, tr.SupportedLanguages, "fr")
}

// TestLocaleIntegrity ensures that every translation key defined in
// config.go actually exists in each locale JSON file.
func TestLocaleIntegrity(t *testing.T) {
	keysToCheck := []string{
		config.TKeyNotifTitle,
		config.TKeyNotifBody,
		config.TKeyDigestTitle,
		config.TKeyDigestBody,
		config.TKeyDigestMore,
		config.TKeyEvtReminder,
		config.TKeyEvtBirthday,
		config.TKeyEvtBdayAge,
		config.TKeyEvtBdayBirth,
		config.TKeyFallbackLabel,
	}

	for _, file := range []string{"locales/active.en.json", "locales/active.fr.json"} {
		content, err := os.ReadFile(file)
		require.NoError(t, err)

		var jsonMap map[string]interface{}
		require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid: %s", file)

		for _, key := range keysToCheck {
			_, exists := jsonMap[key]
			assert.Truef(t, exists, "Key '%s' defined in config.go is missing in %s", key, file)
		}
	}
}
