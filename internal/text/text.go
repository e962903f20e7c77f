// Package text renders the user-facing strings for notifications and
// calendar events, backed by embedded go-i18n message files.
package text

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-cadence/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator localizes reminder and digest text. The zero value is not
// usable; construct it with NewTranslator.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer

	// SupportedLanguages lists the language codes detected in the
	// embedded locale files, in directory order.
	SupportedLanguages []string
}

// NewTranslator loads the embedded message files and selects lang,
// falling back to English for missing keys.
func NewTranslator(lang string) *Translator {
	tr := &Translator{}
	tr.bundle = i18n.NewBundle(language.English)
	tr.bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return tr
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		tr.SupportedLanguages = append(tr.SupportedLanguages, langCode)

		path := "locales/" + name
		if _, err := tr.bundle.LoadMessageFileFS(localeFS, path); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
		} else {
			slog.Debug(config.MsgLocaleLoaded,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyLang, langCode,
				config.LogKeyFile, name,
			)
		}
	}

	tr.SetLanguage(lang)
	return tr
}

// SetLanguage switches the active language for subsequent lookups.
func (tr *Translator) SetLanguage(lang string) {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	tr.localizer = i18n.NewLocalizer(tr.bundle, lang, config.DefaultLanguage)
}

func (tr *Translator) localize(key string, data map[string]interface{}) (string, error) {
	if tr.localizer == nil {
		return "", fmt.Errorf(config.ErrLocNotInit)
	}
	msg, err := tr.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
	}
	return msg, err
}

// NotifTitle renders the reminder notification title for a contact.
func (tr *Translator) NotifTitle(name string) string {
	msg, err := tr.localize(config.TKeyNotifTitle, map[string]interface{}{"Name": name})
	if err != nil || msg == "" {
		return fmt.Sprintf(config.FallbackNotifTitle, name)
	}
	return msg
}

// NotifBody renders the reminder notification body for a contact.
func (tr *Translator) NotifBody(name string) string {
	msg, err := tr.localize(config.TKeyNotifBody, map[string]interface{}{"Name": name})
	if err != nil || msg == "" {
		return fmt.Sprintf(config.FallbackNotifBody, name)
	}
	return msg
}

// DigestTitle renders the daily digest title for count due contacts.
func (tr *Translator) DigestTitle(count int) string {
	if tr.localizer != nil {
		msg, err := tr.localizer.Localize(&i18n.LocalizeConfig{
			MessageID:    config.TKeyDigestTitle,
			TemplateData: map[string]interface{}{"Count": count},
			PluralCount:  count,
		})
		if err == nil && msg != "" {
			return msg
		}
	}
	return fmt.Sprintf(config.FallbackDigestTitle, count)
}

// DigestBody renders the digest body from the joined visible names plus
// the number of names the profile cap hid.
func (tr *Translator) DigestBody(names string, more int) string {
	if more <= 0 {
		return names
	}
	msg, err := tr.localize(config.TKeyDigestMore, map[string]interface{}{
		"Names": names,
		"More":  more,
	})
	if err != nil || msg == "" {
		return fmt.Sprintf(config.FallbackDigestMore, names, more)
	}
	return msg
}

// EventReminder renders the calendar summary for a cadence occurrence.
func (tr *Translator) EventReminder(name string) string {
	msg, err := tr.localize(config.TKeyEvtReminder, map[string]interface{}{"Name": name})
	if err != nil || msg == "" {
		return fmt.Sprintf(config.FallbackEvtReminder, name)
	}
	return msg
}

// EventBirthday renders the calendar summary for a birthday occurrence.
// When the birth year is known the turned age is appended; age 0 marks
// the birth itself.
func (tr *Translator) EventBirthday(name string, age int, yearKnown bool) string {
	if !yearKnown {
		msg, err := tr.localize(config.TKeyEvtBirthday, map[string]interface{}{"Name": name})
		if err != nil || msg == "" {
			return fmt.Sprintf(config.FallbackEvtBirthday, name)
		}
		return msg
	}
	if age == 0 {
		msg, err := tr.localize(config.TKeyEvtBdayBirth, map[string]interface{}{"Name": name})
		if err != nil || msg == "" {
			return fmt.Sprintf(config.FallbackEvtBdayBirth, name)
		}
		return msg
	}
	msg, err := tr.localize(config.TKeyEvtBdayAge, map[string]interface{}{"Name": name, "Age": age})
	if err != nil || msg == "" {
		return fmt.Sprintf(config.FallbackEvtBdayAge, name, age)
	}
	return msg
}
