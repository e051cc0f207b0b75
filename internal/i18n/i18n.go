package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
)

// Translator renders user-facing messages in one language.
type Translator struct {
	// Lang is the negotiated language tag (e.g. "fr").
	Lang string

	// Supported lists the locales found in the embedded files.
	Supported []string

	localizer *goi18n.Localizer
}

// New loads the embedded locales and picks the closest match to lang,
// falling back to config.DefaultLanguage.
func New(lang string) *Translator {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{Lang: config.DefaultLanguage}

	entries, err := localeFS.ReadDir(localeDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return t
	}

	var tags []language.Tag
	for _, entry := range entries {
		name := entry.Name()
		code := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
		if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) || code == "" {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		t.Supported = append(t.Supported, code)
		tags = append(tags, language.Make(code))
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, code,
		)
	}

	if lang != "" && len(tags) > 0 {
		// The matcher returns an index into tags; its confidence is No for unrelated languages.
		_, idx, conf := language.NewMatcher(tags).Match(language.Make(lang))
		if conf != language.No {
			t.Lang = t.Supported[idx]
		}
	}

	t.localizer = goi18n.NewLocalizer(bundle, t.Lang)
	return t
}

// Msg translates key with optional template data. Missing keys return the key itself.
func (t *Translator) Msg(key string, data map[string]any) string {
	return t.localize(&goi18n.LocalizeConfig{MessageID: key, TemplateData: data})
}

// Count translates a plural message; the template receives .Count.
func (t *Translator) Count(key string, count int) string {
	return t.localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: map[string]any{"Count": count},
		PluralCount:  count,
	})
}

// Summary is the calendar event title for a congratulation.
func (t *Translator) Summary(name string) string {
	msg := t.Msg(config.TKeyEvtSummary, map[string]any{"Name": name})
	if msg == config.TKeyEvtSummary {
		return fmt.Sprintf(config.FallbackSummary, name)
	}
	return msg
}

// UpcomingLine renders one congratulation for terminal output.
func (t *Translator) UpcomingLine(u addressbook.UpcomingBirthday) string {
	msg := t.Msg(config.TKeyUpcomingLine, map[string]any{"Name": u.Name, "Date": u.CongratulationDate})
	if msg == config.TKeyUpcomingLine {
		return fmt.Sprintf(config.FallbackLine, u.Name, u.CongratulationDate)
	}
	return msg
}

// ValidationMessage localizes an addressbook.FormatError.
// Other errors are returned as their Error() text.
func (t *Translator) ValidationMessage(err error) string {
	var fe *addressbook.FormatError
	if !errors.As(err, &fe) {
		return err.Error()
	}

	key := config.TKeyErrBirthday
	if fe.Field == config.FieldPhone {
		key = config.TKeyErrPhone
	}
	msg := t.Msg(key, nil)
	if msg == key {
		return fe.Reason
	}
	return msg
}

func (t *Translator) localize(cfg *goi18n.LocalizeConfig) string {
	if t.localizer == nil {
		return cfg.MessageID
	}
	msg, err := t.localizer.Localize(cfg)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, cfg.MessageID,
			config.LogKeyError, err,
		)
		return cfg.MessageID
	}
	return msg
}
