package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"go.uber.org/zap"
)

//go:embed locales/*.json
var localeFS embed.FS

type ctxKey struct{}

// Translator resolves display labels for the locale carried on a context.
type Translator struct {
	bundle  *goi18n.Bundle
	matcher language.Matcher
	def     string
}

// New loads every embedded locale file. defaultLocale is used when a
// request names no supported language.
func New(defaultLocale string, logger *zap.Logger) (*Translator, error) {
	def, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("i18n: default locale %q: %w", defaultLocale, err)
	}

	bundle := goi18n.NewBundle(def)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", e.Name(), err)
		}
	}

	// the default tag goes first so the matcher falls back to it
	tags := []language.Tag{def}
	for _, tag := range bundle.LanguageTags() {
		if tag != def {
			tags = append(tags, tag)
		}
	}

	if logger != nil {
		logger.Info("i18n locales loaded", zap.Int("count", len(entries)), zap.String("default", def.String()))
	}
	return &Translator{bundle: bundle, matcher: language.NewMatcher(tags), def: def.String()}, nil
}

// Match picks the supported locale closest to an Accept-Language header.
func (t *Translator) Match(acceptLanguage string) string {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return t.def
	}
	tag, _, _ := t.matcher.Match(prefs...)
	base, _ := tag.Base()
	return base.String()
}

// Middleware stores the negotiated locale on the request context.
func (t *Translator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := t.Match(c.GetHeader("Accept-Language"))
		c.Request = c.Request.WithContext(WithLocale(c.Request.Context(), locale))
		c.Header("Content-Language", locale)
		c.Next()
	}
}

// T translates messageID for the locale on ctx. The id itself is returned
// when no translation exists.
func (t *Translator) T(ctx context.Context, messageID string) string {
	if t == nil {
		return messageID
	}
	locale := LocaleFromContext(ctx)
	if locale == "" {
		locale = t.def
	}
	msg, err := goi18n.NewLocalizer(t.bundle, locale, t.def).Localize(&goi18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID
	}
	return msg
}

func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}
