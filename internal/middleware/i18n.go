package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// LocaleKey is the context key the locale middleware stores under.
var LocaleKey = localeContextKey{}

// supported lists the locales the service can render messages in; the first
// entry is the matcher fallback.
var supported = []language.Tag{
	language.SimplifiedChinese,
	language.English,
}

var matcher = language.NewMatcher(supported)

// I18N resolves the request locale from the X-Locale header, then
// Accept-Language, then the configured default, and stores it in the
// request context.
func I18N(defaultLocale string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, defaultLocale)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LocaleFromContext returns the resolved locale, defaulting to zh-CN.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok && v != "" {
		return v
	}
	return "zh-CN"
}

func detectLocale(r *http.Request, fallback string) string {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		return normalizeLocale(v)
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf > language.No {
				return canonicalLocale(supported[idx])
			}
		}
	}
	if fallback != "" {
		return normalizeLocale(fallback)
	}
	return "zh-CN"
}

func normalizeLocale(raw string) string {
	tag, err := language.Parse(raw)
	if err != nil {
		return "zh-CN"
	}
	_, idx, _ := matcher.Match(tag)
	return canonicalLocale(supported[idx])
}

func canonicalLocale(tag language.Tag) string {
	if tag == language.SimplifiedChinese {
		return "zh-CN"
	}
	return "en"
}
