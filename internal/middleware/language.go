package middleware

import (
	"context"
	"net/http"

	"toolstore/internal/i18n"
)

// LangKey is the context key for the active language.
const LangKey contextKey = "lang"

// Language resolves the active language from the ts_lang cookie, then the
// Accept-Language header, and declares it with Content-Language.
var Language = NewLanguage(i18n.Default)

// NewLanguage is Language with fallback used when neither the cookie nor
// the browser names a supported language.
func NewLanguage(fallback i18n.Lang) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			persisted := ""
			if c, err := r.Cookie(i18n.CookieName); err == nil {
				persisted = c.Value
			}
			lang := i18n.Resolve(persisted, r.Header.Get("Accept-Language"), fallback)

			w.Header().Set("Content-Language", string(lang))
			next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
		})
	}
}

// WithLang returns a copy of ctx carrying lang.
func WithLang(ctx context.Context, lang i18n.Lang) context.Context {
	return context.WithValue(ctx, LangKey, lang)
}

// LangFromCtx returns the active language, or i18n.Default.
func LangFromCtx(ctx context.Context) i18n.Lang {
	if lang, ok := ctx.Value(LangKey).(i18n.Lang); ok {
		return lang
	}
	return i18n.Default
}

// SetLanguage persists lang in the ts_lang cookie and declares it on the
// response.
func SetLanguage(w http.ResponseWriter, lang i18n.Lang, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     i18n.CookieName,
		Value:    string(lang),
		Path:     "/",
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   365 * 24 * 60 * 60,
	})
	w.Header().Set("Content-Language", string(lang))
}
