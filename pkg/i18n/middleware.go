package i18n

import (
	"net/http"
)

// Middleware stores the request locale in the context. A supported ?lang=
// query parameter wins over Accept-Language so download links can pin the
// report language. The chosen locale is echoed in Content-Language.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := r.URL.Query().Get("lang")
		if !Supported(locale) {
			locale = ParseAcceptLanguage(r.Header.Get("Accept-Language"))
		}

		w.Header().Set("Content-Language", locale)
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), locale)))
	})
}
