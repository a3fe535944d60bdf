// Package locale holds the supported-language table and the detection order
// used by the locale-prefix redirect: cookie, then Accept-Language, then the
// default.
package locale

import "strings"

const Default = "en"

var supported = map[string]string{
	"en": "English",
	"es": "Español",
	"fr": "Français",
	"ar": "العربية",
	"am": "አማርኛ",
}

func IsSupported(lang string) bool {
	_, ok := supported[lang]
	return ok
}

func Supported() []string {
	langs := make([]string, 0, len(supported))
	for code := range supported {
		langs = append(langs, code)
	}
	return langs
}

// Detect picks a language from the locale cookie value or, failing that, the
// first tag of an Accept-Language header ("fr-CA,fr;q=0.9" yields "fr").
func Detect(cookie, acceptLanguage string) string {
	if IsSupported(cookie) {
		return cookie
	}
	if acceptLanguage != "" {
		first := strings.Split(acceptLanguage, ",")[0]
		first = strings.Split(first, ";")[0]
		first = strings.ToLower(strings.TrimSpace(strings.Split(first, "-")[0]))
		if IsSupported(first) {
			return first
		}
	}
	return Default
}
