package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nawedy/melting-pot-plus/internal/locale"
)

const (
	LocaleCookieName   = "locale"
	localeCookieMaxAge = 60 * 60 * 24 * 365 // one year
)

// LocaleRedirect rewrites language-less API paths to their prefixed form:
// /api/v1/products becomes /api/v1/en/products for a visitor whose cookie or
// Accept-Language resolves to English. Installed as the NoRoute handler so it
// only sees paths the prefixed routes did not match. The chosen language is
// pinned in a cookie for subsequent requests.
func LocaleRedirect(prefix string, exempt ...string) gin.HandlerFunc {
	exemptSet := make(map[string]bool, len(exempt))
	for _, seg := range exempt {
		exemptSet[seg] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		rest, ok := strings.CutPrefix(path, prefix+"/")
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		first := rest
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			first = rest[:i]
		}
		if locale.IsSupported(first) || exemptSet[first] {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		cookie, _ := c.Cookie(LocaleCookieName)
		lang := locale.Detect(cookie, c.GetHeader("Accept-Language"))

		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(LocaleCookieName, lang, localeCookieMaxAge, "/", "", false, false)

		target := prefix + "/" + lang + "/" + rest
		if raw := c.Request.URL.RawQuery; raw != "" {
			target += "?" + raw
		}
		c.Redirect(http.StatusTemporaryRedirect, target)
	}
}

// ValidateLang rejects unknown :lang path segments and stashes the language
// for handlers.
func ValidateLang() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Param("lang")
		if !locale.IsSupported(lang) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unsupported language"})
			return
		}
		c.Set("lang", lang)
		c.Next()
	}
}

func GetLang(c *gin.Context) string {
	lang, _ := c.Get("lang")
	l, _ := lang.(string)
	if l == "" {
		return locale.Default
	}
	return l
}
