package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// DetectLanguage resolves the client's preferred language from the lang
// query parameter or the Accept-Language header and stores it under "lang".
// Defaults to English.
func DetectLanguage() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = primaryLanguage(c.GetHeader("Accept-Language"))
		}
		if lang == "" {
			lang = "en"
		}
		c.Set("lang", lang)
		c.Next()
	}
}

// primaryLanguage extracts the first language tag from an Accept-Language
// header, dropping region subtags and quality weights.
func primaryLanguage(header string) string {
	if header == "" {
		return ""
	}
	first := strings.Split(header, ",")[0]
	first = strings.Split(first, ";")[0]
	first = strings.Split(first, "-")[0]
	return strings.TrimSpace(strings.ToLower(first))
}
