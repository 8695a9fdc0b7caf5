package web

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

var supported = language.NewMatcher([]language.Tag{
	language.English,
	language.Vietnamese,
	language.Indonesian,
	language.German,
	language.French,
	language.Japanese,
})

// Language picks the display language from Accept-Language, English when nothing matches.
func Language(c *gin.Context) language.Tag {
	tag, _ := language.MatchStrings(supported, c.Query("lang"), c.GetHeader("Accept-Language"))
	base, _ := tag.Base()
	t, err := language.Compose(base)
	if err != nil {
		return language.English
	}
	return t
}
