package moderation

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes every markup tag and HTML-escapes what remains.
// Script and style bodies are dropped entirely rather than kept as text.
var stripPolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.SkipElementsContent("script", "style")
	return p
}()

// Sanitize neutralizes markup in user-submitted comment content. Tags are
// stripped, the remaining text is entity-escaped, and surrounding
// whitespace is trimmed. Literal punctuation survives as visible text.
func Sanitize(content string) string {
	return strings.TrimSpace(stripPolicy.Sanitize(content))
}
