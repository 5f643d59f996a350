package slug

import (
	"regexp"
	"strings"
)

var (
	nonWord     = regexp.MustCompile(`[^\w\-]+`)
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// Make converts text into a URL-friendly slug.
// PRE: none
// POST: result is lowercase ASCII word characters separated by single hyphens,
// with no leading or trailing hyphen; may be empty
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.Join(strings.Fields(s), "-")
	s = nonWord.ReplaceAllString(s, "")
	s = multiHyphen.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
