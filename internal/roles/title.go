package roles

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	titleWord = regexp.MustCompile(`\w\S*`)

	// Weapon-class acronyms that stay upper-case in award titles.
	acronyms = []struct {
		pattern *regexp.Regexp
		value   string
	}{
		{regexp.MustCompile(`(?i)\bar\b`), "AR"},
		{regexp.MustCompile(`(?i)\bsmg\b`), "SMG"},
	}
)

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
func TitleCase(s string) string {
	return titleWord.ReplaceAllStringFunc(s, func(word string) string {
		r, size := utf8.DecodeRuneInString(word)
		return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
	})
}

// AwardTitle title-cases award text, keeping AR and SMG upper-case.
func AwardTitle(text string) string {
	title := TitleCase(text)
	for _, a := range acronyms {
		title = a.pattern.ReplaceAllString(title, a.value)
	}
	return title
}
