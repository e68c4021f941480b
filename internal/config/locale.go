package config

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	LanguageAuto    = "auto"
	LanguageEnglish = "en"
	LanguageChinese = "zh"
)

var labelMatcher = language.NewMatcher([]language.Tag{language.English, language.Chinese})

// preferredLanguages reports the user's UI languages, most preferred first.
// Replaced in tests.
var preferredLanguages = systemLanguages

// Label returns the menu text for the configured language. In auto mode the
// user's preferred UI languages decide between the English and Chinese labels.
func (c Config) Label() string {
	switch c.Language {
	case LanguageEnglish:
		return c.MenuLabel
	case LanguageChinese:
		return c.MenuLabelZH
	}

	var tags []language.Tag
	for _, name := range preferredLanguages() {
		tag, err := language.Parse(normalizeLocale(name))
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return c.MenuLabel
	}
	_, index, confidence := labelMatcher.Match(tags...)
	if index == 1 && confidence != language.No {
		return c.MenuLabelZH
	}
	return c.MenuLabel
}

// normalizeLocale turns POSIX locale names such as zh_CN.UTF-8 into BCP 47.
func normalizeLocale(name string) string {
	if idx := strings.IndexAny(name, ".@"); idx >= 0 {
		name = name[:idx]
	}
	return strings.ReplaceAll(strings.TrimSpace(name), "_", "-")
}
