package utils

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	multiHyphen  = regexp.MustCompile(`-+`)
)

// GenerateSlug turns a title or business name into a URL-safe slug.
// "Instalații Sanitare Brașov" → "instalatii-sanitare-brasov"
func GenerateSlug(input string) string {
	ascii := RemoveDiacritics(input)
	lower := strings.ToLower(ascii)
	hyphenated := strings.ReplaceAll(lower, " ", "-")
	cleaned := nonSlugChars.ReplaceAllString(hyphenated, "")
	normalized := multiHyphen.ReplaceAllString(cleaned, "-")
	return strings.Trim(normalized, "-")
}

// RemoveDiacritics maps Romanian diacritics to their base characters,
// including the legacy cedilla forms (ş/ţ) still common in older data.
func RemoveDiacritics(input string) string {
	mappings := map[rune]rune{
		'ă': 'a', 'â': 'a', 'î': 'i', 'ș': 's', 'ț': 't',
		'ş': 's', 'ţ': 't',
		'Ă': 'A', 'Â': 'A', 'Î': 'I', 'Ș': 'S', 'Ț': 'T',
		'Ş': 'S', 'Ţ': 'T',
	}

	result := make([]rune, 0, len(input))
	for _, r := range input {
		if replacement, ok := mappings[r]; ok {
			result = append(result, replacement)
		} else {
			result = append(result, r)
		}
	}

	return string(result)
}
