package utils

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9-]+`)
	repeatedHyphen = regexp.MustCompile(`-+`)
	slugPattern    = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// GenerateSlug turns a title into a URL slug.
// "Pantai Pink & Bukit Merese" → "pantai-pink-bukit-merese"
func GenerateSlug(input string) string {
	// Step 1: fold accented Latin letters to ASCII ("Café" → "Cafe")
	ascii := RemoveDiacritics(input)

	// Step 2: lowercase, whitespace → hyphen
	lower := strings.ToLower(ascii)
	hyphenated := strings.Join(strings.Fields(lower), "-")

	// Step 3: keep only a-z, 0-9 and hyphens
	cleaned := nonSlugChars.ReplaceAllString(hyphenated, "-")

	// Step 4: collapse "a--b" and trim edges
	normalized := repeatedHyphen.ReplaceAllString(cleaned, "-")
	return strings.Trim(normalized, "-")
}

// IsSlug reports whether s only contains lowercase letters, digits and hyphens.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// RemoveDiacritics maps accented Latin letters to their base letter.
// Indonesian copy is mostly ASCII; this covers loan words and names.
func RemoveDiacritics(input string) string {
	mappings := map[rune]rune{
		'á': 'a', 'à': 'a', 'â': 'a', 'ä': 'a', 'ã': 'a', 'å': 'a',
		'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
		'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
		'ó': 'o', 'ò': 'o', 'ô': 'o', 'ö': 'o', 'õ': 'o',
		'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
		'ñ': 'n', 'ç': 'c', 'ý': 'y',

		'Á': 'A', 'À': 'A', 'Â': 'A', 'Ä': 'A', 'Ã': 'A', 'Å': 'A',
		'É': 'E', 'È': 'E', 'Ê': 'E', 'Ë': 'E',
		'Í': 'I', 'Ì': 'I', 'Î': 'I', 'Ï': 'I',
		'Ó': 'O', 'Ò': 'O', 'Ô': 'O', 'Ö': 'O', 'Õ': 'O',
		'Ú': 'U', 'Ù': 'U', 'Û': 'U', 'Ü': 'U',
		'Ñ': 'N', 'Ç': 'C', 'Ý': 'Y',
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
