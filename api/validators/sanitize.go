package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the length of
// free-text query values before they reach a service.
func SanitizeString(input string, maxLen int) string {
	value := strings.TrimSpace(input)
	if maxLen > 0 && len(value) > maxLen {
		value = value[:maxLen]
	}
	return value
}
