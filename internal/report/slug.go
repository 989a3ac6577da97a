package report

import "strings"

// Slugify collapses every run of non-alphanumeric characters into a single
// separator, preserving case. Leading and trailing separators are trimmed.
func Slugify(name, separator string) string {
	var b strings.Builder
	pending := false
	for _, r := range name {
		alnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !alnum {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteString(separator)
			pending = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
