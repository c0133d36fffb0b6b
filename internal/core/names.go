package core

import "strings"

// NormalizeName turns a source identifier into a valid DNS-label style name:
// lowercase, with every character other than a-z, 0-9 and '-' replaced by
// '-'. The transformation is idempotent.
func NormalizeName(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
