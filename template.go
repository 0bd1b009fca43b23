package pgmt

import (
	"regexp"
	"strings"
)

// rePlaceholder matches a maximal ${IDENT} substitution token. There is
// no escape syntax: a bare $, an unmatched {, or $foo without braces all
// pass through untouched.
var rePlaceholder = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)

// Expand replaces every ${name} in tmpl with its value from vars.
// Lookup is case-sensitive and single-pass: a replacement value is
// never itself re-scanned for further substitutions. An unresolved name
// is a fatal MissingPlaceholderError.
func Expand(tmpl string, vars Placeholders) (string, error) {
	matches := rePlaceholder.FindAllStringSubmatchIndex(tmpl, -1)
	if matches == nil {
		return tmpl, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		nameStart, nameEnd := m[2], m[3]

		b.WriteString(tmpl[last:start])

		name := tmpl[nameStart:nameEnd]
		val, ok := vars[name]
		if !ok {
			return "", &MissingPlaceholderError{Name: name}
		}
		b.WriteString(val)

		last = end
	}
	b.WriteString(tmpl[last:])
	return b.String(), nil
}
