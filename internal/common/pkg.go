package common

import (
	"path"
	"strings"
	"unicode"
)

// UnknownStr is the String() value of enum members without a name.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return Sanitize(path.Base(pkgPath))
}

// Sanitize turns s into a Go identifier fragment: every rune that cannot
// appear in an identifier becomes '_'.
func Sanitize(s string) string {
	var b strings.Builder

	for i, r := range s {
		switch {
		case unicode.IsLetter(r), r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteRune('_')
			}

			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return b.String()
}

// Qualify renders name as seen from package ctxPkg: bare when both live in
// the same package, alias-qualified otherwise.
func Qualify(ctxPkg, pkgPath, name string) string {
	if pkgPath == "" || pkgPath == ctxPkg {
		return name
	}

	return PkgAlias(pkgPath) + "." + name
}
