package match

import (
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// NamingStyle decides how Go field names become serialized property names.
type NamingStyle string

const (
	// NamingGo keeps the Go field name unchanged.
	NamingGo NamingStyle = "go"
	// NamingCamel produces lowerCamelCase ("orderId").
	NamingCamel NamingStyle = "camel"
	// NamingSnake produces snake_case ("order_id").
	NamingSnake NamingStyle = "snake"
)

// ErrUnknownNamingStyle is returned by ParseNamingStyle.
var ErrUnknownNamingStyle = errors.New("unknown naming style")

// ParseNamingStyle accepts "go", "camel" and "snake". Empty means NamingGo.
func ParseNamingStyle(s string) (NamingStyle, error) {
	switch NamingStyle(strings.ToLower(s)) {
	case "", NamingGo:
		return NamingGo, nil
	case NamingCamel:
		return NamingCamel, nil
	case NamingSnake:
		return NamingSnake, nil
	}

	return "", errors.Wrapf(ErrUnknownNamingStyle, "%q", s)
}

// Apply renders the Go identifier ident in style n.
func (n NamingStyle) Apply(ident string) string {
	switch n {
	case NamingCamel:
		return ToCamel(ident)
	case NamingSnake:
		return ToSnake(ident)
	default:
		return ident
	}
}

// ToCamel converts an identifier to lowerCamelCase.
func ToCamel(s string) string {
	tokens := TokenizeIdent(s)
	for i := 1; i < len(tokens); i++ {
		tokens[i] = upperFirst(tokens[i])
	}

	return strings.Join(tokens, "")
}

// ToSnake converts an identifier to snake_case.
func ToSnake(s string) string {
	return strings.Join(TokenizeIdent(s), "_")
}

// NormalizeIdent folds case and separators so that "OrderID", "order_id" and
// "orderId" compare equal.
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// TokenizeIdent splits an identifier into lowercase words.
// Examples:
//   - "OrderID" -> ["order", "id"]
//   - "XMLParser" -> ["xml", "parser"]
//   - "getHTTPResponse" -> ["get", "http", "response"]
//   - "price_cents" -> ["price", "cents"]
func TokenizeIdent(s string) []string {
	return lo.Map(tokenizeCamelCase(s), func(t string, _ int) string {
		return strings.ToLower(t)
	})
}

func tokenizeCamelCase(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// startsToken reports a lower->upper transition ("orderID" before 'I') or the
// end of an acronym ("XMLParser" before 'P').
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}

	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])

	return string(r)
}
