package naming

import "strings"

// Case is a letter-case projection.
type Case int

// Letter-case projections.
const (
	// Preserve leaves letter case as written.
	Preserve Case = iota
	// Upper projects ASCII letters to upper case.
	Upper
	// Lower projects ASCII letters to lower case.
	Lower
)

// Style is a complete case conversion: which rune replaces a space and how
// letters are cased. A zero Separator keeps spaces as they are.
type Style struct {
	Separator rune
	Case      Case
}

// Predefined styles.
var (
	Snake      = Style{Separator: '_', Case: Lower}
	Kebab      = Style{Separator: '-', Case: Lower}
	UpperSnake = Style{Separator: '_', Case: Upper}
	UpperKebab = Style{Separator: '-', Case: Upper}
	Verbatim   = Style{}
)

// Named is anything that can report its own human-readable name.
type Named interface {
	Name() string
}

// Convert applies st to name.
//
// Spaces are replaced by st.Separator (when set) and ASCII letters are
// projected to st.Case. Every other character is copied unchanged.
func Convert(name string, st Style) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == ' ' && st.Separator != 0:
			b.WriteRune(st.Separator)
		case st.Case == Upper && c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		case st.Case == Lower && c >= 'A' && c <= 'Z':
			b.WriteByte(c - 'A' + 'a')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Of converts the name reported by n.
func Of(n Named, st Style) string {
	return Convert(n.Name(), st)
}

// Portable reports whether name is non-empty and uses only ASCII letters and
// spaces, the alphabet whose conversion is fully specified.
func Portable(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c != ' ' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// ParseStyle maps a configuration keyword to a Style.
// Recognised: snake (snake_case), kebab (kebab-case), upper_snake
// (screaming_snake), upper_kebab and verbatim (none), in any letter case.
func ParseStyle(s string) (Style, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "snake", "snake_case":
		return Snake, true
	case "kebab", "kebab-case":
		return Kebab, true
	case "upper_snake", "screaming_snake":
		return UpperSnake, true
	case "upper_kebab":
		return UpperKebab, true
	case "verbatim", "none":
		return Verbatim, true
	default:
		return Style{}, false
	}
}
