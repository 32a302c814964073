package helper

import (
	"strings"
	"unicode/utf8"
)

// GetDriverCodeName builds a three letter code from a full name: the first
// letter of the name and the first two of the surname.
// "Max Verstappen" -> "MVE". Placeholders like "Driver #44" keep their number.
func GetDriverCodeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if i := strings.Index(name, "#"); i >= 0 {
		return name[i:]
	}

	words := strings.Fields(name)
	code := string(words[0][0])
	if len(words) > 1 {
		last := words[len(words)-1]
		if len(last) > 2 {
			code += last[:2]
		} else {
			code += last
		}
	} else if len(words[0]) > 2 {
		code += words[0][1:3]
	}
	return strings.ToUpper(code)
}

// Abbreviate cuts s to max runes, marking the cut with a trailing dot.
func Abbreviate(s string, max int) string {
	if max <= 1 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "."
}

// ShortGrandPrix drops the "Grand Prix" suffix from a meeting name.
func ShortGrandPrix(name string) string {
	short := strings.TrimSpace(strings.TrimSuffix(name, "Grand Prix"))
	if short == "" {
		return name
	}
	return short
}
