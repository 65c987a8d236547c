package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// dayTokenLen is the length of the canonical weekday token ("seg", "ter", ...).
const dayTokenLen = 3

// Weekdays lists the Portuguese weekday names offered as day filters.
var Weekdays = []string{"Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado", "Domingo"}

// Fold lowercases s and strips combining accents ("Terça" -> "terca").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// DayToken returns the canonical token of a selected day: the first three
// letters of its folded form. "Segunda-feira", "segunda" and "Seg" all
// yield "seg"; "Sábado" yields "sab".
func DayToken(day string) string {
	folded := []rune(Fold(day))
	n := 0
	for n < len(folded) && n < dayTokenLen && unicode.IsLetter(folded[n]) {
		n++
	}
	return string(folded[:n])
}

// MatchDay reports whether a resolved day cell covers the selected day.
// Multi-day cells such as "Seg/Qua/Sex" match each listed day.
func MatchDay(cell, selected string) bool {
	token := DayToken(selected)
	if token == "" {
		return false
	}
	return strings.Contains(Fold(cell), token)
}
